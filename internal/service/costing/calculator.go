package costing

import (
	"math"

	"github.com/mamadbah2/fabric-ledger/internal/domain/models"
)

// epsilon is the gap between 1 and the next float64. It nudges values such
// as 1.005, stored as 1.00499999..., back over the half-cent boundary.
const epsilon = 2.220446049250313e-16

const inchesPerYard = 36

// maxItems is 2^63, the first float64 that no longer fits an int64.
const maxItems = float64(1 << 63)

// Input holds the purchase fields the calculator reads. ApparelLengthInches
// is nil when the client did not send one.
type Input struct {
	InputMode              models.InputMode
	NumYards               float64
	NumRolls               float64
	YardsPerRoll           float64
	PricePerYard           float64
	ReceiveDiscount        bool
	DiscountType           models.DiscountType
	OverallDiscountAmount  float64
	DiscountedPricePerYard float64
	DiscountedPricePerRoll float64
	ApparelLengthInches    *float64
}

// Result holds the derived quantities and amounts.
type Result struct {
	NumYards         float64
	NumRolls         float64
	YardsPerRoll     float64
	OriginalAmount   float64
	DiscountedAmount float64
	TotalAmount      float64
	ExpectedItems    int64
}

// InputFrom converts a lenient request body into calculator input, turning
// missing and malformed numbers into 0.
func InputFrom(in models.FabricInput) Input {
	return Input{
		InputMode:              models.InputMode(in.InputMode),
		NumYards:               in.NumYards.Float(),
		NumRolls:               in.NumRolls.Float(),
		YardsPerRoll:           in.YardsPerRoll.Float(),
		PricePerYard:           in.PricePerYard.Float(),
		ReceiveDiscount:        in.ReceiveDiscount.Bool(),
		DiscountType:           models.DiscountType(in.DiscountType),
		OverallDiscountAmount:  in.OverallDiscountAmount.Float(),
		DiscountedPricePerYard: in.DiscountedPricePerYard.Float(),
		DiscountedPricePerRoll: in.DiscountedPricePerRoll.Float(),
		ApparelLengthInches:    in.ApparelLengthInches.Ptr(),
	}
}

// Round2 rounds half up to two decimals. NaN, infinities and values too
// large to scale to cents become 0.
func Round2(x float64) float64 {
	if !finite(x) {
		return 0
	}
	cents := math.Floor((x+epsilon)*100 + 0.5)
	if !finite(cents) {
		return 0
	}
	return cents / 100
}

// Overflows reports whether any derived value of in would leave the float64
// range or, for the garment count, the int64 range.
func Overflows(in Input) bool {
	yards := in.NumYards
	if in.InputMode == models.InputModeRoll {
		yards = in.NumRolls * in.YardsPerRoll
	}
	values := []float64{yards, in.PricePerYard * yards}
	if in.ReceiveDiscount {
		switch in.DiscountType {
		case models.DiscountOverall:
			values = append(values, in.OverallDiscountAmount)
		case models.DiscountPerYard:
			values = append(values, in.DiscountedPricePerYard*yards)
		case models.DiscountPerRoll:
			values = append(values, in.DiscountedPricePerRoll*effectiveRolls(in, yards))
		}
	}
	for _, v := range values {
		if !finite(v) || !finite(v*100) {
			return true
		}
	}
	items, ok := rawItems(yards, in.ApparelLengthInches)
	return ok && (!finite(items) || items >= maxItems)
}

// Compute derives yardage, amounts and expected garment count. It never
// fails: bad numbers have already been coerced to 0.
func Compute(in Input) Result {
	numYards := Round2(in.NumYards)
	if in.InputMode == models.InputModeRoll {
		numYards = Round2(in.NumRolls * in.YardsPerRoll)
	}

	res := Result{
		NumYards:       numYards,
		NumRolls:       in.NumRolls,
		YardsPerRoll:   in.YardsPerRoll,
		OriginalAmount: Round2(in.PricePerYard * numYards),
	}
	res.TotalAmount = res.OriginalAmount

	if in.ReceiveDiscount && in.DiscountType != models.DiscountNone {
		switch in.DiscountType {
		case models.DiscountOverall:
			res.DiscountedAmount = Round2(in.OverallDiscountAmount)
			res.TotalAmount = Round2(math.Max(0, res.OriginalAmount-in.OverallDiscountAmount))
		case models.DiscountPerYard:
			res.DiscountedAmount = Round2(in.DiscountedPricePerYard * numYards)
			res.TotalAmount = res.DiscountedAmount
		case models.DiscountPerRoll:
			res.DiscountedAmount = Round2(in.DiscountedPricePerRoll * effectiveRolls(in, numYards))
			res.TotalAmount = res.DiscountedAmount
		}
	}

	res.ExpectedItems = expectedItems(numYards, in.ApparelLengthInches)
	return res
}

func effectiveRolls(in Input, numYards float64) float64 {
	if in.InputMode == models.InputModeRoll {
		return in.NumRolls
	}
	if in.YardsPerRoll <= 0 {
		return 0
	}
	return math.Ceil(numYards / in.YardsPerRoll)
}

func expectedItems(numYards float64, apparelLength *float64) int64 {
	items, ok := rawItems(numYards, apparelLength)
	if !ok || !finite(items) || items < 0 || items >= maxItems {
		return 0
	}
	return int64(items)
}

// rawItems is the unclamped garment count; ok is false when the apparel
// length rules out any garment.
func rawItems(numYards float64, apparelLength *float64) (float64, bool) {
	length := float64(models.DefaultApparelLengthInches)
	if apparelLength != nil {
		length = *apparelLength
		if length == 0 {
			length = 1
		}
	}
	if length <= 0 {
		return 0, false
	}
	return math.Floor(numYards * inchesPerYard / length), true
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
