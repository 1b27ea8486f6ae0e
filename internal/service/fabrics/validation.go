package fabrics

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mamadbah2/fabric-ledger/internal/apperr"
	"github.com/mamadbah2/fabric-ledger/internal/domain/models"
	"github.com/mamadbah2/fabric-ledger/internal/service/costing"
)

const validationFailed = "Validation failed"

// numberRule declares how one numeric field is checked. A field is required
// when requiredWhen holds and must be strictly positive when positiveWhen
// holds; otherwise a supplied value only has to be a number >= 0.
type numberRule struct {
	field        string
	get          func(*models.FabricInput) models.Number
	requiredWhen func(*models.FabricInput) bool
	positiveWhen func(*models.FabricInput) bool
}

func always(*models.FabricInput) bool { return true }

func inputModeIs(mode models.InputMode) func(*models.FabricInput) bool {
	return func(in *models.FabricInput) bool { return in.InputMode == string(mode) }
}

func discountTypeIs(kind models.DiscountType) func(*models.FabricInput) bool {
	return func(in *models.FabricInput) bool { return in.DiscountType == string(kind) }
}

var numberRules = []numberRule{
	{
		field:        "pricePerYard",
		get:          func(in *models.FabricInput) models.Number { return in.PricePerYard },
		requiredWhen: always,
	},
	{
		field:        "apparelLengthInches",
		get:          func(in *models.FabricInput) models.Number { return in.ApparelLengthInches },
		positiveWhen: always,
	},
	{
		field:        "numYards",
		get:          func(in *models.FabricInput) models.Number { return in.NumYards },
		requiredWhen: inputModeIs(models.InputModeYard),
		positiveWhen: inputModeIs(models.InputModeYard),
	},
	{
		field:        "numRolls",
		get:          func(in *models.FabricInput) models.Number { return in.NumRolls },
		requiredWhen: inputModeIs(models.InputModeRoll),
		positiveWhen: inputModeIs(models.InputModeRoll),
	},
	{
		field:        "yardsPerRoll",
		get:          func(in *models.FabricInput) models.Number { return in.YardsPerRoll },
		requiredWhen: inputModeIs(models.InputModeRoll),
		positiveWhen: inputModeIs(models.InputModeRoll),
	},
	{
		field:        "overallDiscountAmount",
		get:          func(in *models.FabricInput) models.Number { return in.OverallDiscountAmount },
		requiredWhen: discountTypeIs(models.DiscountOverall),
	},
	{
		field:        "discountedPricePerYard",
		get:          func(in *models.FabricInput) models.Number { return in.DiscountedPricePerYard },
		requiredWhen: discountTypeIs(models.DiscountPerYard),
	},
	{
		field:        "discountedPricePerRoll",
		get:          func(in *models.FabricInput) models.Number { return in.DiscountedPricePerRoll },
		requiredWhen: discountTypeIs(models.DiscountPerRoll),
	},
	{
		field: "actualProducedItems",
		get:   func(in *models.FabricInput) models.Number { return in.ActualProducedItems },
	},
}

var fieldMessages = map[string]string{
	"fabricName.required":             "fabricName is required",
	"pricePerYard.required":           "pricePerYard is required",
	"inputMode.required":              "inputMode is required",
	"inputMode.oneof":                 "inputMode must be one of yard, roll",
	"numYards.required":               "numYards required when inputMode is yard",
	"numRolls.required":               "numRolls required when inputMode is roll",
	"yardsPerRoll.required":           "yardsPerRoll required when inputMode is roll",
	"receiveDiscount.boolean":         "receiveDiscount must be boolean",
	"discountType.required":           "discountType required when receiveDiscount is true",
	"discountType.oneof":              "discountType must be one of overall, perYard, perRoll",
	"overallDiscountAmount.required":  "overallDiscountAmount required for overall discount",
	"discountedPricePerYard.required": "discountedPricePerYard required for perYard",
	"discountedPricePerRoll.required": "discountedPricePerRoll required for perRoll",
	"actualProducedItems.required":    "actualProducedItems is required",
	"actualProducedItems.number":      "actualProducedItems must be a non-negative number",
	"actualProducedItems.gte":         "actualProducedItems must be a non-negative number",
}

// Validator checks request bodies before anything is computed or stored.
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the fabric rule set on a fresh validator instance.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateFabricInput, models.FabricInput{})
	v.RegisterStructValidation(validateActualProduced, models.ActualProducedInput{})
	return &Validator{validate: v}
}

// Fabric validates a create or full update body.
func (v *Validator) Fabric(in models.FabricInput) error {
	return asValidationError(v.validate.Struct(in))
}

// ActualProduced validates the production patch body.
func (v *Validator) ActualProduced(in models.ActualProducedInput) error {
	return asValidationError(v.validate.Struct(in))
}

func validateFabricInput(sl validator.StructLevel) {
	in := sl.Current().Interface().(models.FabricInput)

	for _, rule := range numberRules {
		n := rule.get(&in)
		required := rule.requiredWhen != nil && rule.requiredWhen(&in)
		positive := rule.positiveWhen != nil && rule.positiveWhen(&in)
		checkNumber(sl, rule.field, n, required, positive)
	}

	if costing.Overflows(costing.InputFrom(in)) {
		field, value := "numYards", in.NumYards
		if in.InputMode == string(models.InputModeRoll) {
			field, value = "numRolls", in.NumRolls
		}
		sl.ReportError(value, field, field, "range", "")
	}

	if in.ReceiveDiscount.Set && !in.ReceiveDiscount.Valid {
		sl.ReportError(in.ReceiveDiscount, "receiveDiscount", "ReceiveDiscount", "boolean", "")
	}

	if in.ReceiveDiscount.Bool() {
		switch models.DiscountType(in.DiscountType) {
		case models.DiscountOverall, models.DiscountPerYard, models.DiscountPerRoll:
		case "":
			sl.ReportError(in.DiscountType, "discountType", "DiscountType", "required", "")
		default:
			sl.ReportError(in.DiscountType, "discountType", "DiscountType", "oneof", "overall perYard perRoll")
		}
	}
}

func validateActualProduced(sl validator.StructLevel) {
	in := sl.Current().Interface().(models.ActualProducedInput)
	checkNumber(sl, "actualProducedItems", in.ActualProducedItems, true, false)
}

func checkNumber(sl validator.StructLevel, field string, n models.Number, required, positive bool) {
	switch {
	case !n.Set:
		if required {
			sl.ReportError(nil, field, field, "required", "")
		}
	case !n.Valid:
		sl.ReportError(n, field, field, "number", "")
	case positive && n.Value <= 0:
		sl.ReportError(n.Value, field, field, "gt", "0")
	case n.Value < 0:
		sl.ReportError(n.Value, field, field, "gte", "0")
	}
}

func asValidationError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return apperr.Validation(validationFailed, fields)
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "number":
		return fmt.Sprintf("%s must be a number", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be > %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "range":
		return fmt.Sprintf("%s is too large to price", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
