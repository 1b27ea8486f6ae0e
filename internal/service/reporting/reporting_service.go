package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/fabric-ledger/internal/apperr"
	"github.com/mamadbah2/fabric-ledger/internal/domain/models"
)

const (
	dateLayout   = "2006-01-02"
	digestPeriod = 7 * 24 * time.Hour
)

// Store is the slice of the record store reporting needs.
type Store interface {
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Fabric, error)
	SaveSummary(ctx context.Context, summary models.PurchaseSummary) error
}

// Service aggregates fabric purchases into period summaries.
type Service struct {
	store    Store
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(store Store, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{store: store, location: location, logger: logger, now: time.Now}
}

// Location is the timezone report days are cut in.
func (s *Service) Location() *time.Location {
	return s.location
}

// Summarize aggregates live purchases created in [from, to).
func (s *Service) Summarize(ctx context.Context, from, to time.Time) (models.PurchaseSummary, error) {
	if !to.After(from) {
		return models.PurchaseSummary{}, apperr.Validation("Invalid period", []apperr.FieldError{
			{Field: "to", Message: "to must be after from"},
		})
	}

	fabrics, err := s.store.ListCreatedBetween(ctx, from, to)
	if err != nil {
		return models.PurchaseSummary{}, fmt.Errorf("load fabrics for summary: %w", err)
	}

	var yards, original, discounted, total, actual decimal.Decimal
	var expected int64
	for _, f := range fabrics {
		yards = yards.Add(decimal.NewFromFloat(f.NumYards))
		original = original.Add(decimal.NewFromFloat(f.OriginalAmount))
		discounted = discounted.Add(decimal.NewFromFloat(f.DiscountedAmount))
		total = total.Add(decimal.NewFromFloat(f.TotalAmount))
		actual = actual.Add(decimal.NewFromFloat(f.ActualProducedItems))
		expected += f.ExpectedItems
	}

	summary := models.PurchaseSummary{
		From:                from,
		To:                  to,
		Records:             len(fabrics),
		TotalYards:          cents(yards),
		OriginalAmount:      cents(original),
		DiscountedAmount:    cents(discounted),
		TotalAmount:         cents(total),
		Savings:             cents(original.Sub(total)),
		ExpectedItems:       expected,
		ActualProducedItems: cents(actual),
		ProductionGap:       cents(actual.Sub(decimal.NewFromInt(expected))),
		CreatedAt:           s.now().UTC(),
	}

	s.logger.Debug("purchase summary computed",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int("records", summary.Records))

	return summary, nil
}

// WeeklyDigest summarizes the trailing week, stores the snapshot and returns
// a message ready to be delivered.
func (s *Service) WeeklyDigest(ctx context.Context) (models.PurchaseSummary, string, error) {
	to := s.now().In(s.location)
	from := to.Add(-digestPeriod)

	summary, err := s.Summarize(ctx, from, to)
	if err != nil {
		return models.PurchaseSummary{}, "", err
	}

	if err := s.store.SaveSummary(ctx, summary); err != nil {
		return models.PurchaseSummary{}, "", fmt.Errorf("save weekly summary: %w", err)
	}

	return summary, FormatSummary(summary, s.location), nil
}

// FormatSummary renders a summary as a short plain-text digest.
func FormatSummary(summary models.PurchaseSummary, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	period := fmt.Sprintf("%s - %s", summary.From.In(loc).Format(dateLayout), summary.To.In(loc).Format(dateLayout))

	if summary.Records == 0 {
		return fmt.Sprintf("Fabric purchases (%s): no purchases recorded.", period)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Fabric purchases (%s): %d records, %.2f yards.\n", period, summary.Records, summary.TotalYards)
	fmt.Fprintf(&b, "Spent %.2f (list %.2f, saved %.2f).\n", summary.TotalAmount, summary.OriginalAmount, summary.Savings)
	fmt.Fprintf(&b, "Garments: %d expected, %.0f produced (gap %+.0f).", summary.ExpectedItems, summary.ActualProducedItems, summary.ProductionGap)
	return b.String()
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
