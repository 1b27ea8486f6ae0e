package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/fabric-ledger/internal/config"
	"github.com/mamadbah2/fabric-ledger/internal/domain/models"
)

// LedgerRange is the sheet range fabric events are appended to.
const LedgerRange = "Fabrics!A:R"

// RowAppender appends a single row to a spreadsheet range.
type RowAppender interface {
	AppendRow(ctx context.Context, sheetRange string, values []interface{}) error
}

// Ledger mirrors fabric changes into a spreadsheet, one row per event.
type Ledger struct {
	rows   RowAppender
	logger *zap.Logger
	now    func() time.Time
}

// NewLedger wraps any RowAppender.
func NewLedger(rows RowAppender, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{rows: rows, logger: logger, now: time.Now}
}

// Record appends one row describing the event.
func (l *Ledger) Record(ctx context.Context, event string, fabric models.Fabric) error {
	if err := l.rows.AppendRow(ctx, LedgerRange, fabricRow(l.now().UTC(), event, fabric)); err != nil {
		return fmt.Errorf("record %s fabric %s: %w", event, fabric.ID.Hex(), err)
	}
	l.logger.Debug("fabric event mirrored", zap.String("event", event), zap.String("fabric_id", fabric.ID.Hex()))
	return nil
}

func fabricRow(at time.Time, event string, f models.Fabric) []interface{} {
	return []interface{}{
		event,
		at.Format(time.RFC3339),
		f.ID.Hex(),
		f.FabricName,
		f.FabricHeight,
		string(f.InputMode),
		f.NumYards,
		f.NumRolls,
		f.YardsPerRoll,
		f.PricePerYard,
		string(f.DiscountType),
		f.OriginalAmount,
		f.DiscountedAmount,
		f.TotalAmount,
		f.ApparelLengthInches,
		f.ExpectedItems,
		f.ActualProducedItems,
		f.Deleted,
	}
}

// GoogleSheetsAppender implements RowAppender using the official Google Sheets API.
type GoogleSheetsAppender struct {
	service       *sheetsapi.Service
	spreadsheetID string
}

// NewGoogleSheetsAppender builds a Sheets API client from a service account file.
func NewGoogleSheetsAppender(ctx context.Context, cfg config.SheetsConfig) (*GoogleSheetsAppender, error) {
	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}
	return &GoogleSheetsAppender{service: service, spreadsheetID: cfg.SpreadsheetID}, nil
}

// AppendRow appends the values below the last row of sheetRange.
func (a *GoogleSheetsAppender) AppendRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}
	_, err := a.service.Spreadsheets.Values.Append(a.spreadsheetID, sheetRange, payload).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}
	return nil
}
