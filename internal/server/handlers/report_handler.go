package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fabric-ledger/internal/apperr"
	"github.com/mamadbah2/fabric-ledger/internal/domain/models"
)

const (
	dateLayout    = "2006-01-02"
	defaultPeriod = 7 * 24 * time.Hour
)

// SummaryService aggregates purchases over a period.
type SummaryService interface {
	Summarize(ctx context.Context, from, to time.Time) (models.PurchaseSummary, error)
}

// ReportHandler exposes purchase summaries.
type ReportHandler struct {
	svc      SummaryService
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportHandler constructs the handler; dates are interpreted in loc.
func NewReportHandler(svc SummaryService, loc *time.Location, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{svc: svc, location: loc, logger: logger, now: time.Now}
}

// Summary answers GET /api/reports/summary?from=YYYY-MM-DD&to=YYYY-MM-DD.
// Both bounds are whole days and inclusive.
func (h *ReportHandler) Summary(c *gin.Context) {
	now := h.now().In(h.location)
	from := now.Add(-defaultPeriod)
	to := now

	var fields []apperr.FieldError
	if raw := c.Query("from"); raw != "" {
		day, err := time.ParseInLocation(dateLayout, raw, h.location)
		if err != nil {
			fields = append(fields, apperr.FieldError{Field: "from", Message: "from must be a date (YYYY-MM-DD)"})
		}
		from = day
	}
	if raw := c.Query("to"); raw != "" {
		day, err := time.ParseInLocation(dateLayout, raw, h.location)
		if err != nil {
			fields = append(fields, apperr.FieldError{Field: "to", Message: "to must be a date (YYYY-MM-DD)"})
		}
		to = day.AddDate(0, 0, 1)
	}
	if len(fields) > 0 {
		renderError(c, h.logger, apperr.Validation("Validation failed", fields))
		return
	}

	summary, err := h.svc.Summarize(c.Request.Context(), from, to)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
