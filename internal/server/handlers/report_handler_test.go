package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fabric-ledger/internal/domain/models"
)

type stubSummaryService struct {
	from, to time.Time
}

func (s *stubSummaryService) Summarize(_ context.Context, from, to time.Time) (models.PurchaseSummary, error) {
	s.from, s.to = from, to
	return models.PurchaseSummary{From: from, To: to, Records: 2, TotalAmount: 120.5}, nil
}

func newReportEngine(svc SummaryService, now time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(svc, time.UTC, nil)
	h.now = func() time.Time { return now }
	r := gin.New()
	r.GET("/api/reports/summary", h.Summary)
	return r
}

func TestSummaryDefaultsToLastWeek(t *testing.T) {
	now := time.Date(2026, 3, 13, 20, 0, 0, 0, time.UTC)
	svc := &stubSummaryService{}
	r := newReportEngine(svc, now)

	w := perform(r, http.MethodGet, "/api/reports/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, now, svc.to)
	require.Equal(t, now.AddDate(0, 0, -7), svc.from)
	require.Contains(t, w.Body.String(), `"totalAmount":120.5`)
}

func TestSummaryDaysAreInclusive(t *testing.T) {
	svc := &stubSummaryService{}
	r := newReportEngine(svc, time.Now())

	w := perform(r, http.MethodGet, "/api/reports/summary?from=2026-03-01&to=2026-03-07", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), svc.from)
	require.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), svc.to)
}

func TestSummaryRejectsBadDates(t *testing.T) {
	r := newReportEngine(&stubSummaryService{}, time.Now())

	w := perform(r, http.MethodGet, "/api/reports/summary?from=03/01/2026", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "from must be a date")
}
