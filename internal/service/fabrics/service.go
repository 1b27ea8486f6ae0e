package fabrics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/fabric-ledger/internal/apperr"
	"github.com/mamadbah2/fabric-ledger/internal/domain/models"
	"github.com/mamadbah2/fabric-ledger/internal/metrics"
	"github.com/mamadbah2/fabric-ledger/internal/repository/mongodb"
	"github.com/mamadbah2/fabric-ledger/internal/service/costing"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	notFoundMessage = "Fabric not found"
)

// maxPage keeps the (page-1)*limit skip inside int.
const maxPage = math.MaxInt / MaxLimit

// Repository is the record store the service persists to.
type Repository interface {
	Create(ctx context.Context, fabric *models.Fabric) error
	Find(ctx context.Context, filter mongodb.FabricFilter, page, limit int) ([]models.Fabric, int64, error)
	FindByID(ctx context.Context, id string) (*models.Fabric, error)
	Update(ctx context.Context, id string, fabric *models.Fabric, withActual bool) (*models.Fabric, error)
	SetActualProduced(ctx context.Context, id string, actual float64) (*models.Fabric, error)
	SoftDelete(ctx context.Context, id string) error
}

// LedgerRecorder mirrors lifecycle events somewhere outside the database.
type LedgerRecorder interface {
	Record(ctx context.Context, event string, fabric models.Fabric) error
}

// ListQuery carries raw listing parameters; zero values take defaults.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

// Service implements fabric purchase bookkeeping.
type Service struct {
	repo      Repository
	ledger    LedgerRecorder
	validator *Validator
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewService wires the service. ledger and m may be nil.
func NewService(repository Repository, ledger LedgerRecorder, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repository,
		ledger:    ledger,
		validator: NewValidator(),
		metrics:   m,
		logger:    logger,
	}
}

// Create validates the submission, derives amounts and stores the record.
func (s *Service) Create(ctx context.Context, in models.FabricInput) (*models.Fabric, error) {
	in = normalizeInput(in)
	if err := s.validator.Fabric(in); err != nil {
		return nil, err
	}

	fabric := buildFabric(in)
	fabric.ActualProducedItems = in.ActualProducedItems.Float()

	if err := s.repo.Create(ctx, fabric); err != nil {
		return nil, fmt.Errorf("create fabric: %w", err)
	}

	s.logger.Info("fabric created",
		zap.String("fabric_id", fabric.ID.Hex()),
		zap.String("name", fabric.FabricName),
		zap.Float64("total_amount", fabric.TotalAmount))
	s.metrics.FabricEvent(models.EventCreated)
	s.metrics.Purchased(fabric.TotalAmount)
	s.mirror(ctx, models.EventCreated, *fabric)

	return fabric, nil
}

// List returns a page of live fabrics, newest first.
func (s *Service) List(ctx context.Context, q ListQuery) (*models.FabricPage, error) {
	page, limit := normalizePaging(q.Page, q.Limit)

	items, total, err := s.repo.Find(ctx, mongodb.FabricFilter{Search: strings.TrimSpace(q.Search)}, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list fabrics: %w", err)
	}
	if items == nil {
		items = []models.Fabric{}
	}

	return &models.FabricPage{Page: page, Limit: limit, Total: total, Items: items}, nil
}

// Get returns a live fabric by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Fabric, error) {
	fabric, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.repoError("get", id, err)
	}
	if fabric.Deleted {
		return nil, apperr.NotFound(notFoundMessage, nil)
	}
	return fabric, nil
}

// Update replaces a fabric's inputs and recomputes every derived field.
func (s *Service) Update(ctx context.Context, id string, in models.FabricInput) (*models.Fabric, error) {
	in = normalizeInput(in)
	if err := s.validator.Fabric(in); err != nil {
		return nil, err
	}

	fabric := buildFabric(in)
	withActual := in.ActualProducedItems.Set
	fabric.ActualProducedItems = in.ActualProducedItems.Float()

	updated, err := s.repo.Update(ctx, id, fabric, withActual)
	if err != nil {
		return nil, s.repoError("update", id, err)
	}

	s.logger.Info("fabric updated", zap.String("fabric_id", id), zap.Float64("total_amount", updated.TotalAmount))
	s.metrics.FabricEvent(models.EventUpdated)
	s.mirror(ctx, models.EventUpdated, *updated)

	return updated, nil
}

// UpdateActualProduced records how many garments were actually produced and
// reports the gap to the expected count.
func (s *Service) UpdateActualProduced(ctx context.Context, id string, in models.ActualProducedInput) (*models.ActualProducedResult, error) {
	if err := s.validator.ActualProduced(in); err != nil {
		return nil, err
	}

	updated, err := s.repo.SetActualProduced(ctx, id, in.ActualProducedItems.Value)
	if err != nil {
		return nil, s.repoError("set actual produced", id, err)
	}

	s.metrics.FabricEvent(models.EventProduced)
	s.mirror(ctx, models.EventProduced, *updated)

	return &models.ActualProducedResult{
		Updated:    updated,
		Difference: updated.ActualProducedItems - float64(updated.ExpectedItems),
	}, nil
}

// Delete flags a fabric as deleted; the document is kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return s.repoError("delete", id, err)
	}

	s.logger.Info("fabric soft deleted", zap.String("fabric_id", id))
	s.metrics.FabricEvent(models.EventDeleted)
	if s.ledger != nil {
		if fabric, err := s.repo.FindByID(ctx, id); err == nil {
			s.mirror(ctx, models.EventDeleted, *fabric)
		}
	}
	return nil
}

func (s *Service) repoError(op, id string, err error) error {
	if errors.Is(err, mongodb.ErrNotFound) {
		return apperr.NotFound(notFoundMessage, err)
	}
	return fmt.Errorf("%s fabric %s: %w", op, id, err)
}

func (s *Service) mirror(ctx context.Context, event string, fabric models.Fabric) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Record(ctx, event, fabric); err != nil {
		s.logger.Warn("ledger mirror failed", zap.String("event", event), zap.Error(err))
	}
}

func normalizeInput(in models.FabricInput) models.FabricInput {
	in.FabricName = strings.TrimSpace(in.FabricName)
	in.FabricHeight = strings.TrimSpace(in.FabricHeight)
	in.InputMode = strings.TrimSpace(in.InputMode)
	in.DiscountType = strings.TrimSpace(in.DiscountType)
	return in
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// buildFabric maps a validated submission onto a record with every derived
// field recomputed.
func buildFabric(in models.FabricInput) *models.Fabric {
	res := costing.Compute(costing.InputFrom(in))

	mode := models.InputModeYard
	if in.InputMode == string(models.InputModeRoll) {
		mode = models.InputModeRoll
	}

	discount := models.DiscountNone
	if in.ReceiveDiscount.Bool() && in.DiscountType != "" {
		discount = models.DiscountType(in.DiscountType)
	}

	apparel := in.ApparelLengthInches.Float()
	if apparel == 0 {
		apparel = models.DefaultApparelLengthInches
	}

	return &models.Fabric{
		FabricName:             in.FabricName,
		FabricHeight:           in.FabricHeight,
		PricePerYard:           in.PricePerYard.Float(),
		ApparelLengthInches:    apparel,
		InputMode:              mode,
		NumYards:               res.NumYards,
		NumRolls:               res.NumRolls,
		YardsPerRoll:           res.YardsPerRoll,
		ReceiveDiscount:        in.ReceiveDiscount.Bool(),
		DiscountType:           discount,
		OverallDiscountAmount:  in.OverallDiscountAmount.Float(),
		DiscountedPricePerYard: in.DiscountedPricePerYard.Float(),
		DiscountedPricePerRoll: in.DiscountedPricePerRoll.Float(),
		OriginalAmount:         res.OriginalAmount,
		DiscountedAmount:       res.DiscountedAmount,
		TotalAmount:            res.TotalAmount,
		ExpectedItems:          res.ExpectedItems,
	}
}
