package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fabric-ledger/internal/domain/models"
	"github.com/mamadbah2/fabric-ledger/internal/service/fabrics"
)

// FabricService is the bookkeeping surface the HTTP layer drives.
type FabricService interface {
	Create(ctx context.Context, in models.FabricInput) (*models.Fabric, error)
	List(ctx context.Context, q fabrics.ListQuery) (*models.FabricPage, error)
	Get(ctx context.Context, id string) (*models.Fabric, error)
	Update(ctx context.Context, id string, in models.FabricInput) (*models.Fabric, error)
	UpdateActualProduced(ctx context.Context, id string, in models.ActualProducedInput) (*models.ActualProducedResult, error)
	Delete(ctx context.Context, id string) error
}

// FabricHandler exposes fabric purchase records over REST.
type FabricHandler struct {
	svc    FabricService
	logger *zap.Logger
}

// NewFabricHandler constructs the HTTP handler adapter.
func NewFabricHandler(svc FabricService, logger *zap.Logger) *FabricHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FabricHandler{svc: svc, logger: logger}
}

// Register mounts the fabric routes on the given group.
func (h *FabricHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.PATCH("/:id/actual", h.PatchActual)
	rg.DELETE("/:id", h.Delete)
}

// Create stores a new purchase and answers with the computed record.
func (h *FabricHandler) Create(c *gin.Context) {
	var in models.FabricInput
	if !bindJSON(c, h.logger, &in) {
		return
	}

	fabric, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, fabric)
}

// List answers with a page of live records.
func (h *FabricHandler) List(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), fabrics.ListQuery{
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
		Search: c.Query("search"),
	})
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get answers with one live record.
func (h *FabricHandler) Get(c *gin.Context) {
	fabric, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, fabric)
}

// Update replaces the inputs of a record and returns it recomputed.
func (h *FabricHandler) Update(c *gin.Context) {
	var in models.FabricInput
	if !bindJSON(c, h.logger, &in) {
		return
	}

	fabric, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, fabric)
}

// PatchActual sets the produced garment count.
func (h *FabricHandler) PatchActual(c *gin.Context) {
	var in models.ActualProducedInput
	if !bindJSON(c, h.logger, &in) {
		return
	}

	result, err := h.svc.UpdateActualProduced(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Delete soft deletes a record.
func (h *FabricHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		renderError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fabric deleted (soft)", "id": id})
}

// queryInt parses an integer query parameter; absent or malformed yields 0.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
