package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/consultorio/internal/database/resource"
	"github.com/mrlokans/consultorio/internal/entities"
)

// StockStore is the products repository's stock surface.
type StockStore interface {
	LowStock(ctx context.Context, threshold int) ([]entities.Product, error)
	AdjustStock(ctx context.Context, id string, delta int) (*entities.Product, error)
}

type StockController struct {
	store   StockStore
	auditor Auditor
}

func NewStockController(store StockStore, auditor Auditor) *StockController {
	if auditor == nil {
		auditor = nopAuditor{}
	}
	return &StockController{store: store, auditor: auditor}
}

// LowStock handles GET /api/admin/products/low-stock?threshold=
// Without a threshold each product is compared with its own minimum.
func (sc *StockController) LowStock(c *gin.Context) {
	threshold, ok := parseIntQuery(c, "threshold", 0)
	if !ok {
		return
	}
	products, err := sc.store.LowStock(c.Request.Context(), threshold)
	if err != nil {
		respondResourceError(c, err)
		return
	}
	if products == nil {
		products = []entities.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"data": products, "count": len(products)})
}

type stockRequest struct {
	Delta int `json:"delta" form:"delta" binding:"required"`
}

// Adjust handles POST /api/admin/products/:id/stock with {"delta": n}.
func (sc *StockController) Adjust(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "delta is required and must be a non-zero integer")
		return
	}

	id := c.Param("id")
	product, err := sc.store.AdjustStock(c.Request.Context(), id, req.Delta)
	sc.auditor.LogMutation(actor(c), entities.AuditEventUpdate, "products", id, "Ajuste de estoque", err)
	if err != nil {
		if errors.Is(err, resource.ErrInsufficientStock) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "insufficient_stock"})
			return
		}
		respondResourceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
