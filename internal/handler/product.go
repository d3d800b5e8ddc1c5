package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jartiste/smartshop/internal/domain/product"
)

type productRequest struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

type productResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toProductResponse(p *product.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r productRequest) validate() string {
	if r.Price.IsNegative() {
		return "price must not be negative"
	}
	if r.Stock < 0 {
		return "stock must not be negative"
	}
	return ""
}

// CreateProduct adds a catalog entry.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		badRequest(c, msg)
		return
	}

	p := &product.Product{
		ID:    uuid.New().String(),
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	}
	if err := h.products.Create(c.Request.Context(), p); err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(p))
}

// UpdateProduct replaces a product's name, price, and stock.
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		badRequest(c, msg)
		return
	}

	ctx := c.Request.Context()
	p, err := h.products.GetByID(ctx, c.Param("id"))
	if err != nil {
		domainError(c, err)
		return
	}

	p.Name = req.Name
	p.Price = req.Price
	p.Stock = req.Stock
	if err := h.products.Update(ctx, p); err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

// ListProducts returns the catalog without soft-deleted entries.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		domainError(c, err)
		return
	}

	out := make([]productResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	c.JSON(http.StatusOK, out)
}

// GetProduct returns a single non-deleted product.
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

// DeleteProduct soft-deletes a product. Existing orders keep referencing it.
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.products.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
		domainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
