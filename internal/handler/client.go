package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/jartiste/smartshop/internal/domain/client"
)

type createClientRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type clientResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Tier        client.Tier     `json:"tier"`
	TotalOrders int             `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toClientResponse(cl *client.Client) clientResponse {
	return clientResponse{
		ID:          cl.ID,
		Name:        cl.Name,
		Tier:        cl.Tier,
		TotalOrders: cl.TotalOrders,
		TotalSpent:  cl.TotalSpent,
		CreatedAt:   cl.CreatedAt,
		UpdatedAt:   cl.UpdatedAt,
	}
}

// CreateClient registers a client account: login credentials plus the profile
// that tracks tier and spend.
func (h *Handler) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	cl, err := h.clients.Register(c.Request.Context(), client.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toClientResponse(cl))
}

// ListClients returns every registered client.
func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.clients.List(c.Request.Context())
	if err != nil {
		domainError(c, err)
		return
	}

	out := make([]clientResponse, len(clients))
	for i := range clients {
		out[i] = toClientResponse(&clients[i])
	}
	c.JSON(http.StatusOK, out)
}

// GetClient returns a single client profile.
func (h *Handler) GetClient(c *gin.Context) {
	cl, err := h.clients.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toClientResponse(cl))
}
