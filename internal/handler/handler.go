// Package handler exposes the HTTP API. Handlers bind and validate request
// bodies, delegate to the domain services, and translate domain errors into
// problem responses; no business rules live here.
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jartiste/smartshop/internal/domain/client"
	"github.com/jartiste/smartshop/internal/domain/order"
	"github.com/jartiste/smartshop/internal/domain/payment"
	"github.com/jartiste/smartshop/internal/domain/product"
	"github.com/jartiste/smartshop/internal/domain/user"
	"github.com/jartiste/smartshop/pkg/session"
)

// Handler carries the domain dependencies for every route.
type Handler struct {
	products product.Repository
	clients  *client.Service
	orders   *order.Service
	payments *payment.Service
	users    *user.Service
	sessions *session.Manager
}

// New constructs a Handler with the required domain dependencies.
func New(
	products product.Repository,
	clients *client.Service,
	orders *order.Service,
	payments *payment.Service,
	users *user.Service,
	sessions *session.Manager,
) *Handler {
	return &Handler{
		products: products,
		clients:  clients,
		orders:   orders,
		payments: payments,
		users:    users,
		sessions: sessions,
	}
}

// Routes registers every API route on the engine. Mutating catalog, client,
// and order-lifecycle routes are admin-only; the rest require any session.
func (h *Handler) Routes(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)

	authed := api.Group("", h.RequireSession())
	admin := authed.Group("", h.RequireRole(user.RoleAdmin))

	authed.GET("/products", h.ListProducts)
	authed.GET("/products/:id", h.GetProduct)
	admin.POST("/products", h.CreateProduct)
	admin.PUT("/products/:id", h.UpdateProduct)
	admin.DELETE("/products/:id", h.DeleteProduct)

	admin.POST("/clients", h.CreateClient)
	admin.GET("/clients", h.ListClients)
	admin.GET("/clients/:id", h.GetClient)

	authed.POST("/orders", h.CreateOrder)
	authed.GET("/orders", h.ListOrders)
	authed.GET("/orders/:id", h.GetOrder)
	admin.PATCH("/orders/:id/confirm", h.ConfirmOrder)
	admin.PATCH("/orders/:id/cancel", h.CancelOrder)
	admin.POST("/orders/:id/payments", h.AddPayment)
	authed.GET("/orders/:id/payments", h.ListPayments)
}
