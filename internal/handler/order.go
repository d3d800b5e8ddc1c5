package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/jartiste/smartshop/internal/domain/order"
	"github.com/jartiste/smartshop/internal/domain/payment"
)

type orderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	ClientID  string             `json:"client_id"`
	PromoCode string             `json:"promo_code"`
	Items     []orderItemRequest `json:"items"`
}

type orderItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	ClientID        string              `json:"client_id"`
	Status          order.Status        `json:"status"`
	PromoCode       string              `json:"promo_code,omitempty"`
	Items           []orderItemResponse `json:"items"`
	SubTotal        decimal.Decimal     `json:"sub_total"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	RemainingAmount decimal.Decimal     `json:"remaining_amount"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal(),
		}
	}
	return orderResponse{
		ID:              o.ID,
		ClientID:        o.ClientID,
		Status:          o.Status,
		PromoCode:       o.PromoCode,
		Items:           items,
		SubTotal:        o.SubTotal,
		DiscountAmount:  o.DiscountAmount,
		TaxAmount:       o.TaxAmount,
		TotalAmount:     o.TotalAmount,
		RemainingAmount: o.RemainingAmount,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// CreateOrder places an order. Clients always order for themselves; admins
// pass the target client_id explicitly.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	clientID := req.ClientID
	if !isAdmin(c) {
		clientID = claims(c).UserID
	}
	if clientID == "" {
		badRequest(c, "client_id required")
		return
	}

	items := make([]order.ItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.ItemRequest{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	o, err := h.orders.Create(c.Request.Context(), order.CreateRequest{
		ClientID:  clientID,
		PromoCode: req.PromoCode,
		Items:     items,
	})
	if err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(o))
}

// ListOrders returns orders for one client: the caller's own for client
// sessions, the client_id query parameter for admins.
func (h *Handler) ListOrders(c *gin.Context) {
	clientID := claims(c).UserID
	if isAdmin(c) {
		clientID = c.Query("client_id")
		if clientID == "" {
			badRequest(c, "client_id query parameter required")
			return
		}
	}

	orders, err := h.orders.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		domainError(c, err)
		return
	}

	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	c.JSON(http.StatusOK, out)
}

// GetOrder returns a single order. Client sessions only see their own orders;
// someone else's order reads as not found rather than forbidden so order ids
// cannot be probed.
func (h *Handler) GetOrder(c *gin.Context) {
	o, ok := h.ownedOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

// ConfirmOrder marks a fully paid pending order confirmed.
func (h *Handler) ConfirmOrder(c *gin.Context) {
	o, err := h.orders.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

// CancelOrder cancels a pending order and restores its stock.
func (h *Handler) CancelOrder(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.orders.Cancel(ctx, c.Param("id")); err != nil {
		domainError(c, err)
		return
	}

	o, err := h.orders.GetByID(ctx, c.Param("id"))
	if err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

type addPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" binding:"required"`
	Reference string          `json:"reference"`
	BankName  string          `json:"bank_name"`
	DueDate   string          `json:"due_date"`
}

type paymentResponse struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      payment.Method  `json:"method"`
	Status      payment.Status  `json:"status"`
	Reference   string          `json:"reference"`
	BankName    string          `json:"bank_name,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	ClearedDate *time.Time      `json:"cleared_date,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toPaymentResponse(p *payment.Payment) paymentResponse {
	return paymentResponse{
		ID:          p.ID,
		OrderID:     p.OrderID,
		Amount:      p.Amount,
		Method:      p.Method,
		Status:      p.Status,
		Reference:   p.Reference,
		BankName:    p.BankName,
		DueDate:     p.DueDate,
		ClearedDate: p.ClearedDate,
		CreatedAt:   p.CreatedAt,
	}
}

// AddPayment posts a payment against an order.
func (h *Handler) AddPayment(c *gin.Context) {
	var req addPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if !payment.Method(req.Method).Valid() {
		badRequest(c, "method must be one of ESPECES, CHEQUE, VIREMENT")
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		d, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			badRequest(c, "due_date must be formatted as YYYY-MM-DD")
			return
		}
		dueDate = &d
	}

	p, err := h.payments.Add(c.Request.Context(), payment.AddRequest{
		OrderID:   c.Param("id"),
		Amount:    req.Amount,
		Method:    payment.Method(req.Method),
		Reference: req.Reference,
		BankName:  req.BankName,
		DueDate:   dueDate,
	})
	if err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPaymentResponse(p))
}

// ListPayments returns the payments posted against an order, oldest first.
// The same ownership rule as GetOrder applies.
func (h *Handler) ListPayments(c *gin.Context) {
	if _, ok := h.ownedOrder(c); !ok {
		return
	}

	payments, err := h.payments.ListByOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		domainError(c, err)
		return
	}

	out := make([]paymentResponse, len(payments))
	for i := range payments {
		out[i] = toPaymentResponse(&payments[i])
	}
	c.JSON(http.StatusOK, out)
}

// ownedOrder loads the order from the id path parameter and enforces the
// ownership rule. On failure it writes the response and returns ok=false.
func (h *Handler) ownedOrder(c *gin.Context) (*order.Order, bool) {
	o, err := h.orders.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		domainError(c, err)
		return nil, false
	}
	if !isAdmin(c) && o.ClientID != claims(c).UserID {
		writeProblem(c, http.StatusNotFound, "Not found", order.ErrNotFound.Error())
		return nil, false
	}
	return o, true
}
