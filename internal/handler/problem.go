package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/jartiste/smartshop/internal/domain/client"
	"github.com/jartiste/smartshop/internal/domain/order"
	"github.com/jartiste/smartshop/internal/domain/payment"
	"github.com/jartiste/smartshop/internal/domain/product"
	"github.com/jartiste/smartshop/internal/domain/user"
)

// problem is the error payload returned on every failed request.
type problem struct {
	Title     string    `json:"title"`
	Detail    string    `json:"detail"`
	Status    int       `json:"status"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

func writeProblem(c *gin.Context, status int, title, detail string) {
	c.JSON(status, problem{
		Title:     title,
		Detail:    detail,
		Status:    status,
		Path:      c.Request.URL.Path,
		Timestamp: time.Now().UTC(),
	})
}

func abortProblem(c *gin.Context, status int, title, detail string) {
	writeProblem(c, status, title, detail)
	c.Abort()
}

// badRequest reports a malformed or invalid request body.
func badRequest(c *gin.Context, detail string) {
	writeProblem(c, http.StatusBadRequest, "Validation failed", detail)
}

// domainError maps a domain error onto the HTTP taxonomy: missing resources
// are 404, violated business rules are 422, bad credentials are 401.
// Anything unrecognized is logged and reported as a 500 without the internal
// detail.
func domainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, client.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		writeProblem(c, http.StatusNotFound, "Not found", err.Error())

	case errors.Is(err, order.ErrEmptyItems):
		badRequest(c, err.Error())

	case errors.Is(err, user.ErrInvalidCredentials):
		writeProblem(c, http.StatusUnauthorized, "Unauthorized", err.Error())

	case isRuleViolation(err):
		writeProblem(c, http.StatusUnprocessableEntity, "Business rule violated", err.Error())

	default:
		zctx.From(c.Request.Context()).Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		writeProblem(c, http.StatusInternalServerError, "Internal error", "internal error")
	}
}

func isRuleViolation(err error) bool {
	var (
		invalidQty   *order.InvalidQuantityError
		statusErr    *order.StatusError
		missingField *payment.MissingFieldError
		insufficient *product.InsufficientStockError
	)
	return errors.Is(err, order.ErrNotFullyPaid) ||
		errors.Is(err, payment.ErrOrderClosed) ||
		errors.Is(err, payment.ErrOverpayment) ||
		errors.Is(err, payment.ErrNonPositiveAmount) ||
		errors.Is(err, payment.ErrCashLimitExceeded) ||
		errors.Is(err, user.ErrEmailTaken) ||
		errors.As(err, &invalidQty) ||
		errors.As(err, &statusErr) ||
		errors.As(err, &missingField) ||
		errors.As(err, &insufficient)
}
