package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tripgrid/backoffice/internal/service/payment"
)

type PaymentHandler struct {
	service payment.PaymentUseCase
}

// paymentRequest carries the action discriminator plus the union of the
// fields either action needs.
type paymentRequest struct {
	Action      string  `json:"action"`
	OrderID     string  `json:"order_id"`
	BookingRef  string  `json:"booking_ref"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	RedirectURL string  `json:"redirect_url"`
}

func NewPaymentHandler(service payment.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.handle)
}

func (h *PaymentHandler) handle(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Action {
	case "create-order":
		result, err := h.service.CreateOrder(c.Request.Context(), payment.CreateOrderInput{
			OrderID:     req.OrderID,
			BookingRef:  req.BookingRef,
			Amount:      req.Amount,
			Currency:    req.Currency,
			RedirectURL: req.RedirectURL,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)

	case "check-status":
		if req.OrderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order_id is required"})
			return
		}
		status, err := h.service.CheckStatus(c.Request.Context(), req.OrderID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": req.OrderID, "status": status})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
	}
}
