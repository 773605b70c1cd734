package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tripgrid/backoffice/internal/domain"
	"github.com/tripgrid/backoffice/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type passengerResponse struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Age        int    `json:"age"`
	PassportNo string `json:"passport_no"`
}

type bookingResponse struct {
	Ref           string              `json:"ref"`
	Status        string              `json:"status"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	TotalAdult    int                 `json:"total_adult"`
	TotalChild    int                 `json:"total_child"`
	AmountMinor   int64               `json:"amount_minor"`
	Currency      string              `json:"currency"`
	CreatedAt     string              `json:"created_at"`
	Passengers    []passengerResponse `json:"passengers"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:ref", h.get)
	router.DELETE("/:ref", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	b, err := h.service.CancelBooking(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		Ref:           b.Ref,
		Status:        string(b.Status),
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		TotalAdult:    b.TotalAdult,
		TotalChild:    b.TotalChild,
		AmountMinor:   b.TotalAmountMinor,
		Currency:      b.Currency,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
	for _, p := range b.Passengers {
		resp.Passengers = append(resp.Passengers, passengerResponse{
			FirstName:  p.FirstName,
			LastName:   p.LastName,
			Age:        p.Age,
			PassportNo: p.PassportNo,
		})
	}
	return resp
}
