package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/tripgrid/backoffice/internal/domain"
	"github.com/tripgrid/backoffice/internal/service/booking"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, ref string) (*domain.Booking, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, ref string) (*domain.Booking, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"customer_name":"Asha Verma","customer_email":"asha@example.com","total_adult":2,"total_child":1,"total_amount":1500,"currency":"INR","passengers":[{"first_name":"Asha","last_name":"Verma","age":34},{"first_name":"Rohan","last_name":"Verma","age":36},{"first_name":"Mira","last_name":"Verma","age":8}]}`
	c.Request = httptest.NewRequest("POST", "/bookings", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := &domain.Booking{
		Ref:           "TRV1693526400",
		Status:        domain.BookingStatusPending,
		CustomerName:  "Asha Verma",
		CustomerEmail: "asha@example.com",
		TotalAdult:    2,
		TotalChild:    1,
	}
	mockService.On("CreateBooking", c.Request.Context(), mock.AnythingOfType("booking.CreateBookingInput")).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "TRV1693526400")

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_ValidationError(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/bookings", strings.NewReader(`{"customer_name":""}`))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateBooking", c.Request.Context(), mock.Anything).Return(nil, domain.Validationf("customer name is required"))

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_get(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "ref", Value: "TRV42"}}
	c.Request = httptest.NewRequest("GET", "/bookings/TRV42", nil)

	stored := &domain.Booking{Ref: "TRV42", Status: domain.BookingStatusConfirmed}
	mockService.On("GetBooking", c.Request.Context(), "TRV42").Return(stored, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_get_NotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "ref", Value: "TRV404"}}
	c.Request = httptest.NewRequest("GET", "/bookings/TRV404", nil)

	mockService.On("GetBooking", c.Request.Context(), "TRV404").Return(nil, domain.NotFoundf("booking TRV404"))

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	mockService.AssertExpectations(t)
}
