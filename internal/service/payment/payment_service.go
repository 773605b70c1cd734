package payment

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/tripgrid/backoffice/internal/domain"
	"github.com/tripgrid/backoffice/internal/gateway"
	"github.com/tripgrid/backoffice/internal/kafka"
	"github.com/tripgrid/backoffice/internal/repository"
)

type PaymentUseCase interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	CheckStatus(ctx context.Context, orderID string) (domain.PaymentStatus, error)
}

type Gateway interface {
	Pay(ctx context.Context, req gateway.PayRequest) (*gateway.PayResponse, error)
	OrderStatus(ctx context.Context, orderID string) (*gateway.OrderStatus, error)
}

type Bookings interface {
	UpdateStatus(ctx context.Context, ref string, status domain.BookingStatus) (*domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type PaymentService struct {
	payments     repository.PaymentRepository
	bookings     Bookings
	gateway      Gateway
	gatewayName  string
	producer     Producer
	paymentTopic string
}

type CreateOrderInput struct {
	OrderID     string  `json:"order_id"`
	BookingRef  string  `json:"booking_ref"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	RedirectURL string  `json:"redirect_url"`
}

type CreateOrderResult struct {
	OrderID     string               `json:"order_id"`
	RedirectURL string               `json:"redirect_url"`
	Status      domain.PaymentStatus `json:"status"`
}

func NewPaymentService(
	payments repository.PaymentRepository,
	bookings Bookings,
	gw Gateway,
	gatewayName string,
	producer Producer,
	paymentTopic string,
) *PaymentService {
	return &PaymentService{
		payments:     payments,
		bookings:     bookings,
		gateway:      gw,
		gatewayName:  gatewayName,
		producer:     producer,
		paymentTopic: paymentTopic,
	}
}

// CreateOrder submits a gateway order and records the attempt locally.
// Retries with the same order id update the existing transaction row, so
// at most one row ever exists per order id.
func (s *PaymentService) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if input.Amount <= 0 {
		return nil, domain.Validationf("amount must be positive")
	}
	// The caller must always supply its own redirect target; a
	// server-configured default could leak order context cross-tenant.
	if input.RedirectURL == "" {
		return nil, domain.Validationf("redirect url is required")
	}
	if input.Currency == "" {
		return nil, domain.Validationf("currency is required")
	}

	orderID := input.OrderID
	if orderID == "" {
		orderID = uuid.NewString()
	}

	resp, err := s.gateway.Pay(ctx, gateway.PayRequest{
		OrderID:     orderID,
		AmountMinor: domain.ToMinorUnits(input.Amount),
		Currency:    input.Currency,
		RedirectURL: input.RedirectURL,
	})
	if err != nil {
		return nil, err
	}

	txn := &domain.PaymentTransaction{
		OrderID:     orderID,
		BookingRef:  input.BookingRef,
		AmountMinor: domain.ToMinorUnits(input.Amount),
		Currency:    input.Currency,
		Gateway:     s.gatewayName,
		Status:      domain.PaymentStatusProcessing,
		RedirectURL: resp.RedirectURL,
	}
	if err := s.payments.UpsertByOrderID(ctx, txn); err != nil {
		return nil, err
	}

	return &CreateOrderResult{
		OrderID:     orderID,
		RedirectURL: resp.RedirectURL,
		Status:      txn.Status,
	}, nil
}

// CheckStatus reconciles the local transaction row with the gateway's
// authoritative state. Terminal statuses are never downgraded; re-checking
// a finished order just re-reports the stored status.
func (s *PaymentService) CheckStatus(ctx context.Context, orderID string) (domain.PaymentStatus, error) {
	txn, err := s.payments.GetByOrderID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if txn.Status.Terminal() {
		return txn.Status, nil
	}

	status, err := s.gateway.OrderStatus(ctx, orderID)
	if err != nil {
		return "", err
	}

	mapped := mapGatewayState(status.State, txn.Status)
	if mapped == txn.Status {
		return txn.Status, nil
	}

	updated, err := s.payments.UpdateStatusByOrderID(ctx, orderID, mapped)
	if err != nil {
		return "", err
	}

	if updated.Status == domain.PaymentStatusSuccess && txn.BookingRef != "" {
		if _, err := s.bookings.UpdateStatus(ctx, txn.BookingRef, domain.BookingStatusConfirmed); err != nil {
			return "", err
		}
	}

	if updated.Status.Terminal() {
		s.publish(ctx, "payment_"+string(updated.Status), updated)
	}
	return updated.Status, nil
}

func mapGatewayState(state string, current domain.PaymentStatus) domain.PaymentStatus {
	switch state {
	case "COMPLETED", "SUCCESS":
		return domain.PaymentStatusSuccess
	case "FAILED":
		return domain.PaymentStatusFailed
	default:
		return current
	}
}

func (s *PaymentService) publish(ctx context.Context, eventType string, txn *domain.PaymentTransaction) {
	if s.producer == nil || s.paymentTopic == "" {
		return
	}
	event := kafka.PaymentEvent{
		Type:        eventType,
		OrderID:     txn.OrderID,
		BookingRef:  txn.BookingRef,
		AmountMinor: txn.AmountMinor,
		Currency:    txn.Currency,
		Status:      string(txn.Status),
	}
	if err := s.producer.Publish(ctx, s.paymentTopic, txn.OrderID, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for order %s: %v", eventType, txn.OrderID, err)
	}
}

var _ PaymentUseCase = (*PaymentService)(nil)
