package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tripgrid/backoffice/internal/domain"
	"github.com/tripgrid/backoffice/internal/kafka"
	"github.com/tripgrid/backoffice/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, ref string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, ref string) (*domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	producer           Producer
	bookingTopic       string
	notificationsTopic string
}

type CreateBookingInput struct {
	TourID        int64            `json:"tour_id"`
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	CustomerPhone string           `json:"customer_phone"`
	TotalAdult    int              `json:"total_adult"`
	TotalChild    int              `json:"total_child"`
	TotalAmount   float64          `json:"total_amount"`
	Currency      string           `json:"currency"`
	Passengers    []PassengerInput `json:"passengers"`
}

type PassengerInput struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Age        int    `json:"age"`
	PassportNo string `json:"passport_no"`
}

func NewBookingService(bookings repository.BookingRepository, producer Producer, bookingTopic, notificationsTopic string) *BookingService {
	return &BookingService{
		bookings:           bookings,
		producer:           producer,
		bookingTopic:       bookingTopic,
		notificationsTopic: notificationsTopic,
	}
}

// CreateBooking validates the payload, then persists the booking and its
// passengers as one atomic unit. A failure on any passenger row leaves no
// booking row behind.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.CustomerName == "" {
		return nil, domain.Validationf("customer name is required")
	}
	if input.CustomerEmail == "" {
		return nil, domain.Validationf("customer email is required")
	}
	if input.TotalAdult < 1 {
		return nil, domain.Validationf("at least one adult is required")
	}
	if input.TotalChild < 0 {
		return nil, domain.Validationf("total child must not be negative")
	}
	if len(input.Passengers) != input.TotalAdult+input.TotalChild {
		return nil, domain.Validationf("expected %d passengers, got %d", input.TotalAdult+input.TotalChild, len(input.Passengers))
	}
	for i, p := range input.Passengers {
		if p.FirstName == "" || p.LastName == "" {
			return nil, domain.Validationf("passenger %d needs first and last name", i+1)
		}
	}

	booking := &domain.Booking{
		Ref:              newBookingRef(),
		TourID:           input.TourID,
		CustomerName:     input.CustomerName,
		CustomerEmail:    input.CustomerEmail,
		CustomerPhone:    input.CustomerPhone,
		TotalAdult:       input.TotalAdult,
		TotalChild:       input.TotalChild,
		TotalAmountMinor: domain.ToMinorUnits(input.TotalAmount),
		Currency:         input.Currency,
		Status:           domain.BookingStatusPending,
	}
	for _, p := range input.Passengers {
		booking.Passengers = append(booking.Passengers, domain.Passenger{
			FirstName:  p.FirstName,
			LastName:   p.LastName,
			Age:        p.Age,
			PassportNo: p.PassportNo,
		})
	}

	if _, err := s.bookings.CreateWithPassengers(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, ref string) (*domain.Booking, error) {
	return s.bookings.GetByRef(ctx, ref)
}

func (s *BookingService) CancelBooking(ctx context.Context, ref string) (*domain.Booking, error) {
	current, err := s.bookings.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusCancelled {
		return current, nil
	}

	updated, err := s.bookings.UpdateStatus(ctx, ref, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_cancelled", updated)
	return updated, nil
}

// newBookingRef generates a reference like TRV1693526400123456789.
func newBookingRef() string {
	return fmt.Sprintf("TRV%d", time.Now().UnixNano())
}

// publish mirrors each booking event onto the booking topic and the
// notifications topic the worker's email sender consumes.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil {
		return
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		Ref:           booking.Ref,
		CustomerEmail: booking.CustomerEmail,
		Status:        string(booking.Status),
		AmountMinor:   booking.TotalAmountMinor,
		Currency:      booking.Currency,
	}
	for _, topic := range []string{s.bookingTopic, s.notificationsTopic} {
		if topic == "" {
			continue
		}
		if err := s.producer.Publish(ctx, topic, booking.Ref, event); err != nil {
			log.Printf("WARNING: failed to publish %s event for booking %s to %s: %v", eventType, booking.Ref, topic, err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
