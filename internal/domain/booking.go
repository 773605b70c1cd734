package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusFailed    BookingStatus = "FAILED"
)

// Booking is the parent record of a composite write; passengers are its
// child rows and only ever exist inside the same transaction that created
// the booking.
type Booking struct {
	ID               int64
	Ref              string
	TourID           int64
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	TotalAdult       int
	TotalChild       int
	TotalAmountMinor int64
	Currency         string
	Status           BookingStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Passengers       []Passenger
}

type Passenger struct {
	ID         int64
	BookingID  int64
	FirstName  string
	LastName   string
	Age        int
	PassportNo string
}
