package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusSuccess    PaymentStatus = "SUCCESS"
	PaymentStatusFailed     PaymentStatus = "FAILED"
)

// Terminal reports whether no further transitions are permitted.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

// PaymentTransaction tracks one attempt to pay for a booking via the
// external gateway. At most one row exists per merchant order id.
type PaymentTransaction struct {
	ID          int64
	OrderID     string
	BookingRef  string
	AmountMinor int64
	Currency    string
	Gateway     string
	Status      PaymentStatus
	RedirectURL string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
