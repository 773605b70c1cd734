package domain

import "time"

type Tour struct {
	ID           int64
	Title        string
	Destination  string
	DurationDays int
	PriceMinor   int64
	Currency     string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
