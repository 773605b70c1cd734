package domain

import "time"

type ListingStatus string

const (
	ListingStatusAvailable   ListingStatus = "Available"
	ListingStatusUnavailable ListingStatus = "Unavailable"
)

// OfflineFlight is a manually curated flight listing. Its filter rows are
// a replaceable child set: updates resend the full set, never a diff.
type OfflineFlight struct {
	ID            int64
	Airline       string
	FromCity      string
	ToCity        string
	DepartureDate time.Time
	PriceMinor    int64
	Currency      string
	Status        ListingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Filters       []ListingFilter
}

// ListingFilter is one name/value facet row attached to a flight or hotel
// listing (e.g. "stops" = "non-stop", "meal" = "included").
type ListingFilter struct {
	ID       int64
	ParentID int64
	Name     string
	Value    string
}

// OfflineFlightUpdate carries the parent fields a caller may change. Nil
// means leave untouched; the column allowlist lives in the repository.
type OfflineFlightUpdate struct {
	Airline    *string
	FromCity   *string
	ToCity     *string
	PriceMinor *int64
	Status     *ListingStatus
}

// OfflineHotel is a manually curated hotel listing with two replaceable
// child sets: image rows and filter rows. Image paths are produced by the
// upload collaborator and stored here as plain strings.
type OfflineHotel struct {
	ID                 int64
	Name               string
	City               string
	Address            string
	Rating             int
	PricePerNightMinor int64
	Currency           string
	Status             ListingStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Images             []HotelImage
	Filters            []ListingFilter
}

type HotelImage struct {
	ID       int64
	HotelID  int64
	Path     string
	Caption  string
	Position int
}

type OfflineHotelUpdate struct {
	Name               *string
	City               *string
	Address            *string
	Rating             *int
	PricePerNightMinor *int64
	Status             *ListingStatus
}
