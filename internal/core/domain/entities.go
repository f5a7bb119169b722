package domain

import (
	"time"
)

// City is a bookable origin or destination.
type City struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Amenity is an on-board facility advertised for a bus class.
type Amenity string

const (
	AmenityAC       Amenity = "ac"
	AmenityCharging Amenity = "charging"
	AmenityWater    Amenity = "water"
	AmenityBlanket  Amenity = "blanket"
	AmenityWiFi     Amenity = "wifi"
)

// Label returns the human-readable name shown next to the amenity icon.
func (a Amenity) Label() string {
	switch a {
	case AmenityAC:
		return "AC"
	case AmenityCharging:
		return "Charging Point"
	case AmenityWater:
		return "Water Bottle"
	case AmenityBlanket:
		return "Blanket"
	case AmenityWiFi:
		return "WiFi"
	}
	return string(a)
}

// BusClass is a vehicle class; its amenity set is fixed by the class.
type BusClass struct {
	Name      string    `json:"name"`
	Amenities []Amenity `json:"amenities"`
}

// Endpoint is one end of an itinerary.
type Endpoint struct {
	Time      string `json:"time"` // HH:MM, zero padded
	City      string `json:"city"`
	DayOffset int    `json:"day_offset,omitempty"`
}

// Itinerary is one synthesized bus trip offer shown in search results.
type Itinerary struct {
	ID              string    `json:"id"`
	Operator        string    `json:"operator"`
	BusType         string    `json:"bus_type"`
	Amenities       []Amenity `json:"amenities"`
	Departure       Endpoint  `json:"departure"`
	Arrival         Endpoint  `json:"arrival"`
	Duration        string    `json:"duration"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           int       `json:"price"`
	Seats           int       `json:"seats"`
	Date            string    `json:"date"`
}

// Search is a completed search with its generated results.
type Search struct {
	ID        string      `json:"id"`
	From      string      `json:"from"`
	To        string      `json:"to"`
	Date      string      `json:"date"`
	BusType   string      `json:"bus_type,omitempty"`
	Results   []Itinerary `json:"results"`
	Message   string      `json:"message,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Itinerary returns the result with the given bus id.
func (s *Search) Itinerary(busID string) (*Itinerary, bool) {
	for i := range s.Results {
		if s.Results[i].ID == busID {
			return &s.Results[i], true
		}
	}
	return nil, false
}

// DateShortcut is a quick-pick chip under the travel date field.
type DateShortcut struct {
	Days   int    `json:"days"`
	Label  string `json:"label"`
	Date   string `json:"date"`
	Active bool   `json:"active"`
}

// SeatState is the state of a single seat in a seat map.
type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatSelected  SeatState = "selected"
	SeatBooked    SeatState = "booked"
)

// Seat is one cell in the seat grid.
type Seat struct {
	Number   int       `json:"number"`
	Row      int       `json:"row"`
	Col      int       `json:"col"`
	State    SeatState `json:"state"`
	LeftSide bool      `json:"left_side"`
}

// SeatRow is a labelled row of seats.
type SeatRow struct {
	Label int    `json:"label"`
	Seats []Seat `json:"seats"`
}

// SeatMap is a freshly randomised seat layout for one bus.
type SeatMap struct {
	ID        string    `json:"id"`
	BusID     string    `json:"bus_id"`
	SearchID  string    `json:"search_id,omitempty"`
	Rows      []SeatRow `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
}

// Seat returns a pointer to seat n, or nil when n is outside the map.
func (m *SeatMap) Seat(n int) *Seat {
	for r := range m.Rows {
		for c := range m.Rows[r].Seats {
			if m.Rows[r].Seats[c].Number == n {
				return &m.Rows[r].Seats[c]
			}
		}
	}
	return nil
}

// BookingStatus tracks a booking through payment.
type BookingStatus string

const (
	BookingPendingPayment    BookingStatus = "pending_payment"
	BookingPaymentProcessing BookingStatus = "payment_processing"
	BookingConfirmed         BookingStatus = "confirmed"
)

// Booking is created when the user continues from the seat map.
type Booking struct {
	ID        string        `json:"id"`
	BusID     string        `json:"bus_id"`
	SearchID  string        `json:"search_id,omitempty"`
	Seats     []int         `json:"seats"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// PaymentStatus is the lifecycle of a simulated payment.
type PaymentStatus string

const (
	PaymentProcessing PaymentStatus = "processing"
	PaymentSucceeded  PaymentStatus = "succeeded"
	PaymentFailed     PaymentStatus = "failed"
)

// Payment is a simulated payment against a booking.
type Payment struct {
	ID        string        `json:"id"`
	BookingID string        `json:"booking_id"`
	ClientID  string        `json:"client_id,omitempty"`
	Method    string        `json:"method"`
	Option    string        `json:"option,omitempty"`
	CardLast4 string        `json:"card_last4,omitempty"`
	Status    PaymentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Offer is a promotional code listed on the offers page.
type Offer struct {
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Categories  []string  `json:"categories"`
	Discount    string    `json:"discount"`
	ValidUntil  time.Time `json:"valid_until"`
}

// HasCategory reports whether the offer is listed under category.
func (o Offer) HasCategory(category string) bool {
	for _, c := range o.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// FAQ is a question on the support and tracking pages.
type FAQ struct {
	ID       string `json:"id"`
	Topic    string `json:"topic"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Position int    `json:"position"`
}

// BannerLevel is the severity of a transient notification banner.
type BannerLevel string

const (
	BannerError   BannerLevel = "error"
	BannerSuccess BannerLevel = "success"
	BannerInfo    BannerLevel = "info"
)

// Banner is a transient, auto-dismissing message for one client.
type Banner struct {
	ID        string      `json:"id"`
	Level     BannerLevel `json:"level"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}
