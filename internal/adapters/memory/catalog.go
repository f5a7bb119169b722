// Package memory provides in-process implementations of the repository and
// cache ports. They back the API when Postgres or Valkey are not configured
// and are seeded with the fixed site catalog.
package memory

import (
	"time"

	"github.com/samirrijal/yatra/internal/core/domain"
)

// CityNames is the autocomplete list in display order.
var CityNames = []string{
	"Mumbai", "Delhi", "Bangalore", "Hyderabad", "Ahmedabad",
	"Chennai", "Kolkata", "Surat", "Pune", "Jaipur",
	"Lucknow", "Kanpur", "Nagpur", "Visakhapatnam", "Indore",
	"Thane", "Bhopal", "Patna", "Vadodara", "Ghaziabad",
}

// Cities returns the seeded city list.
func Cities() []domain.City {
	out := make([]domain.City, len(CityNames))
	for i, n := range CityNames {
		out[i] = domain.City{Name: n, Position: i}
	}
	return out
}

var offerExpiry = time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)

// Offers returns the seeded offer catalog.
func Offers() []domain.Offer {
	return []domain.Offer{
		{
			Code:        "FIRST50",
			Title:       "First Ride Special",
			Description: "Flat 50% off up to ₹250 on your first booking.",
			Categories:  []string{"new-user"},
			Discount:    "50%",
			ValidUntil:  offerExpiry,
		},
		{
			Code:        "WEEKEND20",
			Title:       "Weekend Getaway",
			Description: "20% off on Friday to Sunday departures.",
			Categories:  []string{"weekend"},
			Discount:    "20%",
			ValidUntil:  offerExpiry,
		},
		{
			Code:        "HDFC15",
			Title:       "HDFC Bank Cashback",
			Description: "15% cashback with HDFC credit and debit cards.",
			Categories:  []string{"bank"},
			Discount:    "15%",
			ValidUntil:  offerExpiry,
		},
		{
			Code:        "UPI100",
			Title:       "Pay with UPI",
			Description: "₹100 off when you pay with any UPI app.",
			Categories:  []string{"bank", "new-user"},
			Discount:    "₹100",
			ValidUntil:  offerExpiry,
		},
		{
			Code:        "SLEEPER10",
			Title:       "Overnight Sleeper Deal",
			Description: "10% off on sleeper buses departing after 8 PM.",
			Categories:  []string{"weekend", "sleeper"},
			Discount:    "10%",
			ValidUntil:  offerExpiry,
		},
	}
}

// FAQs returns the seeded support questions in display order.
func FAQs() []domain.FAQ {
	return []domain.FAQ{
		{ID: "booking-cancel", Topic: "booking", Question: "How do I cancel my booking?", Answer: "Open My Bookings, choose the trip and tap Cancel. Refunds follow the operator's cancellation policy.", Position: 1},
		{ID: "booking-refund", Topic: "booking", Question: "When will I get my refund?", Answer: "Refunds reach the original payment method within 5-7 working days.", Position: 2},
		{ID: "travel-luggage", Topic: "travel", Question: "How much luggage can I carry?", Answer: "Each passenger may carry one bag up to 15 kg plus a small handbag.", Position: 3},
		{ID: "travel-boarding", Topic: "travel", Question: "Where do I board the bus?", Answer: "Your ticket lists the boarding point and the operator's contact number.", Position: 4},
		{ID: "tracking-live", Topic: "tracking", Question: "How does live tracking work?", Answer: "Enter your booking ID or bus number on the Track page to follow the bus on the map.", Position: 5},
		{ID: "payment-failed", Topic: "payment", Question: "My payment failed but money was deducted.", Answer: "Failed payments are reversed automatically within 48 hours.", Position: 6},
	}
}
