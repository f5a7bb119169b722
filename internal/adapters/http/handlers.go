package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/yatra/internal/adapters/gtfsrt"
	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/payment"
	"github.com/samirrijal/yatra/internal/core/usecases"
)

// ListCitiesHandler returns the bookable cities in display order.
func ListCitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cities, err := deps.Cities.List(c.UserContext())
		if err != nil {
			return fail(c, err, "cities")
		}
		return c.JSON(cities)
	}
}

// SuggestCitiesHandler returns city names containing q (two characters minimum).
func SuggestCitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := c.Query("q")
		if len(q) > 100 {
			return errBadRequest(c, "query too long (max 100 characters)")
		}
		names, err := deps.Cities.Suggest(c.UserContext(), q)
		if err != nil {
			return fail(c, err, "cities")
		}
		return c.JSON(fiber.Map{"query": q, "suggestions": names})
	}
}

// CreateSearchHandler runs a bus search.
func CreateSearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req usecases.SearchRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		search, err := deps.Searches.Search(c.UserContext(), clientID(c), req)
		if err != nil {
			return fail(c, err, "search")
		}
		c.Location("/v1/searches/" + search.ID)
		return c.Status(fiber.StatusCreated).JSON(search)
	}
}

// GetSearchHandler returns a stored search with its results.
func GetSearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		search, err := deps.Searches.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err, "search")
		}
		return c.JSON(search)
	}
}

// DateShortcutsHandler returns the quick date chips under the travel date field.
func DateShortcutsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		chips, err := deps.Searches.DateShortcuts(c.QueryInt("active", 0))
		if err != nil {
			return fail(c, err, "date shortcut")
		}
		return c.JSON(chips)
	}
}

// SearchTabsHandler returns the search category tabs with one active.
func SearchTabsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tabs, err := deps.Searches.Tabs(c.Query("active"))
		if err != nil {
			return fail(c, err, "search category")
		}
		return c.JSON(tabs)
	}
}

type openSeatMapRequest struct {
	BusID    string `json:"bus_id"`
	SearchID string `json:"search_id"`
}

// OpenSeatMapHandler draws a fresh seat map for a bus.
func OpenSeatMapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req openSeatMapRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		m, err := deps.Seats.Open(c.UserContext(), clientID(c), req.BusID, req.SearchID)
		if err != nil {
			return fail(c, err, "bus")
		}
		c.Location("/v1/seatmaps/" + m.ID)
		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

// GetSeatMapHandler returns an open seat map.
func GetSeatMapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := deps.Seats.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err, "seat map")
		}
		return c.JSON(m)
	}
}

// ToggleSeatHandler selects or deselects one seat.
func ToggleSeatHandler(deps *Dependencies) fiber.Handler {
	type body struct {
		Seat int `json:"seat"`
	}
	return func(c *fiber.Ctx) error {
		var req body
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Seat <= 0 {
			return errBadRequest(c, "seat must be a positive seat number")
		}
		m, err := deps.Seats.Toggle(c.UserContext(), c.Params("id"), req.Seat)
		if err != nil {
			return fail(c, err, "seat map")
		}
		return c.JSON(m)
	}
}

// ContinueSeatMapHandler books the selected seats and closes the map.
// An explicit seats list replaces the map's own selection.
func ContinueSeatMapHandler(deps *Dependencies) fiber.Handler {
	type body struct {
		Seats []int `json:"seats"`
	}
	return func(c *fiber.Ctx) error {
		var req body
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return errBadRequest(c, "invalid request body")
			}
		}
		booking, err := deps.Seats.Continue(c.UserContext(), clientID(c), c.Params("id"), req.Seats)
		if err != nil {
			return fail(c, err, "seat map")
		}
		c.Location("/v1/bookings/" + booking.ID)
		return c.Status(fiber.StatusCreated).JSON(booking)
	}
}

// GetBookingHandler returns a booking by id.
func GetBookingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		booking, err := deps.Seats.GetBooking(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err, "booking")
		}
		return c.JSON(booking)
	}
}

// TrackHandler starts tracking a bus by booking id or bus number.
func TrackHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req usecases.TrackRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		res, err := deps.Tracking.Track(c.UserContext(), clientID(c), req)
		if err != nil {
			return fail(c, err, "tracking session")
		}
		c.Location("/v1/tracking/" + res.Session.ID)
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// GetTrackingHandler returns the latest session record and its map view.
func GetTrackingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		session, err := deps.Tracking.Get(c.UserContext(), id)
		if err != nil {
			return fail(c, err, "tracking session")
		}
		view, err := deps.Tracking.Map(c.UserContext(), id)
		if err != nil {
			return fail(c, err, "tracking session")
		}
		return c.JSON(usecases.TrackResult{Session: session, Map: *view})
	}
}

// StopTrackingHandler cancels a running session.
func StopTrackingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := deps.Tracking.Stop(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err, "tracking session")
		}
		return c.JSON(session)
	}
}

// TrackingFeedHandler returns the session as a GTFS-Realtime vehicle position feed.
func TrackingFeedHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		session, err := deps.Tracking.Get(c.UserContext(), id)
		if err != nil {
			return fail(c, err, "tracking session")
		}
		route, err := deps.Tracking.Route(c.UserContext(), id)
		if err != nil {
			return fail(c, err, "tracking session")
		}
		data, err := gtfsrt.Encode(route, session)
		if err != nil {
			return fail(c, err, "tracking session")
		}
		c.Set(fiber.HeaderContentType, gtfsrt.ContentType)
		return c.Send(data)
	}
}

// ListOffersHandler returns the offers under a category, paginated.
func ListOffersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offers, err := deps.Offers.List(c.UserContext(), c.Query("category"))
		if err != nil {
			return fail(c, err, "offers")
		}
		return c.JSON(paginate(c, offers, 20, 100))
	}
}

// OfferCategoriesHandler returns the category tabs with one active.
func OfferCategoriesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tabs, err := deps.Offers.Categories(c.UserContext(), c.Query("active"))
		if err != nil {
			return fail(c, err, "offer category")
		}
		return c.JSON(tabs)
	}
}

// ApplyOfferHandler applies an offer code for the caller.
func ApplyOfferHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offer, err := deps.Offers.Apply(c.UserContext(), clientID(c), c.Params("code"))
		if err != nil {
			return fail(c, err, "offer")
		}
		return c.JSON(offer)
	}
}

// FAQHandler returns the FAQ accordion. open is the panel currently open and
// toggle the one being clicked.
func FAQHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := deps.FAQs.Accordion(c.UserContext(), c.Query("open"), c.Query("toggle"))
		if err != nil {
			return fail(c, err, "faq")
		}
		return c.JSON(items)
	}
}

// StartChatHandler answers the live chat button.
func StartChatHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusAccepted).JSON(deps.FAQs.StartChat(clientID(c)))
	}
}

// PaymentTabsHandler returns the payment method tabs.
func PaymentTabsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tabs, err := deps.Payments.Tabs(c.Query("active"))
		if err != nil {
			return fail(c, err, "payment method")
		}
		return c.JSON(tabs)
	}
}

// FormatCardHandler masks card number and expiry input as typed.
func FormatCardHandler(deps *Dependencies) fiber.Handler {
	type body struct {
		CardNumber string `json:"card_number"`
		Expiry     string `json:"expiry"`
	}
	return func(c *fiber.Ctx) error {
		var req body
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		return c.JSON(deps.Payments.Format(req.CardNumber, req.Expiry))
	}
}

// SubmitPaymentHandler starts a payment for a booking. Completion is
// asynchronous; poll the payment or watch the notifications.
func SubmitPaymentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req payment.Request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		req.Tab = strings.ToLower(strings.TrimSpace(req.Tab))
		p, err := deps.Payments.Submit(c.UserContext(), clientID(c), req)
		if err != nil {
			return fail(c, err, "booking")
		}
		c.Location("/v1/payments/" + p.ID)
		return c.Status(fiber.StatusAccepted).JSON(p)
	}
}

// GetPaymentHandler returns a payment by id.
func GetPaymentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := deps.Payments.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err, "payment")
		}
		return c.JSON(p)
	}
}

// ListNotificationsHandler returns the caller's unexpired banners, oldest first.
func ListNotificationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		banners := deps.Banners.Active(clientID(c))
		if banners == nil {
			banners = []domain.Banner{}
		}
		return c.JSON(banners)
	}
}

// DismissNotificationHandler closes one banner early.
func DismissNotificationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !deps.Banners.Dismiss(clientID(c), c.Params("id")) {
			return errNotFound(c, "notification not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
