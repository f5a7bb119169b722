package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/samirrijal/yatra/internal/adapters/memory"
	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/itinerary"
	"github.com/samirrijal/yatra/internal/core/notify"
	"github.com/samirrijal/yatra/internal/core/tracking"
	"github.com/samirrijal/yatra/internal/core/usecases"
	"github.com/samirrijal/yatra/internal/pkg/clock"
)

// cliClient is the banner client id used by every command.
const cliClient = "cli"

// services wires the in-memory stack the commands run on.
type services struct {
	clock    clock.Clock
	banners  *notify.Center
	searches *usecases.SearchService
	seats    *usecases.SeatService
	payments *usecases.PaymentService
}

func newServices(c *cli.Context) *services {
	clk := clock.RealClock{}
	var rnd usecases.RandSource
	if seed := c.Uint64("seed"); seed != 0 {
		rnd = usecases.SeededSource(seed)
	}
	cache := memory.NewCache(clk)
	banners := notify.NewCenter(clk, notify.DefaultTTL, notify.DefaultCapacity)
	searches := usecases.NewSearchService(cache, banners, rnd, clk, 0)
	bookings := memory.NewBookingRepo()
	return &services{
		clock:    clk,
		banners:  banners,
		searches: searches,
		seats:    usecases.NewSeatService(cache, bookings, searches, banners, rnd, clk),
		payments: usecases.NewPaymentService(memory.NewPaymentRepo(), bookings, nil, nil, banners, clk),
	}
}

// explain turns a rejected request into the banner text the user would see.
func (s *services) explain(err error) error {
	if err == nil {
		return nil
	}
	if bs := s.banners.Active(cliClient); len(bs) > 0 {
		return cli.Exit(bs[len(bs)-1].Message, 1)
	}
	return err
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "list buses between two cities",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Required: true},
			&cli.StringFlag{Name: "to", Required: true},
			&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD, today when empty"},
			&cli.StringFlag{Name: "bus-type", Value: itinerary.FilterAll},
			&cli.BoolFlag{Name: "json"},
		},
		Action: func(c *cli.Context) error {
			s := newServices(c)
			date := c.String("date")
			if date == "" {
				date = s.clock.Now().Format("2006-01-02")
			}
			res, err := s.searches.Search(c.Context, cliClient, usecases.SearchRequest{
				From:    c.String("from"),
				To:      c.String("to"),
				Date:    date,
				BusType: c.String("bus-type"),
			})
			if err != nil {
				return s.explain(err)
			}
			if c.Bool("json") {
				return printJSON(res)
			}

			fmt.Printf("%s → %s, %s\n", res.From, res.To, itinerary.FormatDate(res.Date))
			if res.Message != "" {
				fmt.Println(res.Message)
			}
			for _, it := range res.Results {
				fmt.Printf("%-8s %-22s %-16s %s %s → %s%s  %-8s ₹%-5d %d seats\n",
					it.ID, it.Operator, it.BusType,
					it.Departure.City, it.Departure.Time,
					it.Arrival.Time, dayMark(it.Arrival),
					it.Duration, it.Price, it.Seats)
			}
			return nil
		},
	}
}

func dayMark(e domain.Endpoint) string {
	if e.DayOffset == 0 {
		return ""
	}
	return fmt.Sprintf(" (+%d)", e.DayOffset)
}

func seatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "seats",
		Usage: "draw a seat map and optionally book seats",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bus", Value: "bus-1"},
			&cli.IntSliceFlag{Name: "pick", Usage: "seat numbers to book"},
		},
		Action: func(c *cli.Context) error {
			s := newServices(c)
			m, err := s.seats.Open(c.Context, cliClient, c.String("bus"), "")
			if err != nil {
				return s.explain(err)
			}
			for _, row := range m.Rows {
				var b strings.Builder
				fmt.Fprintf(&b, "%2d  ", row.Label)
				for i, seat := range row.Seats {
					if i > 0 && seat.LeftSide != row.Seats[i-1].LeftSide {
						b.WriteString("   ")
					}
					fmt.Fprintf(&b, "[%s]", seatMark(seat))
				}
				fmt.Println(b.String())
			}

			picks := c.IntSlice("pick")
			if len(picks) == 0 {
				return nil
			}
			booking, err := s.seats.Continue(c.Context, cliClient, m.ID, picks)
			if err != nil {
				return s.explain(err)
			}
			fmt.Printf("booking %s: seats %v (%s)\n", booking.ID, booking.Seats, booking.Status)
			return nil
		},
	}
}

func seatMark(seat domain.Seat) string {
	switch seat.State {
	case domain.SeatBooked:
		return " X"
	case domain.SeatSelected:
		return " *"
	default:
		return fmt.Sprintf("%2d", seat.Number)
	}
}

func trackCommand() *cli.Command {
	return &cli.Command{
		Name:  "track",
		Usage: "follow a bus along the demo route until it arrives",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "booking", Usage: "booking id"},
			&cli.StringFlag{Name: "bus", Usage: "bus number, used when --booking is empty"},
			&cli.DurationFlag{Name: "interval", Value: 200 * time.Millisecond},
			&cli.Float64Flag{Name: "step", Value: 0.05},
		},
		Action: func(c *cli.Context) error {
			s := newServices(c)
			svc := usecases.NewTrackingService(nil, s.banners,
				usecases.TrackingConfig{Start: tracking.DefaultStart},
				tracking.WithInterval(c.Duration("interval")),
				tracking.WithStep(c.Float64("step")),
			)
			defer svc.Shutdown()

			req := usecases.TrackRequest{Method: usecases.TrackByBooking, BookingID: c.String("booking")}
			if req.BookingID == "" {
				req = usecases.TrackRequest{Method: usecases.TrackByBus, BusNumber: c.String("bus")}
			}
			res, err := svc.Track(c.Context, cliClient, req)
			if err != nil {
				return s.explain(err)
			}
			return follow(c.Context, svc, res.Session.ID, c.Duration("interval"))
		},
	}
}

func follow(ctx context.Context, svc *usecases.TrackingService, id string, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	last := -1
	for {
		snap, err := svc.Get(ctx, id)
		if err != nil {
			return err
		}
		if snap.Ticks != last {
			last = snap.Ticks
			fmt.Printf("%5.1f%%  (%.4f, %.4f)  next %-10s %s left\n",
				snap.Progress*100, snap.Position.Lat, snap.Position.Lon, snap.NextStop, snap.Remaining)
		}
		if snap.Status != domain.TrackingInTransit {
			fmt.Println(snap.Status)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func formatCardCommand() *cli.Command {
	return &cli.Command{
		Name:      "format-card",
		Usage:     "mask a card number and expiry the way the payment form does",
		ArgsUsage: "<number> [expiry]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("card number required", 2)
			}
			s := newServices(c)
			f := s.payments.Format(c.Args().Get(0), c.Args().Get(1))
			fmt.Println(f.CardNumber)
			if f.Expiry != "" {
				fmt.Println(f.Expiry)
			}
			return nil
		},
	}
}
