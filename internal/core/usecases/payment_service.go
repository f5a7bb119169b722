package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/payment"
	"github.com/samirrijal/yatra/internal/core/ports"
	"github.com/samirrijal/yatra/internal/core/selection"
	"github.com/samirrijal/yatra/internal/pkg/clock"
	"github.com/samirrijal/yatra/internal/pkg/metrics"
)

const MsgPaymentSucceeded = "Payment successful! Your booking is confirmed."

// FormattedCard is the masked form of the card inputs.
type FormattedCard struct {
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
}

// PaymentTab is one payment method tab.
type PaymentTab struct {
	ID      string   `json:"id"`
	Active  bool     `json:"active"`
	Options []string `json:"options,omitempty"`
}

// PaymentService validates pay-now submissions and drives them to completion.
type PaymentService struct {
	payments  ports.PaymentRepository
	bookings  ports.BookingRepository
	processor ports.PaymentProcessor
	publisher ports.EventPublisher
	notifier  ports.NotificationService
	clock     clock.Clock
}

// NewPaymentService creates a new PaymentService. publisher may be nil, in which
// case completion banners are pushed directly instead of through the broker.
func NewPaymentService(
	payments ports.PaymentRepository,
	bookings ports.BookingRepository,
	processor ports.PaymentProcessor,
	publisher ports.EventPublisher,
	notifier ports.NotificationService,
	clk clock.Clock,
) *PaymentService {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &PaymentService{
		payments:  payments,
		bookings:  bookings,
		processor: processor,
		publisher: publisher,
		notifier:  notifier,
		clock:     clk,
	}
}

// SetProcessor swaps the processor. The inline processor needs the service
// to exist before it can be built.
func (s *PaymentService) SetProcessor(p ports.PaymentProcessor) { s.processor = p }

// Tabs returns the payment method tabs with active marked ("cards" by default).
func (s *PaymentService) Tabs(active string) ([]PaymentTab, error) {
	if active == "" {
		active = payment.TabCards
	}
	g, err := selection.NewGroupWithActive(active, payment.Tabs...)
	if err != nil {
		return nil, domain.Invalid("Please choose a valid payment method")
	}
	out := make([]PaymentTab, 0, len(payment.Tabs))
	for _, id := range g.IDs() {
		out = append(out, PaymentTab{ID: id, Active: g.IsActive(id), Options: payment.Options[id]})
	}
	return out, nil
}

// Format masks raw card inputs.
func (s *PaymentService) Format(cardNumber, expiry string) FormattedCard {
	return FormattedCard{
		CardNumber: payment.FormatCardNumber(cardNumber),
		Expiry:     payment.FormatExpiry(expiry),
	}
}

// Submit validates req, records a processing payment and hands it to the processor.
func (s *PaymentService) Submit(ctx context.Context, clientID string, req payment.Request) (*domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.Submit")
	defer span.End()

	if err := req.Validate(); err != nil {
		metrics.PaymentsTotal.WithLabelValues(req.Tab, "rejected").Inc()
		v, _ := domain.AsValidation(err)
		return nil, reject(s.notifier, clientID, v.Message)
	}

	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	// Claim the booking so a second submission for it conflicts.
	now := s.clock.Now()
	if err := s.bookings.UpdateStatus(ctx, booking.ID, domain.BookingPendingPayment, domain.BookingPaymentProcessing, now); err != nil {
		return nil, err
	}

	p := &domain.Payment{
		ID:        uuid.NewString(),
		BookingID: booking.ID,
		ClientID:  clientID,
		Method:    req.Tab,
		Option:    req.Method(),
		CardLast4: req.Last4(),
		Status:    domain.PaymentProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		s.release(ctx, booking.ID)
		return nil, fmt.Errorf("create payment: %w", err)
	}
	span.SetAttributes(attribute.String("payment.id", p.ID), attribute.String("payment.tab", p.Method))

	if err := s.processor.Process(ctx, p); err != nil {
		s.fail(ctx, p)
		s.release(ctx, booking.ID)
		return nil, fmt.Errorf("start payment processing: %w", err)
	}

	metrics.PaymentsTotal.WithLabelValues(p.Method, string(domain.PaymentProcessing)).Inc()
	s.publish(ctx, p)
	return p, nil
}

// Complete marks a processing payment as succeeded and confirms its booking.
// Completing a payment that is no longer processing is a no-op.
func (s *PaymentService) Complete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "PaymentService.Complete", trace.WithAttributes(attribute.String("payment.id", id)))
	defer span.End()

	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.Status != domain.PaymentProcessing {
		return nil
	}

	now := s.clock.Now()
	err = s.bookings.UpdateStatus(ctx, p.BookingID, domain.BookingPaymentProcessing, domain.BookingConfirmed, now)
	if errors.Is(err, domain.ErrConflict) {
		// A booking that already left payment processing is never settled twice.
		slog.Warn("refusing to settle payment", "payment", p.ID, "booking", p.BookingID, "error", err)
		s.fail(ctx, p)
		return nil
	}
	if err != nil {
		return fmt.Errorf("confirm booking %s: %w", p.BookingID, err)
	}
	if err := s.payments.UpdateStatus(ctx, p.ID, domain.PaymentSucceeded, now); err != nil {
		return fmt.Errorf("update payment %s: %w", p.ID, err)
	}
	p.Status = domain.PaymentSucceeded
	p.UpdatedAt = now

	metrics.PaymentsTotal.WithLabelValues(p.Method, string(domain.PaymentSucceeded)).Inc()
	if s.publisher == nil {
		return s.NotifyPaid(ctx, p)
	}
	s.publish(ctx, p)
	return nil
}

// NotifyPaid pushes the success banner for a settled payment. It is the
// handler for payment events coming back from the broker.
func (s *PaymentService) NotifyPaid(_ context.Context, p *domain.Payment) error {
	if p.Status == domain.PaymentSucceeded {
		notify(s.notifier, p.ClientID, domain.BannerSuccess, MsgPaymentSucceeded)
	}
	return nil
}

// Get returns a payment by id.
func (s *PaymentService) Get(ctx context.Context, id string) (*domain.Payment, error) {
	return s.payments.GetByID(ctx, id)
}

// fail marks p failed.
func (s *PaymentService) fail(ctx context.Context, p *domain.Payment) {
	metrics.PaymentsTotal.WithLabelValues(p.Method, string(domain.PaymentFailed)).Inc()
	if err := s.payments.UpdateStatus(ctx, p.ID, domain.PaymentFailed, s.clock.Now()); err != nil {
		slog.Warn("mark payment failed", "payment", p.ID, "error", err)
	}
}

// release hands a claimed booking back so it can be paid again.
func (s *PaymentService) release(ctx context.Context, bookingID string) {
	err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingPaymentProcessing, domain.BookingPendingPayment, s.clock.Now())
	if err != nil {
		slog.Warn("release booking", "booking", bookingID, "error", err)
	}
}

func (s *PaymentService) publish(ctx context.Context, p *domain.Payment) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPaymentEvent(ctx, p); err != nil {
		slog.Warn("publish payment event failed", "payment", p.ID, "error", err)
	}
}

// PaymentCompleter finishes a payment once processing is done.
type PaymentCompleter interface {
	Complete(ctx context.Context, id string) error
}

// InlineProcessor completes payments in-process after a fixed delay.
// It is used when no workflow engine is configured.
type InlineProcessor struct {
	Delay     time.Duration
	Completer PaymentCompleter

	wg       conc.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// NewInlineProcessor creates an InlineProcessor.
func NewInlineProcessor(delay time.Duration, completer PaymentCompleter) *InlineProcessor {
	return &InlineProcessor{Delay: delay, Completer: completer, stop: make(chan struct{})}
}

// Process schedules completion of payment after Delay.
func (p *InlineProcessor) Process(ctx context.Context, pay *domain.Payment) error {
	if p.Completer == nil {
		return errors.New("inline processor has no completer")
	}
	select {
	case <-p.stop:
		return errors.New("inline processor stopped")
	default:
	}

	id := pay.ID
	ctx = context.WithoutCancel(ctx)
	p.wg.Go(func() {
		t := time.NewTimer(p.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-p.stop:
			return
		}
		if err := p.Completer.Complete(ctx, id); err != nil {
			slog.Error("complete payment failed", "payment", id, "error", err)
		}
	})
	return nil
}

// Shutdown abandons pending completions and waits for running ones.
func (p *InlineProcessor) Shutdown() {
	p.stopOnce.Do(func() { close(p.stop) })
	p.wg.Wait()
}

// Wait blocks until every scheduled completion has run.
func (p *InlineProcessor) Wait() { p.wg.Wait() }
