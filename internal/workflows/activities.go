package workflows

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/yatra/internal/core/usecases"
)

// PaymentActivities holds the activity implementations for the payment workflow.
type PaymentActivities struct {
	Payments usecases.PaymentCompleter
}

// CompletePayment marks the payment succeeded and confirms its booking.
func (a *PaymentActivities) CompletePayment(ctx context.Context, paymentID string) error {
	if err := a.Payments.Complete(ctx, paymentID); err != nil {
		return fmt.Errorf("complete payment %s: %w", paymentID, err)
	}
	slog.Info("payment completed", "payment", paymentID)
	return nil
}
