package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// TaskQueue is the queue the payment worker polls.
const TaskQueue = "yatra-payments"

// PaymentInput is the input for the payment workflow.
type PaymentInput struct {
	PaymentID string
	Delay     time.Duration
}

// PaymentWorkflow waits out the simulated gateway delay and then settles the
// payment, which confirms its booking.
func PaymentWorkflow(ctx workflow.Context, input PaymentInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting payment workflow", "payment", input.PaymentID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	if input.Delay > 0 {
		if err := workflow.Sleep(ctx, input.Delay); err != nil {
			return err
		}
	}

	if err := workflow.ExecuteActivity(ctx, "CompletePayment", input.PaymentID).Get(ctx, nil); err != nil {
		logger.Warn("payment completion failed", "payment", input.PaymentID, "error", err)
		return err
	}

	logger.Info("Payment settled", "payment", input.PaymentID)
	return nil
}
