package workflows

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/samirrijal/yatra/internal/core/domain"
)

// Processor implements ports.PaymentProcessor by starting a PaymentWorkflow
// per payment.
type Processor struct {
	client client.Client
	delay  time.Duration
}

// NewProcessor creates a Processor on an existing Temporal client.
func NewProcessor(c client.Client, delay time.Duration) *Processor {
	return &Processor{client: c, delay: delay}
}

// WorkflowID is the workflow id used for a payment.
func WorkflowID(paymentID string) string { return "payment-" + paymentID }

func (p *Processor) Process(ctx context.Context, pay *domain.Payment) error {
	opts := client.StartWorkflowOptions{
		ID:        WorkflowID(pay.ID),
		TaskQueue: TaskQueue,
	}
	if _, err := p.client.ExecuteWorkflow(ctx, opts, PaymentWorkflow, PaymentInput{PaymentID: pay.ID, Delay: p.delay}); err != nil {
		return fmt.Errorf("start payment workflow: %w", err)
	}
	return nil
}
