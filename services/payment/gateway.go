package payment

import "context"

// Intent is the processor-side handle for an in-progress charge attempt.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64 // minor units
	Currency     string
}

// Refund is the processor-side record of a processed refund.
type Refund struct {
	ID       string
	Amount   int64 // minor units
	Currency string
}

// IntentSucceeded is the processor status that completes a payment.
const IntentSucceeded = "succeeded"

// CreateIntentInput describes the charge attempt to open with the processor.
// Metadata tags the intent with booking/user/station identifiers for
// auditability.
type CreateIntentInput struct {
	Amount      int64 // minor units
	Currency    string
	Description string
	Metadata    map[string]string
}

// RefundInput describes a refund request against a stored intent reference.
type RefundInput struct {
	IntentID string
	Reason   string
	Metadata map[string]string
}

// Gateway abstracts the external payment processor's intent lifecycle.
type Gateway interface {
	CreateIntent(ctx context.Context, in CreateIntentInput) (*Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
	CreateRefund(ctx context.Context, in RefundInput) (*Refund, error)
}
