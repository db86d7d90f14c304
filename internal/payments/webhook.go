package payments

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"
)

// Webhook event types handled by the checkout.
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
	EventIntentCanceled  = "payment_intent.canceled"
)

// WebhookEvent is a verified provider notification about a payment intent.
type WebhookEvent struct {
	ID       string
	Type     string
	IntentID string
	Status   Status
	Amount   int64
	Currency string
	Metadata map[string]string
}

// ParseWebhook verifies the Stripe-Signature header and decodes the payload.
// Events that are not about a payment intent come back with an empty IntentID.
func ParseWebhook(payload []byte, signature, secret string) (WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return WebhookEvent{}, fmt.Errorf("stripe: verify webhook: %w", err)
	}

	out := WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return out, nil
	}
	switch out.Type {
	case EventIntentSucceeded, EventIntentFailed, EventIntentCanceled:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return WebhookEvent{}, fmt.Errorf("stripe: decode payment intent: %w", err)
		}
		normalised := stripeIntent(&intent)
		out.IntentID = normalised.ID
		out.Status = normalised.Status
		out.Amount = normalised.Amount
		out.Currency = normalised.Currency
		out.Metadata = normalised.Metadata
		if out.Type == EventIntentFailed {
			out.Status = StatusFailed
		}
	}
	return out, nil
}
