package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"
)

type fakeIntentAPI struct {
	lastNew    *stripe.PaymentIntentParams
	lastGetID  string
	lastCancel string
	intent     *stripe.PaymentIntent
	err        error
}

func (f *fakeIntentAPI) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.lastNew = params
	return f.intent, f.err
}

func (f *fakeIntentAPI) Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.lastGetID = id
	return f.intent, f.err
}

func (f *fakeIntentAPI) Cancel(id string, params *stripe.PaymentIntentCancelParams) (*stripe.PaymentIntent, error) {
	f.lastCancel = id
	return f.intent, f.err
}

func TestStripeProvider_CreatePaymentIntent(t *testing.T) {
	api := &fakeIntentAPI{intent: &stripe.PaymentIntent{
		ID:           "pi_123",
		ClientSecret: "pi_123_secret",
		Amount:       3000,
		Currency:     "thb",
		Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
	}}
	p, err := NewStripeProvider(StripeProviderConfig{intents: api})
	require.NoError(t, err)

	intent, err := p.CreatePaymentIntent(context.Background(), IntentRequest{
		Amount:         3000,
		Currency:       "THB",
		Description:    "Island hopping",
		ReceiptEmail:   "guest@example.com",
		Metadata:       map[string]string{"booking_id": "b-1"},
		IdempotencyKey: "booking-b-1",
		Methods:        PaymentMethods{Card: true, PromptPay: true},
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
	assert.Equal(t, StatusPending, intent.Status)
	assert.Equal(t, "THB", intent.Currency)

	require.NotNil(t, api.lastNew)
	assert.Equal(t, int64(3000), *api.lastNew.Amount)
	assert.Equal(t, "thb", *api.lastNew.Currency)
	assert.Equal(t, "booking-b-1", *api.lastNew.IdempotencyKey)
	assert.Equal(t, "b-1", api.lastNew.Metadata["booking_id"])
	assert.Equal(t, []string{"card", "promptpay"}, stringValues(api.lastNew.PaymentMethodTypes))
}

func TestStripeProvider_PromptPayDroppedForOtherCurrencies(t *testing.T) {
	api := &fakeIntentAPI{intent: &stripe.PaymentIntent{ID: "pi_1"}}
	p, err := NewStripeProvider(StripeProviderConfig{intents: api})
	require.NoError(t, err)

	_, err = p.CreatePaymentIntent(context.Background(), IntentRequest{
		Amount:   1000,
		Currency: "USD",
		Methods:  PaymentMethods{PromptPay: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"card"}, stringValues(api.lastNew.PaymentMethodTypes))
}

func TestStripeProvider_Errors(t *testing.T) {
	_, err := NewStripeProvider(StripeProviderConfig{})
	require.Error(t, err)

	api := &fakeIntentAPI{err: errors.New("card_declined")}
	p, err := NewStripeProvider(StripeProviderConfig{intents: api})
	require.NoError(t, err)

	_, err = p.CreatePaymentIntent(context.Background(), IntentRequest{Amount: 0, Currency: "THB"})
	require.Error(t, err)
	assert.Nil(t, api.lastNew, "zero amount must not reach stripe")

	_, err = p.CreatePaymentIntent(context.Background(), IntentRequest{Amount: 100, Currency: "THB"})
	require.ErrorContains(t, err, "card_declined")
}

func TestStripeProvider_LookupAndCancel(t *testing.T) {
	api := &fakeIntentAPI{intent: &stripe.PaymentIntent{ID: "pi_9", Status: stripe.PaymentIntentStatusSucceeded}}
	p, err := NewStripeProvider(StripeProviderConfig{intents: api})
	require.NoError(t, err)

	intent, err := p.LookupPaymentIntent(context.Background(), "pi_9")
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, intent.Status)
	assert.Equal(t, "pi_9", api.lastGetID)

	api.intent.Status = stripe.PaymentIntentStatusCanceled
	intent, err = p.CancelPaymentIntent(context.Background(), "pi_9")
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, intent.Status)
	assert.Equal(t, "pi_9", api.lastCancel)
}

func TestParseMethods(t *testing.T) {
	assert.Equal(t, PaymentMethods{Card: true}, ParseMethods(nil))
	assert.Equal(t, PaymentMethods{Card: true, ApplePay: true, PromptPay: true}, ParseMethods([]string{" Card", "apple_pay", "promptpay", "bitcoin"}))
}

const testWebhookSecret = "whsec_test"

func signedPayload(t *testing.T, payload string) (string, []byte) {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Header, signed.Payload
}

func TestParseWebhook_Succeeded(t *testing.T) {
	header, body := signedPayload(t, `{
		"id": "evt_1",
		"object": "event",
		"type": "payment_intent.succeeded",
		"data": {"object": {
			"id": "pi_1",
			"object": "payment_intent",
			"amount": 3000,
			"currency": "thb",
			"status": "succeeded",
			"metadata": {"booking_id": "b-1"}
		}}
	}`)

	event, err := ParseWebhook(body, header, testWebhookSecret)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, EventIntentSucceeded, event.Type)
	assert.Equal(t, "pi_1", event.IntentID)
	assert.Equal(t, StatusSucceeded, event.Status)
	assert.Equal(t, int64(3000), event.Amount)
	assert.Equal(t, "THB", event.Currency)
	assert.Equal(t, "b-1", event.Metadata["booking_id"])
}

func TestParseWebhook_PaymentFailed(t *testing.T) {
	header, body := signedPayload(t, `{
		"id": "evt_2",
		"object": "event",
		"type": "payment_intent.payment_failed",
		"data": {"object": {"id": "pi_2", "object": "payment_intent", "status": "requires_payment_method"}}
	}`)

	event, err := ParseWebhook(body, header, testWebhookSecret)
	require.NoError(t, err)
	assert.Equal(t, "pi_2", event.IntentID)
	assert.Equal(t, StatusFailed, event.Status)
}

func TestParseWebhook_BadSignature(t *testing.T) {
	_, body := signedPayload(t, `{"id":"evt_3","object":"event","type":"payment_intent.succeeded"}`)
	_, err := ParseWebhook(body, "t=1,v1=deadbeef", testWebhookSecret)
	require.Error(t, err)
}

func TestParseWebhook_UnrelatedEvent(t *testing.T) {
	header, body := signedPayload(t, `{
		"id": "evt_4",
		"object": "event",
		"type": "customer.created",
		"data": {"object": {"id": "cus_1", "object": "customer"}}
	}`)
	event, err := ParseWebhook(body, header, testWebhookSecret)
	require.NoError(t, err)
	assert.Equal(t, "customer.created", event.Type)
	assert.Empty(t, event.IntentID)
}

// stringValues dereferences a []*string for comparison in assertions.
func stringValues(in []*string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, stripe.StringValue(s))
	}
	return out
}
