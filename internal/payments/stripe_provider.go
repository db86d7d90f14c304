package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"go.uber.org/zap"
)

type stripePaymentIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Cancel(id string, params *stripe.PaymentIntentCancelParams) (*stripe.PaymentIntent, error)
}

// StripeProviderConfig configures the StripeProvider.
type StripeProviderConfig struct {
	APIKey    string
	AccountID string
	Backends  *stripe.Backends
	Logger    *zap.Logger

	intents stripePaymentIntentAPI
}

// StripeProvider implements Provider using Stripe Payment Intents.
type StripeProvider struct {
	intents stripePaymentIntentAPI
	account string
	logger  *zap.Logger
}

// NewStripeProvider constructs a Stripe Provider using the given configuration.
func NewStripeProvider(cfg StripeProviderConfig) (*StripeProvider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" && cfg.intents == nil {
		return nil, errors.New("stripe: api key is required")
	}

	intents := cfg.intents
	if intents == nil {
		sc := client.New(apiKey, cfg.Backends)
		intents = sc.PaymentIntents
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StripeProvider{
		intents: intents,
		account: strings.TrimSpace(cfg.AccountID),
		logger:  logger.Named("stripe"),
	}, nil
}

// CreatePaymentIntent creates a Stripe Payment Intent for the booking amount.
func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	if p == nil {
		return Intent{}, errors.New("stripe: provider is nil")
	}
	if req.Amount <= 0 {
		return Intent{}, fmt.Errorf("stripe: amount must be positive")
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.Amount),
		Currency:           stripe.String(strings.ToLower(req.Currency)),
		PaymentMethodTypes: stripe.StringSlice(stripeMethodTypes(req.Methods.ForCurrency(req.Currency))),
	}
	params.Context = ctx
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		params.SetIdempotencyKey(key)
	}
	if p.account != "" {
		params.SetStripeAccount(p.account)
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	intent, err := p.intents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	p.logger.Info("payment intent created",
		zap.String("payment_intent", intent.ID),
		zap.Int64("amount", intent.Amount),
		zap.String("currency", string(intent.Currency)),
	)
	return stripeIntent(intent), nil
}

// LookupPaymentIntent retrieves a Stripe Payment Intent.
func (p *StripeProvider) LookupPaymentIntent(ctx context.Context, intentID string) (Intent, error) {
	if p == nil {
		return Intent{}, errors.New("stripe: provider is nil")
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	if p.account != "" {
		params.SetStripeAccount(p.account)
	}
	intent, err := p.intents.Get(intentID, params)
	if err != nil {
		return Intent{}, fmt.Errorf("stripe: lookup payment intent: %w", err)
	}
	return stripeIntent(intent), nil
}

// CancelPaymentIntent cancels an unpaid Stripe Payment Intent.
func (p *StripeProvider) CancelPaymentIntent(ctx context.Context, intentID string) (Intent, error) {
	if p == nil {
		return Intent{}, errors.New("stripe: provider is nil")
	}
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	if p.account != "" {
		params.SetStripeAccount(p.account)
	}
	intent, err := p.intents.Cancel(intentID, params)
	if err != nil {
		return Intent{}, fmt.Errorf("stripe: cancel payment intent: %w", err)
	}
	p.logger.Info("payment intent cancelled", zap.String("payment_intent", intent.ID))
	return stripeIntent(intent), nil
}

func stripeIntent(intent *stripe.PaymentIntent) Intent {
	if intent == nil {
		return Intent{}
	}
	return Intent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       stripeStatus(intent.Status),
		Amount:       intent.Amount,
		Currency:     strings.ToUpper(string(intent.Currency)),
		Metadata:     intent.Metadata,
	}
}

func stripeStatus(s stripe.PaymentIntentStatus) Status {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return StatusCanceled
	case stripe.PaymentIntentStatusProcessing:
		return StatusProcessing
	default:
		return StatusPending
	}
}

// Google Pay and Apple Pay ride on the card method in Stripe.
func stripeMethodTypes(m PaymentMethods) []string {
	types := []string{}
	if m.Card || m.GooglePay || m.ApplePay {
		types = append(types, "card")
	}
	if m.PromptPay {
		types = append(types, "promptpay")
	}
	if len(types) == 0 {
		types = append(types, "card")
	}
	return types
}
