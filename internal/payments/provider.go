// Package payments abstracts the payment service provider used at checkout.
package payments

import (
	"context"
	"errors"
	"strings"
)

// Status enumerates the normalised payment states shared across providers.
type Status string

const (
	// StatusPending indicates the payment is awaiting customer action or PSP confirmation.
	StatusPending Status = "pending"
	// StatusProcessing indicates the PSP has the payment but has not settled it yet.
	StatusProcessing Status = "processing"
	// StatusSucceeded indicates the PSP reports the payment as successful.
	StatusSucceeded Status = "succeeded"
	// StatusFailed indicates the last attempt failed; the customer may retry.
	StatusFailed Status = "failed"
	// StatusCanceled indicates the intent was cancelled and cannot be paid anymore.
	StatusCanceled Status = "canceled"
)

// ErrProviderUnavailable is returned when no provider is configured.
var ErrProviderUnavailable = errors.New("payments: provider not configured")

// Method names accepted in PAYMENT_METHODS.
const (
	MethodCard      = "card"
	MethodGooglePay = "google_pay"
	MethodApplePay  = "apple_pay"
	MethodPromptPay = "promptpay"
)

// PaymentMethods lists the wallets and rails the storefront may offer.
type PaymentMethods struct {
	Card      bool `json:"card"`
	GooglePay bool `json:"google_pay"`
	ApplePay  bool `json:"apple_pay"`
	PromptPay bool `json:"promptpay"`
}

// ParseMethods builds PaymentMethods from a list of method names. Unknown names
// are ignored; an empty list enables cards only.
func ParseMethods(names []string) PaymentMethods {
	var m PaymentMethods
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case MethodCard:
			m.Card = true
		case MethodGooglePay:
			m.GooglePay = true
		case MethodApplePay:
			m.ApplePay = true
		case MethodPromptPay:
			m.PromptPay = true
		}
	}
	if m == (PaymentMethods{}) {
		m.Card = true
	}
	return m
}

// ForCurrency narrows the methods to what the currency supports. PromptPay only settles THB.
func (m PaymentMethods) ForCurrency(currency string) PaymentMethods {
	if !strings.EqualFold(currency, "THB") {
		m.PromptPay = false
	}
	return m
}

// IntentRequest captures the payload required to create a payment intent.
type IntentRequest struct {
	Amount         int64
	Currency       string
	Description    string
	ReceiptEmail   string
	Metadata       map[string]string
	IdempotencyKey string
	Methods        PaymentMethods
}

// Intent is the provider-side payment object referenced by a booking.
type Intent struct {
	ID           string
	ClientSecret string
	Status       Status
	Amount       int64
	Currency     string
	Metadata     map[string]string
}

// Provider is implemented by PSP adapters.
type Provider interface {
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (Intent, error)
	LookupPaymentIntent(ctx context.Context, intentID string) (Intent, error)
	CancelPaymentIntent(ctx context.Context, intentID string) (Intent, error)
}
