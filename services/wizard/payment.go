package wizard

import (
	"context"

	"slotwise/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// PaymentIntentRef identifies a provider-side payment the customer must
// complete before the wizard reaches confirmation.
type PaymentIntentRef struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

// PaymentProvider abstracts the payment-capture call. The wizard only
// needs to open an intent and later check that it succeeded; the capture
// protocol itself is the provider's business.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*PaymentIntentRef, error)
	IntentSucceeded(ctx context.Context, intentID string) (bool, error)
}

// StripeProvider implements PaymentProvider on Stripe PaymentIntents.
type StripeProvider struct {
	logger *zap.Logger
}

func NewStripeProvider() *StripeProvider {
	return &StripeProvider{logger: utils.GetLogger()}
}

func (p *StripeProvider) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*PaymentIntentRef, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}
	p.logger.Info("payment intent created",
		zap.String("intentId", intent.ID),
		zap.Int64("amount", amount),
		zap.String("currency", currency))
	return &PaymentIntentRef{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

func (p *StripeProvider) IntentSucceeded(ctx context.Context, intentID string) (bool, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	intent, err := paymentintent.Get(intentID, params)
	if err != nil {
		return false, err
	}
	return intent.Status == stripe.PaymentIntentStatusSucceeded, nil
}
