package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"

	"github.com/beanline/coffee-shop/internal/service"
)

// StripeProvider opens hosted Checkout Sessions. Success and cancel URLs
// are fixed at construction, the processor redirects the browser back to
// them when the flow ends.
type StripeProvider struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

func NewStripeProvider(apiKey, currency, successURL, cancelURL string) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{
		Currency:   currency,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	}
}

func (p *StripeProvider) CreateSession(ctx context.Context, orderID uint, lines []service.LineItem) (*service.CheckoutSession, error) {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines))
	for _, line := range lines {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(line.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(p.Currency),
				UnitAmount: stripe.Int64(line.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:         items,
		SuccessURL:        stripe.String(p.SuccessURL),
		CancelURL:         stripe.String(p.CancelURL),
		ClientReferenceID: stripe.String(fmt.Sprint(orderID)),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return &service.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}
