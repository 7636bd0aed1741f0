package service

import "context"

// Identity is what the session layer needs from an authenticated entity.
type Identity interface {
	IdentityID() uint
	VerifyCredential(password string) bool
}

// EventPublisher is the slice of the kafka producer the services need.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event map[string]any) error
}

// LineItem is one priced row handed to the payment processor, unit amount
// in minor currency units.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutProvider opens a hosted payment session for the given line
// items. The order id rides along as the processor's client reference.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, orderID uint, lines []LineItem) (*CheckoutSession, error)
}

type Mailer interface {
	SendOrderConfirmation(to, firstName string, orderID uint, total float64) error
}
