package mail

import (
	"fmt"

	"github.com/keighl/postmark"
)

type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

func NewPostmarkMailer(serverToken, from string) *PostmarkMailer {
	return &PostmarkMailer{
		client: postmark.NewClient(serverToken, ""),
		from:   from,
	}
}

func (m *PostmarkMailer) SendOrderConfirmation(to, firstName string, orderID uint, total float64) error {
	subject := "Your coffee order is confirmed"
	body := fmt.Sprintf(
		"Dear %s,\n\nThank you for your purchase! Your order #%d has been paid.\n\nTotal: $%.2f\n\nSee you soon at the coffee shop!",
		firstName, orderID, total,
	)

	_, err := m.client.SendEmail(postmark.Email{
		From:     m.from,
		To:       to,
		Subject:  subject,
		TextBody: body,
	})
	if err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}
