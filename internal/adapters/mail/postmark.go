package mail

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"
	customErrors "github.com/veloxcart/ecommerce-api/internal/domain/catalogue/errors"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/repo"
)

// PostmarkMailer delivers queued messages through Postmark's transactional
// API. One Send call is one delivery attempt; retries belong to the queue
// worker, not here.
type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

func NewPostmarkMailer(serverToken, from string) (*PostmarkMailer, error) {
	if serverToken == "" {
		return nil, customErrors.NewInvalidArgument("postmark server token is required")
	}
	if from == "" {
		return nil, customErrors.NewInvalidArgument("sender address is required")
	}
	return &PostmarkMailer{
		client: postmark.NewClient(serverToken, ""),
		from:   from,
	}, nil
}

func (m *PostmarkMailer) Send(ctx context.Context, msg repo.MailMessage) error {
	resp, err := m.client.SendEmail(ctx, postmark.Email{
		From:     m.from,
		To:       msg.To,
		Subject:  msg.Subject,
		TextBody: msg.TextBody,
	})
	if err != nil {
		return fmt.Errorf("postmark send: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark send: code %d: %s", resp.ErrorCode, resp.Message)
	}
	return nil
}
