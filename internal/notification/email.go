// Package notification delivers best effort email notices.
//
// Delivery happens out-of-band after the triggering database transaction
// has committed. A failed or slow provider never affects the outcome of
// the request that queued the notice.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-demi/demi-bank/internal/domain"
	"github.com/rs/zerolog"
)

const (
	sendTimeout  = 5 * time.Second
	sendAttempts = 3
	sendBackoff  = 2 * time.Second
)

// Email is one outbound message.
type Email struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Provider submits an email to a third party delivery API.
type Provider interface {
	Send(ctx context.Context, email Email) error
}

// HTTPProvider posts emails to a JSON delivery endpoint.
type HTTPProvider struct {
	name   string
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPProvider returns an HTTPProvider for the given endpoint.
func NewHTTPProvider(name, url, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		name:   name,
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: sendTimeout},
	}
}

// Send posts the email and reports non-2xx responses as errors.
func (p *HTTPProvider) Send(ctx context.Context, email Email) error {
	payload, err := json.Marshal(email)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned status %d", p.name, resp.StatusCode)
	}

	return nil
}

// UserDirectory resolves the user behind an account number.
type UserDirectory interface {
	GetByAccount(ctx context.Context, number string) (domain.User, error)
}

// Sender queues emails to a primary provider with a silent fallback.
type Sender struct {
	primary  Provider
	fallback Provider
	users    UserDirectory
	from     string
	logger   zerolog.Logger
}

// NewSender returns a Sender using the given providers.
// The fallback may be nil.
func NewSender(primary, fallback Provider, users UserDirectory, from string, logger zerolog.Logger) *Sender {
	return &Sender{
		primary:  primary,
		fallback: fallback,
		users:    users,
		from:     from,
		logger:   logger,
	}
}

// VerificationRequested queues the email verification message.
func (s *Sender) VerificationRequested(email, fullName, token string) {
	s.queue(Email{
		From:    s.from,
		To:      email,
		Subject: "Verify your email address",
		Body: fmt.Sprintf("Hello %s,\n\nplease confirm your email address with the token below.\n\n%s\n",
			fullName, token),
	})
}

// MovementSettled queues notices to the movement's participants.
func (s *Sender) MovementSettled(movement domain.Movement) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		for _, number := range []string{movement.SenderAccount, movement.ReceiverAccount} {
			if number == "" {
				continue
			}

			user, err := s.users.GetByAccount(ctx, number)
			if err != nil {
				s.logger.Warn().Err(err).Str("account", number).Msg("cannot resolve notification recipient")
				continue
			}

			s.deliver(movementEmail(s.from, user, movement))
		}
	}()
}

func movementEmail(from string, user domain.User, movement domain.Movement) Email {
	subject := fmt.Sprintf("Transaction %s %s", movement.Reference, movement.Status)

	return Email{
		From:    from,
		To:      user.Email,
		Subject: subject,
		Body: fmt.Sprintf("Hello %s,\n\nyour %s transaction of %s is now %s.\n",
			user.FullName, movement.Kind, movement.Amount, movement.Status),
	}
}

// queue hands the email to a background goroutine and returns immediately.
func (s *Sender) queue(email Email) {
	go s.deliver(email)
}

// deliver tries the primary provider and falls back, with bounded retries
// and linear backoff.
func (s *Sender) deliver(email Email) {
	for attempt := 1; attempt <= sendAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := s.primary.Send(ctx, email)
		cancel()

		if err == nil {
			return
		}

		s.logger.Warn().Err(err).Str("to", email.To).Int("attempt", attempt).Msg("primary email provider failed")

		if s.fallback != nil {
			ctx, cancel = context.WithTimeout(context.Background(), sendTimeout)
			err = s.fallback.Send(ctx, email)
			cancel()

			if err == nil {
				return
			}

			s.logger.Warn().Err(err).Str("to", email.To).Int("attempt", attempt).Msg("fallback email provider failed")
		}

		if attempt < sendAttempts {
			time.Sleep(time.Duration(attempt) * sendBackoff)
		}
	}

	s.logger.Error().Str("to", email.To).Msg("email dropped after retries")
}
