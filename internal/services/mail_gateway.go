package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"go.uber.org/zap"

	"github.com/charlesng35/reviewerdesk/pkg/logger"
	"github.com/charlesng35/reviewerdesk/pkg/mail"
)

const (
	defaultMailAttempts     = 3
	defaultMailInitialDelay = 500 * time.Millisecond
	defaultMailMaxDelay     = 5 * time.Second
)

// MailGatewayOption customises MailGateway behaviour.
type MailGatewayOption func(*MailGateway)

// WithMailBaseURL sets the public URL used to build response links.
func WithMailBaseURL(url string) MailGatewayOption {
	return func(g *MailGateway) {
		g.baseURL = strings.TrimRight(url, "/")
	}
}

// WithMailRetry overrides the retry attempts and initial backoff delay.
func WithMailRetry(attempts uint, delay time.Duration) MailGatewayOption {
	return func(g *MailGateway) {
		if attempts > 0 {
			g.attempts = attempts
		}
		if delay > 0 {
			g.delay = delay
		}
	}
}

// MailGateway delivers reviewer notifications as plain text email.
type MailGateway struct {
	mailer   mail.Mailer
	baseURL  string
	attempts uint
	delay    time.Duration
	log      *zap.Logger
}

// NewMailGateway wraps mailer. Sends are retried with exponential backoff.
func NewMailGateway(mailer mail.Mailer, opts ...MailGatewayOption) (*MailGateway, error) {
	if mailer == nil {
		return nil, errors.New("mail gateway: mailer is required")
	}
	gateway := &MailGateway{
		mailer:   mailer,
		attempts: defaultMailAttempts,
		delay:    defaultMailInitialDelay,
		log:      logger.WithModule("mail-gateway"),
	}
	for _, opt := range opts {
		opt(gateway)
	}
	return gateway, nil
}

// Send implements NotificationGateway. A disabled SMTP transport counts as delivered.
func (g *MailGateway) Send(ctx context.Context, reviewerID string, payload NotificationPayload) error {
	if strings.TrimSpace(payload.ReviewerEmail) == "" {
		return fmt.Errorf("mail gateway: reviewer %s has no email address", reviewerID)
	}

	message := mail.Message{
		To:      []string{payload.ReviewerEmail},
		Subject: g.subject(payload),
		Body:    g.body(payload),
		Headers: map[string]string{
			"X-Invitation-ID": payload.InvitationID,
			"X-Manuscript-ID": payload.ManuscriptID,
		},
	}

	err := retry.Do(
		func() error {
			sendErr := g.mailer.Send(ctx, message)
			if errors.Is(sendErr, mail.ErrSMTPDisabled) {
				return nil
			}
			return sendErr
		},
		retry.Context(ctx),
		retry.Attempts(g.attempts),
		retry.DelayType(retry.BackOffDelay),
		retry.Delay(g.delay),
		retry.MaxDelay(defaultMailMaxDelay),
		retry.OnRetry(func(n uint, err error) {
			g.log.Warn("retrying notification",
				zap.String("reviewer_id", reviewerID),
				zap.String("kind", string(payload.Kind)),
				zap.Uint("attempt", n+1),
				zap.Error(err))
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("mail gateway: send %s: %w", payload.Kind, err)
	}
	return nil
}

func (g *MailGateway) subject(p NotificationPayload) string {
	switch p.Kind {
	case NotificationReminder:
		return fmt.Sprintf("Reminder: review of %q", p.ManuscriptTitle)
	case NotificationCancellation:
		return fmt.Sprintf("Review invitation withdrawn: %q", p.ManuscriptTitle)
	default:
		return fmt.Sprintf("Invitation to review %q", p.ManuscriptTitle)
	}
}

func (g *MailGateway) body(p NotificationPayload) string {
	var b strings.Builder

	name := p.ReviewerName
	if name == "" {
		name = "colleague"
	}
	fmt.Fprintf(&b, "Dear %s,\n\n", name)

	switch p.Kind {
	case NotificationReminder:
		fmt.Fprintf(&b, "This is a reminder that your review of %q is due on %s.\n",
			p.ManuscriptTitle, p.ReviewDeadline.Format("2006-01-02"))
	case NotificationCancellation:
		fmt.Fprintf(&b, "The invitation to review %q has been withdrawn.\n", p.ManuscriptTitle)
		if p.Reason != "" {
			fmt.Fprintf(&b, "Reason: %s\n", p.Reason)
		}
	default:
		fmt.Fprintf(&b, "You are invited to review the manuscript %q.\n", p.ManuscriptTitle)
		fmt.Fprintf(&b, "Please respond by %s. The review itself is due on %s.\n",
			p.ResponseDeadline.Format("2006-01-02"), p.ReviewDeadline.Format("2006-01-02"))
		if p.Message != "" {
			fmt.Fprintf(&b, "\n%s\n", p.Message)
		}
		if p.Token != "" {
			fmt.Fprintf(&b, "\nAccept: %s\nDecline: %s\n", g.link(p.Token, "accept"), g.link(p.Token, "decline"))
		}
	}

	b.WriteString("\nThe editorial office\n")
	return b.String()
}

func (g *MailGateway) link(token, action string) string {
	path := fmt.Sprintf("/api/invitations/%s/%s", token, action)
	if g.baseURL == "" {
		return path
	}
	return g.baseURL + path
}
