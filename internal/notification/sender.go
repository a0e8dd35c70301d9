package notification

import (
	"context"

	"github.com/rs/zerolog"
)

// EmailSender delivers a movement notification to an email address.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a movement notification to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// LogSender writes notifications to the log instead of an external
// provider. It is the default sender for environments without email or
// SMS credentials.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendEmail(ctx context.Context, to, subject, body string) error {
	s.logger.Info().
		Str("channel", "email").
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("notification sent")
	return nil
}

func (s *LogSender) SendSMS(ctx context.Context, to, body string) error {
	s.logger.Info().
		Str("channel", "sms").
		Str("to", to).
		Str("body", body).
		Msg("notification sent")
	return nil
}
