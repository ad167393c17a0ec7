// Package mailer sends the outbound transactional mail of the app:
// email-verification codes, password-reset codes and habit reminders.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/limbo/momentum/pkg/entity"
	mail "github.com/wneessen/go-mail"
)

type MailerI interface {
	SendVerificationEmail(ctx context.Context, email, name, code string) error
	SendResetOTPEmail(ctx context.Context, email, code string) error
	SendHabitReminderEmail(ctx context.Context, email, name, habitTitle string, timeOfDay entity.TimeOfDay) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	client *mail.Client
	from   string
}

func New(cfg *SMTPConfig) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithSSL(),
	)
	if err != nil {
		return nil, errors.New("creating smtp client error: " + err.Error())
	}
	return &SMTPMailer{
		client: client,
		from:   cfg.From,
	}, nil
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return errors.New("setting mail sender error: " + err.Error())
	}
	if err := msg.To(to); err != nil {
		return errors.New("setting mail recipient error: " + err.Error())
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.New("sending mail error: " + err.Error())
	}
	return nil
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, email, name, code string) error {
	body := fmt.Sprintf(`<h1>Welcome to Momentum, %s!</h1>
<p>To get started, please verify your email address by entering the following verification code:</p>
<p style="font-size:24px;font-weight:bold">%s</p>
<p>This code will expire in 10 minutes.</p>
<p>If you didn't create an account, you can safely ignore this email.</p>`, name, code)
	return m.send(ctx, email, "Welcome to Momentum - Verify Your Email", body)
}

func (m *SMTPMailer) SendResetOTPEmail(ctx context.Context, email, code string) error {
	body := fmt.Sprintf(`<h1>Password Reset Request</h1>
<p>We received a request to reset your password. Here's your one-time password:</p>
<p style="font-size:24px;font-weight:bold">%s</p>
<p>This code will expire in 10 minutes.</p>
<p>If you didn't request a password reset, please ignore this email.</p>`, code)
	return m.send(ctx, email, "Password Reset Request - Momentum", body)
}

func (m *SMTPMailer) SendHabitReminderEmail(ctx context.Context, email, name, habitTitle string, timeOfDay entity.TimeOfDay) error {
	body := fmt.Sprintf(`<h1>Habit Reminder</h1>
<p>Hi %s! It's time for your %s habit:</p>
<p style="font-size:20px;font-weight:bold">%s</p>
<p>Head over to your dashboard to mark it as done and keep your streak going!</p>`, name, timeOfDay, habitTitle)
	return m.send(ctx, email, "Time to Complete Your Habit! - Momentum", body)
}

// Noop discards all mail. Used in tests and local runs without SMTP
// credentials.
type Noop struct{}

func (Noop) SendVerificationEmail(ctx context.Context, email, name, code string) error { return nil }

func (Noop) SendResetOTPEmail(ctx context.Context, email, code string) error { return nil }

func (Noop) SendHabitReminderEmail(ctx context.Context, email, name, habitTitle string, timeOfDay entity.TimeOfDay) error {
	return nil
}
