package services

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/example/novawear/internal/config"
)

// Mailer delivers password-reset links out-of-band. The auth service only
// depends on this interface; tests substitute a fake.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer constructs an SMTPMailer from configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
	}
}

// SendPasswordReset emails the reset link. The link embeds the raw one-time
// secret; it appears nowhere else.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject("Password reset for NovaWear")
	msg.SetBodyString(mail.TypeTextHTML, fmt.Sprintf(
		`<p>You requested a password reset. Click the link below to set a new password (valid for 1 hour):</p>
<p><a href="%s">%s</a></p>`, resetURL, resetURL))
	msg.AddAlternativeString(mail.TypeTextPlain, "Reset URL: "+resetURL)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	return client.DialAndSendWithContext(ctx, msg)
}
