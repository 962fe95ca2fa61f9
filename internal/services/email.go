package services

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"sayabantu/internal/config"
)

// ErrMailDisabled is returned when no SMTP account is configured.
var ErrMailDisabled = errors.New("smtp is not configured")

// Mailer delivers one HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// EmailService sends mail through the configured SMTP server. Port 465 uses
// implicit TLS, anything else goes through smtp.SendMail, which upgrades
// with STARTTLS when the server offers it.
type EmailService struct {
	cfg config.SMTPConfig
}

var _ Mailer = (*EmailService)(nil)

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (es *EmailService) Send(ctx context.Context, to, subject, htmlBody string) error {
	if !es.cfg.Enabled() {
		return ErrMailDisabled
	}

	from := es.cfg.Sender()
	envelope := from
	if addr, err := mail.ParseAddress(from); err == nil {
		envelope = addr.Address
	}

	headers := [][2]string{
		{"From", from},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=\"UTF-8\""},
	}
	var message strings.Builder
	for _, h := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", h[0], h[1]))
	}
	message.WriteString("\r\n" + htmlBody)

	auth := smtp.PlainAuth("", es.cfg.Username, es.cfg.Password, es.cfg.Host)

	if !es.cfg.ImplicitTLS() {
		return smtp.SendMail(es.cfg.Addr(), auth, envelope, []string{to}, []byte(message.String()))
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{},
		Config:    &tls.Config{ServerName: es.cfg.Host, MinVersion: tls.VersionTLS12},
	}
	conn, err := dialer.DialContext(ctx, "tcp", es.cfg.Addr())
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	client, err := smtp.NewClient(conn, es.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(envelope); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(message.String())); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

const resetSubject = "Reset Password"

// resetEmail renders the reset message for link, valid for ttl.
func resetEmail(link string, ttl time.Duration) string {
	l := html.EscapeString(link)
	return fmt.Sprintf(`<p>Anda meminta reset password.</p>
<p>Link (berlaku %d menit): <a href="%s">%s</a></p>
<p>Abaikan jika Anda tidak meminta reset.</p>`, int(ttl.Minutes()), l, l)
}
