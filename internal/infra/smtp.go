package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"github.com/diazinho777/Ferreteria-sistema/internal/config"

	"github.com/jordan-wright/email"
)

// ErrSMTPNoConfigurado is returned when SMTP_HOST is empty.
var ErrSMTPNoConfigurado = errors.New("mailer: SMTP no configurado")

// Mailer wraps SMTP configuration for sending tickets as PDF attachments.
// Sends go through a circuit breaker so an unreachable relay fails fast.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	cb       *CircuitBreaker
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       NewCircuitBreaker(DefaultCBConfig()),
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Configurado reports whether an SMTP relay is set.
func (m *Mailer) Configurado() bool { return m != nil && m.host != "" }

// Estado exposes the breaker state for the health endpoint.
func (m *Mailer) Estado() CBState { return m.cb.State() }

// SendTicket mails the ticket at pdfPath to the customer.
func (m *Mailer) SendTicket(to, subject, body, pdfPath string) error {
	if !m.Configurado() {
		return ErrSMTPNoConfigurado
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return m.cb.Execute(func() error {
		return m.send(e, m.addr, auth)
	})
}
