package infra

import (
	"errors"
	"net/smtp"
	"os"
	"path/filepath"
	"testing"

	"github.com/diazinho777/Ferreteria-sistema/internal/config"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mailerPrueba() *Mailer {
	return NewMailer(&config.Config{
		SMTPHost:     "smtp.ferreteria.test",
		SMTPPort:     587,
		SMTPUser:     "ventas@ferreteria.test",
		SMTPPassword: "clave",
	})
}

func TestMailer_SinHost(t *testing.T) {
	m := NewMailer(&config.Config{})
	assert.False(t, m.Configurado())
	assert.ErrorIs(t, m.SendTicket("ana@correo.test", "x", "y", ""), ErrSMTPNoConfigurado)

	var nulo *Mailer
	assert.False(t, nulo.Configurado())
}

func TestMailer_SendTicket(t *testing.T) {
	pdf := filepath.Join(t.TempDir(), "ticket_000001.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.3"), 0o644))

	m := mailerPrueba()
	var enviado *email.Email
	var destino string
	m.send = func(e *email.Email, addr string, _ smtp.Auth) error {
		enviado, destino = e, addr
		return nil
	}

	require.NoError(t, m.SendTicket("ana@correo.test", "Ticket", "Gracias", pdf))
	assert.Equal(t, "smtp.ferreteria.test:587", destino)
	assert.Equal(t, []string{"ana@correo.test"}, enviado.To)
	assert.Equal(t, "ventas@ferreteria.test", enviado.From)
	require.Len(t, enviado.Attachments, 1)
	assert.Equal(t, "ticket_000001.pdf", enviado.Attachments[0].Filename)
}

func TestMailer_AdjuntoInexistente(t *testing.T) {
	m := mailerPrueba()
	m.send = func(*email.Email, string, smtp.Auth) error { t.Fatal("no debe enviar"); return nil }
	err := m.SendTicket("ana@correo.test", "Ticket", "Gracias", "/no/existe.pdf")
	assert.ErrorContains(t, err, "attach PDF")
}

func TestMailer_BreakerAbre(t *testing.T) {
	m := mailerPrueba()
	errRed := errors.New("dial tcp: connection refused")
	m.send = func(*email.Email, string, smtp.Auth) error { return errRed }

	for i := 0; i < DefaultCBConfig().FailureThreshold; i++ {
		assert.ErrorIs(t, m.SendTicket("ana@correo.test", "s", "b", ""), errRed)
	}
	assert.Equal(t, CBOpen, m.Estado())
	assert.ErrorIs(t, m.SendTicket("ana@correo.test", "s", "b", ""), ErrCircuitOpen)
}
