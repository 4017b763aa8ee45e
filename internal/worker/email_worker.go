package worker

// email_worker.go
// Renders the sale ticket and mails it to the customer.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/diazinho777/Ferreteria-sistema/internal/infra"
	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// VentaLoader is the slice of the sale repository the worker needs.
type VentaLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
}

// TicketSender is implemented by *infra.Mailer.
type TicketSender interface {
	SendTicket(to, subject, body, pdfPath string) error
}

// EmailWorker processes ticket_email jobs.
type EmailWorker struct {
	ventas      VentaLoader
	mailer      TicketSender
	empresa     infra.Empresa
	storagePath string
}

// NewEmailWorker creates an EmailWorker with the provided SMTP mailer.
func NewEmailWorker(ventas VentaLoader, mailer TicketSender, empresa infra.Empresa, storagePath string) *EmailWorker {
	return &EmailWorker{ventas: ventas, mailer: mailer, empresa: empresa, storagePath: storagePath}
}

// Handle renders the ticket PDF and sends it. Bad payloads, missing sales and
// a missing SMTP relay are permanent failures.
func (w *EmailWorker) Handle(ctx context.Context, raw json.RawMessage) error {
	var payload TicketEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: payload inválido: %v", ErrPermanente, err)
	}
	if payload.Email == "" {
		log.Warn().Str("venta_id", payload.VentaID).Msg("email_worker: empty email, skipping")
		return nil
	}
	id, err := uuid.Parse(payload.VentaID)
	if err != nil {
		return fmt.Errorf("%w: venta_id inválido", ErrPermanente)
	}

	venta, err := w.ventas.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: venta %s no existe", ErrPermanente, id)
		}
		return err
	}

	pdfPath, err := infra.SaveTicketPDF(venta, w.empresa, w.storagePath)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s - Ticket N° %06d", w.empresa.Nombre, venta.Numero)
	body := fmt.Sprintf("Gracias por su compra. Adjuntamos el ticket N° %06d por un total de C$ %s.",
		venta.Numero, venta.Total.StringFixed(2))
	if err := w.mailer.SendTicket(payload.Email, subject, body, pdfPath); err != nil {
		if errors.Is(err, infra.ErrSMTPNoConfigurado) {
			return fmt.Errorf("%w: %v", ErrPermanente, err)
		}
		return err
	}
	log.Info().Str("to", payload.Email).Int64("numero", venta.Numero).Msg("email_worker: ticket sent")
	return nil
}
