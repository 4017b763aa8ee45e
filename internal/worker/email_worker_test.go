package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/diazinho777/Ferreteria-sistema/internal/infra"
	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type ventasFake map[uuid.UUID]*model.Venta

func (f ventasFake) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	if v, ok := f[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type envio struct{ to, subject, pdf string }

type mailerFake struct {
	enviados []envio
	err      error
}

func (m *mailerFake) SendTicket(to, subject, _ string, pdfPath string) error {
	if m.err != nil {
		return m.err
	}
	m.enviados = append(m.enviados, envio{to, subject, pdfPath})
	return nil
}

func nuevoWorker(t *testing.T, m *mailerFake) (*EmailWorker, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	venta := &model.Venta{
		ID:     id,
		Numero: 7,
		Fecha:  time.Now(),
		Total:  decimal.NewFromInt(300),
		Items: []model.DetalleVenta{{
			Cantidad: decimal.NewFromInt(2), PrecioUnitario: decimal.NewFromInt(150),
			Subtotal: decimal.NewFromInt(300), Producto: &model.Producto{Nombre: "Martillo"},
		}},
	}
	return NewEmailWorker(ventasFake{id: venta}, m, infra.Empresa{Nombre: "FERRETERÍA"}, t.TempDir()), id
}

func payload(t *testing.T, p TicketEmailPayload) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return raw
}

func TestEmailWorker_Envia(t *testing.T) {
	m := &mailerFake{}
	w, id := nuevoWorker(t, m)

	require.NoError(t, w.Handle(context.Background(), payload(t, TicketEmailPayload{VentaID: id.String(), Email: "ana@correo.test"})))
	require.Len(t, m.enviados, 1)
	assert.Equal(t, "ana@correo.test", m.enviados[0].to)
	assert.Equal(t, "FERRETERÍA - Ticket N° 000007", m.enviados[0].subject)
	assert.FileExists(t, m.enviados[0].pdf)
}

func TestEmailWorker_SinEmailNoHaceNada(t *testing.T) {
	m := &mailerFake{}
	w, id := nuevoWorker(t, m)
	assert.NoError(t, w.Handle(context.Background(), payload(t, TicketEmailPayload{VentaID: id.String()})))
	assert.Empty(t, m.enviados)
}

func TestEmailWorker_ErroresPermanentes(t *testing.T) {
	w, _ := nuevoWorker(t, &mailerFake{})
	ctx := context.Background()

	assert.ErrorIs(t, w.Handle(ctx, json.RawMessage(`{`)), ErrPermanente)
	assert.ErrorIs(t, w.Handle(ctx, payload(t, TicketEmailPayload{VentaID: "x", Email: "a@b.c"})), ErrPermanente)
	assert.ErrorIs(t, w.Handle(ctx, payload(t, TicketEmailPayload{VentaID: uuid.NewString(), Email: "a@b.c"})), ErrPermanente)

	sinSMTP, id := nuevoWorker(t, &mailerFake{err: infra.ErrSMTPNoConfigurado})
	assert.ErrorIs(t, sinSMTP.Handle(ctx, payload(t, TicketEmailPayload{VentaID: id.String(), Email: "a@b.c"})), ErrPermanente)
}

func TestEmailWorker_FalloTransitorioSeReintenta(t *testing.T) {
	errRed := errors.New("connection reset")
	w, id := nuevoWorker(t, &mailerFake{err: errRed})
	err := w.Handle(context.Background(), payload(t, TicketEmailPayload{VentaID: id.String(), Email: "a@b.c"}))
	assert.ErrorIs(t, err, errRed)
	assert.NotErrorIs(t, err, ErrPermanente)
}
