package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestDispatcher_SinRedisDescarta(t *testing.T) {
	var nulo *Dispatcher
	assert.False(t, nulo.Habilitado())
	assert.NoError(t, nulo.EnqueueTicketEmail(context.Background(), TicketEmailPayload{VentaID: "v", Email: "a@b.c"}))

	d := NewDispatcher(nil)
	assert.False(t, d.Habilitado())
	assert.NoError(t, d.EnqueueTicketEmail(context.Background(), TicketEmailPayload{}))
}

func TestEjecutar(t *testing.T) {
	errTemporal := errors.New("timeout")
	casos := []struct {
		nombre   string
		tipo     string
		intentos int
		err      error
		want     accion
	}{
		{"ok", JobTicketEmail, 0, nil, accionListo},
		{"reintenta", JobTicketEmail, 0, errTemporal, accionReintentar},
		{"agota intentos", JobTicketEmail, MaxIntentos - 1, errTemporal, accionDLQ},
		{"permanente", JobTicketEmail, 0, fmt.Errorf("%w: payload", ErrPermanente), accionDLQ},
		{"tipo desconocido", "pdf_mensual", 0, nil, accionDLQ},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			p := NewPool(nil)
			llamadas := 0
			p.Register(JobTicketEmail, func(context.Context, json.RawMessage) error {
				llamadas++
				return tc.err
			})

			job := &Job{Type: tc.tipo, Payload: json.RawMessage(`{}`), Intentos: tc.intentos}
			got, err := p.ejecutar(context.Background(), job)
			assert.Equal(t, tc.want, got)
			if tc.want == accionListo {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
			if tc.tipo == JobTicketEmail {
				assert.Equal(t, 1, llamadas)
				assert.Equal(t, tc.intentos+1, job.Intentos)
			} else {
				assert.Zero(t, llamadas)
			}
		})
	}
}

func TestPool_StartSinRedis(t *testing.T) {
	// must return without spawning consumers
	NewPool(nil).Start(context.Background(), 4)
}

func TestDLQ_SinRedis(t *testing.T) {
	n, err := DLQLength(context.Background(), nil, QueueTicketEmail)
	assert.NoError(t, err)
	assert.Zero(t, n)

	entries, err := ListDLQ(context.Background(), nil, QueueTicketEmail, 10)
	assert.NoError(t, err)
	assert.Empty(t, entries)

	SendToDLQ(context.Background(), nil, QueueTicketEmail, JobTicketEmail, nil, "x", 1)
}

func TestEsperarTrasError(t *testing.T) {
	p := NewPool(nil)
	p.pausa = 50 * time.Millisecond

	inicio := time.Now()
	p.esperarTrasError(context.Background(), 0, redis.Nil)
	assert.Less(t, time.Since(inicio), p.pausa, "an idle timeout is not an error")

	inicio = time.Now()
	p.esperarTrasError(context.Background(), 0, errors.New("dial tcp 127.0.0.1:6379: connect: connection refused"))
	assert.GreaterOrEqual(t, time.Since(inicio), p.pausa)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inicio = time.Now()
	p.esperarTrasError(ctx, 0, errors.New("connection refused"))
	assert.Less(t, time.Since(inicio), p.pausa)
}
