package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errRelay = errors.New("relay caído")

func TestCircuitBreaker_AbreTrasFallosConsecutivos(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})
	falla := func() error { return errRelay }

	assert.ErrorIs(t, cb.Execute(falla), errRelay)
	assert.Equal(t, CBClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(falla), errRelay)
	assert.Equal(t, CBOpen, cb.State())

	llamado := false
	err := cb.Execute(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, llamado)
}

func TestCircuitBreaker_ExitoReiniciaContador(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2})
	_ = cb.Execute(func() error { return errRelay })
	assert.NoError(t, cb.Execute(func() error { return nil }))
	_ = cb.Execute(func() error { return errRelay })
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	ahora := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: 30 * time.Second})
	cb.now = func() time.Time { return ahora }

	_ = cb.Execute(func() error { return errRelay })
	assert.Equal(t, CBOpen, cb.State())

	ahora = ahora.Add(31 * time.Second)
	assert.Equal(t, CBHalfOpen, cb.State())

	// a failed probe reopens immediately
	_ = cb.Execute(func() error { return errRelay })
	assert.Equal(t, CBOpen, cb.State())

	ahora = ahora.Add(31 * time.Second)
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCBState_String(t *testing.T) {
	assert.Equal(t, "closed", CBClosed.String())
	assert.Equal(t, "open", CBOpen.String())
	assert.Equal(t, "half-open", CBHalfOpen.String())
	assert.Equal(t, "unknown", CBState(9).String())
}
