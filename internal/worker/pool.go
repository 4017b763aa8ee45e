package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueTicketEmail = "jobs:ticket_email"

	JobTicketEmail = "ticket_email"

	// MaxIntentos is how many times a job runs before it goes to the DLQ.
	MaxIntentos = 3
)

// ErrPermanente marks a handler failure that must not be retried.
var ErrPermanente = errors.New("worker: error permanente")

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Intentos int             `json:"intentos"`
}

// TicketEmailPayload asks the worker to render a sale ticket and mail it.
type TicketEmailPayload struct {
	VentaID string `json:"venta_id"`
	Email   string `json:"email"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP. A nil Dispatcher, or one without
// a Redis client, drops jobs silently.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) Habilitado() bool { return d != nil && d.rdb != nil }

// EnqueueTicketEmail pushes a ticket email job to Redis.
func (d *Dispatcher) EnqueueTicketEmail(ctx context.Context, payload TicketEmailPayload) error {
	return d.enqueue(ctx, QueueTicketEmail, JobTicketEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	if !d.Habilitado() {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handler processes one job payload. Returning an error wrapping
// ErrPermanente skips the remaining retries.
type Handler func(ctx context.Context, payload json.RawMessage) error

type accion int

const (
	accionListo accion = iota
	accionReintentar
	accionDLQ
)

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	queues   []string
	backoff  func(intento int) time.Duration
	// pausa is the wait after a Redis error in the consume loop.
	pausa time.Duration
}

func NewPool(rdb *redis.Client) *Pool {
	return &Pool{
		rdb:      rdb,
		handlers: make(map[string]Handler),
		queues:   []string{QueueTicketEmail},
		backoff:  func(intento int) time.Duration { return time.Duration(intento*intento) * 2 * time.Second },
		pausa:    time.Second,
	}
}

// Register binds a handler to a job type.
func (p *Pool) Register(jobType string, h Handler) {
	p.handlers[jobType] = h
}

// Start launches numWorkers goroutines consuming the queues.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if p.rdb == nil {
		log.Warn().Msg("worker pool disabled: no redis client")
		return
	}
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop; waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil {
				p.esperarTrasError(ctx, id, err)
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

// esperarTrasError decides what a failed BRPOP means. redis.Nil is an idle
// timeout; anything else (Redis down) is logged and backs off for pausa.
func (p *Pool) esperarTrasError(ctx context.Context, id int, err error) {
	if errors.Is(err, redis.Nil) || ctx.Err() != nil {
		return
	}
	log.Error().Err(err).Int("worker", id).Msg("worker: brpop failed")
	select {
	case <-ctx.Done():
	case <-time.After(p.pausa):
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	switch a, err := p.ejecutar(ctx, &job); a {
	case accionReintentar:
		p.reencolar(ctx, queue, &job)
	case accionDLQ:
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Intentos)
	}
}

// ejecutar runs the handler and decides the job's fate. job.Intentos is
// incremented for every run.
func (p *Pool) ejecutar(ctx context.Context, job *Job) (accion, error) {
	h, ok := p.handlers[job.Type]
	if !ok {
		err := errors.New("tipo de job desconocido: " + job.Type)
		log.Error().Str("type", job.Type).Msg("no handler registered")
		return accionDLQ, err
	}

	job.Intentos++
	err := h(ctx, job.Payload)
	if err == nil {
		log.Info().Str("type", job.Type).Int("intentos", job.Intentos).Msg("job processed")
		return accionListo, nil
	}

	log.Warn().Err(err).Str("type", job.Type).Int("intentos", job.Intentos).Msg("job failed")
	if errors.Is(err, ErrPermanente) || job.Intentos >= MaxIntentos {
		return accionDLQ, err
	}
	return accionReintentar, err
}

func (p *Pool) reencolar(ctx context.Context, queue string, job *Job) {
	espera := p.backoff(job.Intentos)
	select {
	case <-ctx.Done():
		return
	case <-time.After(espera):
	}
	encoded, err := json.Marshal(job)
	if err != nil {
		return
	}
	if err := p.rdb.LPush(ctx, queue, encoded).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to requeue job")
	}
}
