//go:build integration

package router

// Full stack against real Postgres and Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/diazinho777/Ferreteria-sistema/internal/infra"
	"github.com/diazinho777/Ferreteria-sistema/internal/model"
	"github.com/diazinho777/Ferreteria-sistema/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupContainers(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:15-alpine",
		tcPostgres.WithDatabase("ferreteria_test"),
		tcPostgres.WithUsername("ferreteria"),
		tcPostgres.WithPassword("ferreteria"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.DatabaseURL = pgURL
	cfg.RedisURL = rdURL
	cfg.CacheProductoTTL = 60

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	env := newTestEnv(t, cfg, db, rdb)
	env.redisURL = rdURL
	return env
}

func TestE2E_SaleCycle(t *testing.T) {
	saleCycle(t, setupContainers(t))
}

// Concurrent sales of the last units: exactly one wins, stock never goes negative.
func TestE2E_VentasConcurrentes(t *testing.T) {
	env := setupContainers(t)
	env.seedUser(t, "admin", "admin-secreto", model.RolAdmin)
	token := env.login(t, "admin", "admin-secreto")

	resp := do(t, env.server, http.MethodPost, "/v1/productos", jsonBody(t, map[string]any{
		"nombre": "Taladro", "precio_compra": 1000, "precio_venta": 1500, "stock_inicial": 1,
	}), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)

	const n = 5
	codes := make(chan int, n)
	for i := 0; i < n; i++ {
		go func() {
			b, _ := json.Marshal(map[string]any{
				"items": []map[string]any{{"id": prod.ID, "cantidad": 1, "precio": 1500}},
				"total": 1500,
			})
			req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/v1/ventas", bytes.NewReader(b))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			r, err := env.server.Client().Do(req)
			if err != nil {
				codes <- 0
				return
			}
			r.Body.Close()
			codes <- r.StatusCode
		}()
	}

	creadas, conflictos := 0, 0
	for i := 0; i < n; i++ {
		switch <-codes {
		case http.StatusCreated:
			creadas++
		case http.StatusConflict:
			conflictos++
		}
	}
	assert.Equal(t, 1, creadas)
	assert.Equal(t, n-1, conflictos)

	var p model.Producto
	require.NoError(t, env.db.First(&p, "id = ?", prod.ID).Error)
	assert.True(t, p.Stock.IsZero())
}

// A sale to a customer with email enqueues the ticket job in Redis.
func TestE2E_TicketEncolado(t *testing.T) {
	env := setupContainers(t)
	env.seedUser(t, "admin", "admin-secreto", model.RolAdmin)
	token := env.login(t, "admin", "admin-secreto")

	resp := do(t, env.server, http.MethodPost, "/v1/clientes/rapido", jsonBody(t, map[string]any{
		"nombres": "Ana Pérez", "email": "ana@correo.test",
	}), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cli struct {
		Cliente struct {
			ID string `json:"id"`
		} `json:"cliente"`
	}
	decodeJSON(t, resp, &cli)

	resp = do(t, env.server, http.MethodPost, "/v1/productos", jsonBody(t, map[string]any{
		"nombre": "Brocha 3\"", "precio_compra": 40, "precio_venta": 60, "stock_inicial": 5,
	}), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)

	resp = do(t, env.server, http.MethodPost, "/v1/ventas", jsonBody(t, map[string]any{
		"items":      []map[string]any{{"id": prod.ID, "cantidad": 1, "precio": 60}},
		"total":      60,
		"id_cliente": cli.Cliente.ID,
	}), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	rdb, err := infra.NewRedis(env.redisURL)
	require.NoError(t, err)
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	raw, err := rdb.RPop(ctx, worker.QueueTicketEmail).Result()
	require.NoError(t, err)

	var job worker.Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, worker.JobTicketEmail, job.Type)
	var payload worker.TicketEmailPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, "ana@correo.test", payload.Email)
}
