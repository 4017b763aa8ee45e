package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/diazinho777/Ferreteria-sistema/internal/infra"
	"github.com/diazinho777/Ferreteria-sistema/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Only the database is required; Redis is optional (nil or "disabled") and
// degrades the cache and the email queue rather than the service.
func Health(db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		body := gin.H{"db": dbStatus}

		switch {
		case rdb == nil:
			body["redis"] = "disabled"
		case rdb.Ping(ctx).Err() != nil:
			body["redis"] = "error"
		default:
			body["redis"] = "connected"
			if n, err := worker.DLQLength(ctx, rdb, worker.QueueTicketEmail); err == nil {
				body["dlq_ticket_email"] = n
			}
		}

		smtp := "disabled"
		if mailer.Configurado() {
			smtp = mailer.Estado().String()
		}
		body["smtp"] = smtp

		status := http.StatusOK
		if dbStatus != "connected" {
			status = http.StatusServiceUnavailable
		}
		body["ok"] = status == http.StatusOK
		c.JSON(status, body)
	}
}
