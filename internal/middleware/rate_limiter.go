package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/diazinho777/Ferreteria-sistema/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

// ventana tracks request counts for one IP within a fixed window.
type ventana struct {
	count     int
	windowEnd time.Time
}

// RateLimiter is a per-IP fixed-window limiter.
type RateLimiter struct {
	limit   int
	window  time.Duration
	mensaje string

	mu  sync.Mutex
	ips map[string]*ventana
	now func() time.Time
}

func NewRateLimiter(limit int, window time.Duration, mensaje string) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		mensaje: mensaje,
		ips:     make(map[string]*ventana),
		now:     time.Now,
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() *RateLimiter {
	return NewRateLimiter(20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.")
}

// permitir counts one request for ip and reports whether it is within the limit.
func (rl *RateLimiter) permitir(ip string) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.ips[ip]
	if !ok || now.After(v.windowEnd) {
		v = &ventana{windowEnd: now.Add(rl.window)}
		rl.ips[ip] = v
	}
	v.count++
	return v.count <= rl.limit, v.windowEnd
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fin := rl.permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(rl.mensaje))
			return
		}
		c.Next()
	}
}

// purgar drops expired windows and returns how many were removed.
func (rl *RateLimiter) purgar() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	n := 0
	for ip, v := range rl.ips {
		if now.After(v.windowEnd) {
			delete(rl.ips, ip)
			n++
		}
	}
	return n
}

// StartPurge periodically removes expired entries until ctx is done, so IPs
// that never return do not accumulate.
func (rl *RateLimiter) StartPurge(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := rl.purgar(); n > 0 {
					log.Debug().Int("purged", n).Msg("rate limiter entries purged")
				}
			}
		}
	}()
}
