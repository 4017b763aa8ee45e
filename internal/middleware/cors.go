package middleware

import (
	"github.com/gin-gonic/gin"
)

// CORS sets the cross-origin headers the cart widget needs. origen is the
// allowed origin ("*" in development).
func CORS(origen string) gin.HandlerFunc {
	if origen == "" {
		origen = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origen)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
		if origen != "*" {
			c.Header("Vary", "Origin")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
