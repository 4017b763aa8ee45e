package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diazinho777/Ferreteria-sistema/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func motorConErrores() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Recovery(), ErrorHandler())
	r.GET("/interno", func(c *gin.Context) { _ = c.Error(errors.New("pq: connection refused")) })
	r.GET("/no-encontrado", func(c *gin.Context) { _ = c.Error(apierror.NotFound("Venta no encontrada")) })
	r.GET("/ya-escrito", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.JSON(http.StatusTeapot, gin.H{"ok": false})
	})
	r.GET("/panico", func(c *gin.Context) { panic("nil map") })
	return r
}

func TestErrorHandler(t *testing.T) {
	r := motorConErrores()

	casos := []struct {
		ruta   string
		status int
		body   string
	}{
		{"/interno", http.StatusInternalServerError, `{"detail":"Error interno del servidor"}`},
		{"/no-encontrado", http.StatusNotFound, `{"detail":"Venta no encontrada"}`},
		{"/ya-escrito", http.StatusTeapot, `{"ok":false}`},
		{"/panico", http.StatusInternalServerError, `{"detail":"Error interno del servidor"}`},
	}
	for _, tc := range casos {
		t.Run(tc.ruta, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.ruta, nil))
			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestRequestID(t *testing.T) {
	r := motorConErrores()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no-encontrado", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/no-encontrado", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
