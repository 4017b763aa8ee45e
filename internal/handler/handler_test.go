package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diazinho777/Ferreteria-sistema/internal/apierror"
	"github.com/diazinho777/Ferreteria-sistema/internal/dto"
	"github.com/diazinho777/Ferreteria-sistema/internal/middleware"
	"github.com/diazinho777/Ferreteria-sistema/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Fakes ────────────────────────────────────────────────────────────────────
// Embedding the interface leaves every method not under test nil.

type fakeVentas struct {
	service.VentaService
	registrar func(req dto.RegistrarVentaRequest) (*dto.VentaRegistradaResponse, error)
	usuario   uuid.UUID
}

func (f *fakeVentas) RegistrarVenta(_ context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaRegistradaResponse, error) {
	f.usuario = usuarioID
	return f.registrar(req)
}

func (f *fakeVentas) TicketPDF(_ context.Context, id uuid.UUID, w io.Writer) error {
	if id == uuid.Nil {
		return apierror.NotFound("Venta no encontrada")
	}
	_, err := w.Write([]byte("%PDF-1.3 fake"))
	return err
}

type fakeProductos struct {
	service.ProductoService
	consultas int
}

func (f *fakeProductos) Consultar(_ context.Context, id uuid.UUID) (*dto.ConsultaProductoResponse, error) {
	f.consultas++
	return &dto.ConsultaProductoResponse{Encontrado: true, ID: id.String(), Nombre: "Martillo"}, nil
}

type fakeClientes struct {
	service.ClienteService
}

func (fakeClientes) Buscar(_ context.Context, q string) ([]dto.ClienteOpcion, error) {
	if len(q) < 2 {
		return []dto.ClienteOpcion{}, nil
	}
	return []dto.ClienteOpcion{{ID: uuid.NewString(), Text: "Ana (S/C)"}}, nil
}

func (fakeClientes) CrearRapido(_ context.Context, req dto.CrearClienteRequest) (*dto.ClienteRapidoResponse, error) {
	return &dto.ClienteRapidoResponse{Status: "ok", Cliente: dto.ClienteOpcion{ID: uuid.NewString(), Text: req.Nombres + " (S/C)"}}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

var usuarioPrueba = uuid.New()

// autenticado stands in for JWTAuth.
func autenticado(c *gin.Context) {
	c.Set(middleware.ClaimsKey, &middleware.JWTClaims{UserID: usuarioPrueba.String(), Rol: "empleado", Tipo: "access"})
	c.Next()
}

func enviar(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func motorVentas(svc service.VentaService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler(), autenticado)
	h := NewVentasHandler(svc)
	r.POST("/v1/ventas", h.RegistrarVenta)
	r.GET("/v1/ventas/:id/ticket", h.Ticket)
	return r
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestRegistrarVenta_Envelopes(t *testing.T) {
	carrito := map[string]any{
		"items": []map[string]any{{"id": uuid.NewString(), "cantidad": 2, "precio": 10}},
		"total": 20,
	}

	casos := []struct {
		nombre string
		body   any
		err    error
		status int
		want   string
	}{
		{"ok", carrito, nil, http.StatusCreated, ""},
		{"json roto", `{"items": [`, nil, http.StatusBadRequest, `{"status":"error","mensaje":"Datos inválidos"}`},
		{"validación", carrito, apierror.Validation("El carrito está vacío"), http.StatusBadRequest, `{"status":"error","mensaje":"El carrito está vacío"}`},
		{"no encontrado", carrito, apierror.NotFound("Producto no encontrado"), http.StatusNotFound, `{"status":"error","mensaje":"Producto no encontrado"}`},
		{"stock", carrito, apierror.InsufficientStock("Martillo"), http.StatusConflict, `{"status":"error","mensaje":"Stock insuficiente para Martillo"}`},
		{"interno", carrito, errors.New("deadlock detected"), http.StatusInternalServerError, `{"status":"error","mensaje":"Error interno del servidor"}`},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			fake := &fakeVentas{registrar: func(req dto.RegistrarVentaRequest) (*dto.VentaRegistradaResponse, error) {
				if tc.err != nil {
					return nil, tc.err
				}
				return &dto.VentaRegistradaResponse{Status: "ok", IDVenta: "v-1", Numero: 1}, nil
			}}
			w := enviar(t, motorVentas(fake), http.MethodPost, "/v1/ventas", tc.body)
			assert.Equal(t, tc.status, w.Code)
			if tc.want != "" {
				assert.JSONEq(t, tc.want, w.Body.String())
			}
			if tc.status == http.StatusCreated {
				assert.JSONEq(t, `{"status":"ok","id_venta":"v-1","numero":1}`, w.Body.String())
				assert.Equal(t, usuarioPrueba, fake.usuario)
			}
		})
	}
}

func TestRegistrarVenta_CantidadCeroNoLlegaAlServicio(t *testing.T) {
	llamado := false
	fake := &fakeVentas{registrar: func(dto.RegistrarVentaRequest) (*dto.VentaRegistradaResponse, error) {
		llamado = true
		return nil, nil
	}}
	w := enviar(t, motorVentas(fake), http.MethodPost, "/v1/ventas", map[string]any{
		"items": []map[string]any{{"id": uuid.NewString(), "cantidad": 0, "precio": 10}},
		"total": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"error"`)
	assert.False(t, llamado)
}

func TestRegistrarVenta_MensajeEstableConVariosErrores(t *testing.T) {
	r := motorVentas(&fakeVentas{})
	carrito := map[string]any{
		"items": []map[string]any{{"id": "", "cantidad": 0, "precio": -1}},
		"total": -5,
	}
	for i := 0; i < 20; i++ {
		w := enviar(t, r, http.MethodPost, "/v1/ventas", carrito)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"status":"error","mensaje":"Dato inválido en RegistrarVentaRequest.Items[0].ID (required)"}`, w.Body.String())
	}
}

func TestTicket(t *testing.T) {
	r := motorVentas(&fakeVentas{})

	w := enviar(t, r, http.MethodGet, "/v1/ventas/"+uuid.NewString()+"/ticket", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ticket_")

	w = enviar(t, r, http.MethodGet, "/v1/ventas/"+uuid.Nil.String()+"/ticket", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Venta no encontrada"}`, w.Body.String())

	w = enviar(t, r, http.MethodGet, "/v1/ventas/xyz/ticket", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"ID inválido"}`, w.Body.String())
}

func TestConsultarProducto(t *testing.T) {
	fake := &fakeProductos{}
	r := gin.New()
	r.GET("/v1/productos/:id/consulta", NewConsultaProductoHandler(fake).Consultar)

	w := enviar(t, r, http.MethodGet, "/v1/productos/no-uuid/consulta", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"encontrado":false}`, w.Body.String())
	assert.Zero(t, fake.consultas)

	id := uuid.NewString()
	w = enviar(t, r, http.MethodGet, "/v1/productos/"+id+"/consulta", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id)
}

func TestClientesWidget(t *testing.T) {
	h := NewClientesHandler(fakeClientes{})
	r := gin.New()
	r.GET("/v1/clientes/buscar", h.Buscar)
	r.POST("/v1/clientes/rapido", h.CrearRapido)

	w := enviar(t, r, http.MethodGet, "/v1/clientes/buscar?q=a", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = enviar(t, r, http.MethodPost, "/v1/clientes/rapido", map[string]any{"nombres": "Ana"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"text":"Ana (S/C)"`)

	w = enviar(t, r, http.MethodPost, "/v1/clientes/rapido", map[string]any{"nombres": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"error"`)
}

func TestBindAndValidate_422(t *testing.T) {
	r := gin.New()
	r.POST("/v1/categorias", NewCategoriasHandler(nil).Crear)

	w := enviar(t, r, http.MethodPost, "/v1/categorias", map[string]any{"nombre": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body apierror.ValidationError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "min", body.Fields["CrearCategoriaRequest.Nombre"])
}
