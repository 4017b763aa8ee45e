package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/diazinho777/Ferreteria-sistema/internal/dto"
	"github.com/diazinho777/Ferreteria-sistema/internal/middleware"
	"github.com/diazinho777/Ferreteria-sistema/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// RegistrarVenta godoc
// @Summary      Registrar una nueva venta
// @Description  Confirma el carrito en una sola transacción: bloquea los productos, verifica stock, descuenta y registra la salida en el kardex.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVentaRequest true "Carrito"
// @Success      201  {object} dto.VentaRegistradaResponse
// @Failure      400  {object} apierror.CarritoError
// @Failure      404  {object} apierror.CarritoError
// @Failure      409  {object} apierror.CarritoError
// @Router       /v1/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindCarrito(c, &req) {
		return
	}

	resp, err := h.svc.RegistrarVenta(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		responderCarrito(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerVenta GET /v1/ventas/:id
func (h *VentasHandler) ObtenerVenta(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Description  Lista paginada, la más reciente primero.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        desde      query string false "Fecha inicial YYYY-MM-DD"
// @Param        hasta      query string false "Fecha final YYYY-MM-DD (inclusive)"
// @Param        usuario_id query string false "Operador"
// @Param        cliente_id query string false "Cliente"
// @Param        page       query int    false "Página (default 1)"
// @Param        limit      query int    false "Registros por página (default 50)"
// @Success      200    {object} dto.VentaListResponse
// @Failure      400    {object} apierror.APIError
// @Router       /v1/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarVentas(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ticket godoc
// @Summary      Ticket de venta en PDF
// @Tags         ventas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id}/ticket [get]
func (h *VentasHandler) Ticket(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.TicketPDF(c.Request.Context(), id, &buf); err != nil {
		responderError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="ticket_%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
