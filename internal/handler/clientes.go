package handler

import (
	"net/http"

	"github.com/diazinho777/Ferreteria-sistema/internal/dto"
	"github.com/diazinho777/Ferreteria-sistema/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CrearRapido godoc
// @Summary Alta rápida de cliente desde el punto de venta
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearClienteRequest true "Cliente"
// @Success 201 {object} dto.ClienteRapidoResponse
// @Failure 400 {object} apierror.CarritoError
// @Router /v1/clientes/rapido [post]
func (h *ClientesHandler) CrearRapido(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindCarrito(c, &req) {
		return
	}
	resp, err := h.svc.CrearRapido(c.Request.Context(), req)
	if err != nil {
		responderCarrito(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Buscar godoc
// @Summary Autocompletado de clientes por nombre o cédula/RUC
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param q query string true "Texto a buscar (mínimo 2 caracteres)"
// @Success 200 {array} dto.ClienteOpcion
// @Router /v1/clientes/buscar [get]
func (h *ClientesHandler) Buscar(c *gin.Context) {
	resp, err := h.svc.Buscar(c.Request.Context(), c.Query("q"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), c.Query("q"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Obtener(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
