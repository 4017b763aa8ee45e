package handler

import (
	"net/http"

	"github.com/diazinho777/Ferreteria-sistema/internal/dto"
	"github.com/diazinho777/Ferreteria-sistema/internal/middleware"
	"github.com/diazinho777/Ferreteria-sistema/internal/service"

	"github.com/gin-gonic/gin"
)

type ComprasHandler struct{ svc service.CompraService }

func NewComprasHandler(svc service.CompraService) *ComprasHandler { return &ComprasHandler{svc: svc} }

// RegistrarCompra godoc
// @Summary      Registrar una compra a proveedor
// @Description  Ingresa el stock comprado y actualiza el precio de compra de cada producto.
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarCompraRequest true "Carrito de compra"
// @Success      201  {object} dto.CompraRegistradaResponse
// @Failure      400  {object} apierror.CarritoError
// @Failure      404  {object} apierror.CarritoError
// @Router       /v1/compras [post]
func (h *ComprasHandler) RegistrarCompra(c *gin.Context) {
	var req dto.RegistrarCompraRequest
	if !bindCarrito(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarCompra(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		responderCarrito(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ComprasHandler) ObtenerCompra(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerCompra(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ComprasHandler) ListarCompras(c *gin.Context) {
	var filter dto.CompraFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarCompras(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
