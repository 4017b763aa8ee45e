package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HistorialCostos godoc
// @Summary      Historial de costos de un producto
// @Description  Cambios de precio de compra producidos por compras, del más reciente al más antiguo.
// @Tags         inventario
// @Security     BearerAuth
// @Param        id    path     string  true  "UUID del producto"
// @Success      200   {array}  dto.HistorialCostoResponse
// @Failure      400   {object} apierror.APIError
// @Failure      404   {object} apierror.APIError
// @Router       /v1/productos/{id}/historial-costos [get]
func (h *InventarioHandler) HistorialCostos(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.HistorialCostos(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
