package handler

import (
	"net/http"

	"github.com/diazinho777/Ferreteria-sistema/internal/dto"
	"github.com/diazinho777/Ferreteria-sistema/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConsultaProductoHandler serves the point-of-sale product lookup. Answers
// come from the Redis lookup cache when available.
type ConsultaProductoHandler struct{ svc service.ProductoService }

func NewConsultaProductoHandler(svc service.ProductoService) *ConsultaProductoHandler {
	return &ConsultaProductoHandler{svc: svc}
}

// Consultar godoc
// @Summary Consulta rápida de precio y stock
// @Description Un producto inexistente responde 200 con encontrado=false.
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID del producto"
// @Success 200 {object} dto.ConsultaProductoResponse
// @Router /v1/productos/{id}/consulta [get]
func (h *ConsultaProductoHandler) Consultar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusOK, dto.ConsultaProductoResponse{Encontrado: false})
		return
	}

	resp, err := h.svc.Consultar(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
