package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/diazinho777/Ferreteria-sistema/internal/dto"
	"github.com/diazinho777/Ferreteria-sistema/internal/middleware"
	"github.com/diazinho777/Ferreteria-sistema/internal/model"
	"github.com/diazinho777/Ferreteria-sistema/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type InventarioHandler struct {
	svc      service.InventarioService
	reportes service.ReporteService
}

func NewInventarioHandler(svc service.InventarioService, reportes service.ReporteService) *InventarioHandler {
	return &InventarioHandler{svc: svc, reportes: reportes}
}

// ReportarPerdida godoc
// @Summary      Reportar pérdida de stock
// @Description  Registra un ajuste negativo con el motivo indicado.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "UUID del producto"
// @Param        body body dto.AjusteStockRequest true "Cantidad y motivo"
// @Success      201  {object} dto.MovimientoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/productos/{id}/perdida [post]
func (h *InventarioHandler) ReportarPerdida(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.AjusteStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ReportarPerdida(c.Request.Context(), middleware.UsuarioID(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Ajustar posts a manual adjustment; tipo defaults to ajuste_pos.
func (h *InventarioHandler) Ajustar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.AjusteStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tipo := req.Tipo
	if tipo == "" {
		tipo = model.MovAjustePos
	}
	resp, err := h.svc.AjustarStock(c.Request.Context(), middleware.UsuarioID(c), id, tipo, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) Kardex(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Kardex(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimientos GET /v1/inventario/movimientos
func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alertas GET /v1/inventario/alertas
func (h *InventarioHandler) Alertas(c *gin.Context) {
	resp, err := h.svc.AlertasStockBajo(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar godoc
// @Summary      Exportar inventario a Excel
// @Tags         inventario
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200 {file} binary
// @Router       /v1/inventario/exportar [get]
func (h *InventarioHandler) Exportar(c *gin.Context) {
	// Buffered so a failure mid-way still gets a JSON error instead of a
	// truncated workbook.
	var buf bytes.Buffer
	if err := h.reportes.ExportarInventario(c.Request.Context(), &buf); err != nil {
		responderError(c, err)
		return
	}
	nombre := fmt.Sprintf("inventario_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
