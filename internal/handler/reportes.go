package handler

import (
	"net/http"

	"github.com/diazinho777/Ferreteria-sistema/internal/dto"
	"github.com/diazinho777/Ferreteria-sistema/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Dashboard godoc
// @Summary      Resumen del día
// @Description  Ventas de hoy, productos bajo mínimo y últimas cinco ventas.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.DashboardResponse
// @Router       /v1/dashboard [get]
func (h *ReportesHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Financiero godoc
// @Summary      Reporte financiero
// @Description  Ingresos, descuentos y margen estimado del rango. Sin fechas usa el mes en curso.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        desde query string false "YYYY-MM-DD"
// @Param        hasta query string false "YYYY-MM-DD (inclusive)"
// @Success      200 {object} dto.ReporteFinancieroResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reportes/financiero [get]
func (h *ReportesHandler) Financiero(c *gin.Context) {
	var rango dto.RangoFechas
	if !bindQuery(c, &rango) {
		return
	}
	resp, err := h.svc.Financiero(c.Request.Context(), rango)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) TopProductos(c *gin.Context) {
	var rango dto.RangoFechas
	if !bindQuery(c, &rango) {
		return
	}
	resp, err := h.svc.TopProductos(c.Request.Context(), rango)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) TopClientes(c *gin.Context) {
	var rango dto.RangoFechas
	if !bindQuery(c, &rango) {
		return
	}
	resp, err := h.svc.TopClientes(c.Request.Context(), rango.N)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) TopOperadores(c *gin.Context) {
	var rango dto.RangoFechas
	if !bindQuery(c, &rango) {
		return
	}
	resp, err := h.svc.TopOperadores(c.Request.Context(), rango)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
