package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RangoFechas struct {
	Desde string `form:"desde"` // YYYY-MM-DD
	Hasta string `form:"hasta"` // YYYY-MM-DD, inclusive
	N     int    `form:"n"`
}

type TopProductoResponse struct {
	ProductoID      string          `json:"producto_id"`
	Nombre          string          `json:"nombre"`
	CantidadVendida decimal.Decimal `json:"cantidad_vendida"`
	Ingresos        decimal.Decimal `json:"ingresos"`
}

type TopClienteResponse struct {
	ClienteID    string          `json:"cliente_id"`
	Nombres      string          `json:"nombres"`
	NumCompras   int64           `json:"num_compras"`
	TotalGastado decimal.Decimal `json:"total_gastado"`
	VIP          bool            `json:"vip"`
}

type TopOperadorResponse struct {
	UsuarioID string          `json:"usuario_id"`
	Nombre    string          `json:"nombre"`
	NumVentas int64           `json:"num_ventas"`
	Ingresos  decimal.Decimal `json:"ingresos"`
}

// ReporteFinancieroResponse: margins use today's product cost, not the cost
// at the time of each sale.
type ReporteFinancieroResponse struct {
	Desde          time.Time       `json:"desde"`
	Hasta          time.Time       `json:"hasta"`
	NumVentas      int64           `json:"num_ventas"`
	IngresosBrutos decimal.Decimal `json:"ingresos_brutos"`
	MargenBruto    decimal.Decimal `json:"margen_bruto_estimado"`
	Descuentos     decimal.Decimal `json:"descuentos"`
	MargenNeto     decimal.Decimal `json:"margen_neto_estimado"`
}

type DashboardResponse struct {
	VentasHoyTotal decimal.Decimal `json:"ventas_hoy_total"`
	VentasHoyCount int64           `json:"ventas_hoy_count"`
	StockBajoCount int64           `json:"stock_bajo_count"`
	UltimasVentas  []VentaResponse `json:"ultimas_ventas"`
}
