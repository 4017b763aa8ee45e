package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AjusteStockRequest reports a loss (ajuste_neg) or a found surplus (ajuste_pos).
// Tipo is only read by the generic adjustment endpoint; a loss is always ajuste_neg.
type AjusteStockRequest struct {
	Tipo     string          `json:"tipo"     validate:"omitempty,oneof=ajuste_pos ajuste_neg"`
	Cantidad decimal.Decimal `json:"cantidad"`
	Motivo   string          `json:"motivo"   validate:"required,min=3,max=200"`
}

type MovimientoResponse struct {
	ID            string          `json:"id"`
	ProductoID    string          `json:"producto_id"`
	Producto      string          `json:"producto,omitempty"`
	UsuarioID     string          `json:"usuario_id"`
	Usuario       string          `json:"usuario,omitempty"`
	Tipo          string          `json:"tipo"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	StockAnterior decimal.Decimal `json:"stock_anterior"`
	StockNuevo    decimal.Decimal `json:"stock_nuevo"`
	Descripcion   string          `json:"descripcion"`
	ReferenciaID  *string         `json:"referencia_id"`
	Fecha         time.Time       `json:"fecha"`
}

type MovimientoFilter struct {
	ProductoID string `form:"producto_id"`
	Tipo       string `form:"tipo"`
	Desde      string `form:"desde"`
	Hasta      string `form:"hasta"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

type MovimientoListResponse struct {
	Data       []MovimientoResponse `json:"data"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

// KardexResponse is the full movement history of one product.
type KardexResponse struct {
	Producto    ProductoResponse     `json:"producto"`
	Movimientos []MovimientoResponse `json:"movimientos"`
}

type AlertaStockResponse struct {
	ProductoID  string          `json:"producto_id"`
	Nombre      string          `json:"nombre"`
	Stock       decimal.Decimal `json:"stock"`
	StockMinimo decimal.Decimal `json:"stock_minimo"`
	Faltante    decimal.Decimal `json:"faltante"`
}

type HistorialCostoResponse struct {
	ID            string          `json:"id"`
	ProductoID    string          `json:"producto_id"`
	CompraID      string          `json:"compra_id"`
	CostoAnterior decimal.Decimal `json:"costo_anterior"`
	CostoNuevo    decimal.Decimal `json:"costo_nuevo"`
	Fecha         time.Time       `json:"fecha"`
}
