package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemCarrito is one cart line as sent by the widget: product id, quantity and
// unit price (sale price for ventas, cost for compras).
type ItemCarrito struct {
	ID       string          `json:"id"       validate:"required"`
	Cantidad decimal.Decimal `json:"cantidad" validate:"required,gt=0"`
	Precio   decimal.Decimal `json:"precio"   validate:"gte=0"`
}

type RegistrarVentaRequest struct {
	Items     []ItemCarrito   `json:"items"      validate:"dive"`
	Total     decimal.Decimal `json:"total"      validate:"gte=0"`
	IDCliente *string         `json:"id_cliente"`
	Descuento decimal.Decimal `json:"descuento"  validate:"gte=0"`
}

// VentaRegistradaResponse is the widget success envelope.
type VentaRegistradaResponse struct {
	Status  string `json:"status"`
	IDVenta string `json:"id_venta"`
	Numero  int64  `json:"numero"`
}

type DetalleVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID        string                 `json:"id"`
	Numero    int64                  `json:"numero"`
	Fecha     time.Time              `json:"fecha"`
	UsuarioID string                 `json:"usuario_id"`
	Usuario   string                 `json:"usuario,omitempty"`
	ClienteID *string                `json:"cliente_id"`
	Cliente   string                 `json:"cliente,omitempty"`
	Descuento decimal.Decimal        `json:"descuento"`
	Total     decimal.Decimal        `json:"total"`
	Items     []DetalleVentaResponse `json:"items"`
}

type VentaFilter struct {
	Desde     string `form:"desde"` // YYYY-MM-DD
	Hasta     string `form:"hasta"` // YYYY-MM-DD, inclusive
	UsuarioID string `form:"usuario_id"`
	ClienteID string `form:"cliente_id"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

type VentaListResponse struct {
	Data       []VentaResponse `json:"data"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}
