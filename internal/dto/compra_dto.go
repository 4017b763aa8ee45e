package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegistrarCompraRequest struct {
	Items       []ItemCarrito   `json:"items"        validate:"dive"`
	Total       decimal.Decimal `json:"total"        validate:"gte=0"`
	IDProveedor string          `json:"id_proveedor"`
}

type CompraRegistradaResponse struct {
	Status   string `json:"status"`
	IDCompra string `json:"id_compra"`
	Numero   int64  `json:"numero"`
}

type DetalleCompraResponse struct {
	ProductoID    string          `json:"producto_id"`
	Producto      string          `json:"producto"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type CompraResponse struct {
	ID          string                  `json:"id"`
	Numero      int64                   `json:"numero"`
	Fecha       time.Time               `json:"fecha"`
	ProveedorID string                  `json:"proveedor_id"`
	Proveedor   string                  `json:"proveedor,omitempty"`
	UsuarioID   string                  `json:"usuario_id"`
	Total       decimal.Decimal         `json:"total"`
	Items       []DetalleCompraResponse `json:"items"`
}

type CompraFilter struct {
	Desde       string `form:"desde"`
	Hasta       string `form:"hasta"`
	ProveedorID string `form:"proveedor_id"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}

type CompraListResponse struct {
	Data       []CompraResponse `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}
