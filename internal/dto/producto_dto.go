package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	Nombre       string           `json:"nombre"        validate:"required,min=2,max=100"`
	Descripcion  *string          `json:"descripcion"`
	CategoriaID  *string          `json:"categoria_id"  validate:"omitempty,uuid"`
	Unidad       string           `json:"unidad"        validate:"omitempty,oneof=unidad metro litro galon libra kg caja"`
	PrecioCompra decimal.Decimal  `json:"precio_compra" validate:"gte=0"`
	PrecioVenta  decimal.Decimal  `json:"precio_venta"  validate:"gte=0"`
	StockInicial decimal.Decimal  `json:"stock_inicial" validate:"gte=0"`
	StockMinimo  *decimal.Decimal `json:"stock_minimo"`
	Imagen       *string          `json:"imagen"        validate:"omitempty,max=255"`
}

// ActualizarProductoRequest never touches stock; stock moves only through the
// kardex (sales, purchases, adjustments).
type ActualizarProductoRequest struct {
	Nombre       string           `json:"nombre"        validate:"omitempty,min=2,max=100"`
	Descripcion  *string          `json:"descripcion"`
	CategoriaID  *string          `json:"categoria_id"  validate:"omitempty,uuid"`
	Unidad       string           `json:"unidad"        validate:"omitempty,oneof=unidad metro litro galon libra kg caja"`
	PrecioCompra *decimal.Decimal `json:"precio_compra"`
	PrecioVenta  *decimal.Decimal `json:"precio_venta"`
	StockMinimo  *decimal.Decimal `json:"stock_minimo"`
	Imagen       *string          `json:"imagen"        validate:"omitempty,max=255"`
}

type ProductoFilter struct {
	Q           string `form:"q"`
	CategoriaID string `form:"categoria_id"`
	SoloActivos *bool  `form:"solo_activos"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}

type ProductoResponse struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	Descripcion  *string         `json:"descripcion"`
	CategoriaID  *string         `json:"categoria_id"`
	Categoria    *string         `json:"categoria"`
	Unidad       string          `json:"unidad"`
	PrecioCompra decimal.Decimal `json:"precio_compra"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	Stock        decimal.Decimal `json:"stock"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"`
	StockBajo    bool            `json:"stock_bajo"`
	Activo       bool            `json:"activo"`
	Imagen       *string         `json:"imagen"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// ConsultaProductoResponse is the cart widget lookup payload.
type ConsultaProductoResponse struct {
	Encontrado bool             `json:"encontrado"`
	ID         string           `json:"id,omitempty"`
	Nombre     string           `json:"nombre,omitempty"`
	Precio     *decimal.Decimal `json:"precio,omitempty"`
	Stock      *decimal.Decimal `json:"stock,omitempty"`
	Unidad     string           `json:"unidad,omitempty"`
}
