package dto

import "github.com/shopspring/decimal"

type CrearClienteRequest struct {
	Nombres   string  `json:"nombres"    validate:"required,min=2,max=150"`
	CedulaRUC *string `json:"cedula_ruc" validate:"omitempty,max=20"`
	Telefono  *string `json:"telefono"   validate:"omitempty,max=20"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	Direccion *string `json:"direccion"`
}

type ClienteResponse struct {
	ID           string          `json:"id"`
	Nombres      string          `json:"nombres"`
	CedulaRUC    *string         `json:"cedula_ruc"`
	Telefono     *string         `json:"telefono"`
	Email        *string         `json:"email"`
	Direccion    *string         `json:"direccion"`
	NumCompras   int64           `json:"num_compras"`
	TotalGastado decimal.Decimal `json:"total_gastado"`
	VIP          bool            `json:"vip"`
}

// ClienteOpcion is one option of the cart widget customer picker.
type ClienteOpcion struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	NumCompras int64  `json:"num_compras"`
	VIP        bool   `json:"vip"`
}

// ClienteRapidoResponse answers the widget's inline customer creation.
type ClienteRapidoResponse struct {
	Status  string        `json:"status"`
	Cliente ClienteOpcion `json:"cliente"`
}
