package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Unidades de medida admitidas para Producto.Unidad.
const (
	UnidadPieza   = "unidad"
	UnidadMetro   = "metro"
	UnidadLitro   = "litro"
	UnidadGalon   = "galon"
	UnidadLibra   = "libra"
	UnidadKilo    = "kg"
	UnidadCaja    = "caja"
	UnidadDefault = UnidadPieza
)

// Producto is the sellable item. Stock is a cached counter: every change to it
// is paired with a Movimiento row written in the same transaction.
type Producto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Nombre       string          `gorm:"type:varchar(100);index;not null"`
	Descripcion  *string         `gorm:"type:text"`
	CategoriaID  *uuid.UUID      `gorm:"type:uuid;index"`
	Unidad       string          `gorm:"type:varchar(20);not null"`
	PrecioCompra decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioVenta  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock        decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockMinimo  decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Activo       bool            `gorm:"not null;default:true"`
	Imagen       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID;constraint:OnDelete:SET NULL"`
}

func (Producto) TableName() string { return "productos" }

func (p *Producto) BeforeCreate(*gorm.DB) error {
	asignarID(&p.ID)
	if p.Unidad == "" {
		p.Unidad = UnidadDefault
	}
	return nil
}

// StockBajo reports whether the product is at or under its minimum threshold.
func (p *Producto) StockBajo() bool {
	return p.Stock.LessThanOrEqual(p.StockMinimo)
}

// UnidadValida reports whether u is one of the supported units of measure.
func UnidadValida(u string) bool {
	switch u {
	case UnidadPieza, UnidadMetro, UnidadLitro, UnidadGalon, UnidadLibra, UnidadKilo, UnidadCaja:
		return true
	}
	return false
}

// asignarID fills a zero UUID. IDs are generated in Go so the schema does not
// depend on gen_random_uuid() and runs unchanged on SQLite.
func asignarID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
