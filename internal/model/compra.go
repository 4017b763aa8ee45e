package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Compra is a purchase header from a Proveedor. Posting it increases stock.
type Compra struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Numero      int64           `gorm:"uniqueIndex;not null"`
	ProveedorID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Fecha       time.Time       `gorm:"<-:create;not null;index"`

	Proveedor *Proveedor      `gorm:"foreignKey:ProveedorID"`
	Usuario   *Usuario        `gorm:"foreignKey:UsuarioID"`
	Items     []DetalleCompra `gorm:"foreignKey:CompraID"`
}

func (Compra) TableName() string { return "compras" }

func (c *Compra) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID)
	if c.Fecha.IsZero() {
		c.Fecha = time.Now()
	}
	return nil
}

// DetalleCompra is one purchase line; CostoUnitario becomes the product's cost.
type DetalleCompra struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompraID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Orden         int             `gorm:"not null"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleCompra) TableName() string { return "detalle_compras" }

func (d *DetalleCompra) BeforeCreate(*gorm.DB) error {
	asignarID(&d.ID)
	return nil
}

func (d *DetalleCompra) BeforeSave(*gorm.DB) error {
	d.Subtotal = d.Cantidad.Mul(d.CostoUnitario)
	return nil
}
