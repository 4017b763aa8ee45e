package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Venta is a sale header. Total and Descuento are stored as sent by the
// client; lines are never edited after creation.
type Venta struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Numero    int64           `gorm:"uniqueIndex;not null"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClienteID *uuid.UUID      `gorm:"type:uuid;index"`
	Descuento decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Fecha     time.Time       `gorm:"<-:create;not null;index"`

	Usuario *Usuario       `gorm:"foreignKey:UsuarioID"`
	Cliente *Cliente       `gorm:"foreignKey:ClienteID"`
	Items   []DetalleVenta `gorm:"foreignKey:VentaID"`
}

func (Venta) TableName() string { return "ventas" }

func (v *Venta) BeforeCreate(*gorm.DB) error {
	asignarID(&v.ID)
	if v.Fecha.IsZero() {
		v.Fecha = time.Now()
	}
	return nil
}

// DetalleVenta is one sale line. Subtotal is always cantidad × precio_unitario.
type DetalleVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Orden          int             `gorm:"not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleVenta) TableName() string { return "detalle_ventas" }

func (d *DetalleVenta) BeforeCreate(*gorm.DB) error {
	asignarID(&d.ID)
	return nil
}

// BeforeSave recomputes the derived subtotal on every write.
func (d *DetalleVenta) BeforeSave(*gorm.DB) error {
	d.CalcularSubtotal()
	return nil
}

func (d *DetalleVenta) CalcularSubtotal() {
	d.Subtotal = d.Cantidad.Mul(d.PrecioUnitario)
}

// SumaSubtotales returns Σ line subtotals, recomputed from quantity and price.
func (v *Venta) SumaSubtotales() decimal.Decimal {
	suma := decimal.Zero
	for i := range v.Items {
		suma = suma.Add(v.Items[i].Cantidad.Mul(v.Items[i].PrecioUnitario))
	}
	return suma
}
