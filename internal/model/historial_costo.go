package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HistorialCosto records each purchase-driven change of a product's cost.
// Rows are immutable.
type HistorialCosto struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CompraID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CostoAnterior decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostoNuevo    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (HistorialCosto) TableName() string { return "historial_costos" }

func (h *HistorialCosto) BeforeCreate(*gorm.DB) error {
	asignarID(&h.ID)
	return nil
}
