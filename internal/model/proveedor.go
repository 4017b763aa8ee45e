package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Proveedor is a supplier; RUC is the tax id and must be unique.
type Proveedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Empresa   string    `gorm:"type:varchar(100);not null"`
	RUC       string    `gorm:"column:ruc;type:varchar(20);uniqueIndex;not null"`
	Email     *string
	Telefono  *string `gorm:"type:varchar(20)"`
	Direccion *string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Proveedor) TableName() string { return "proveedores" }

func (p *Proveedor) BeforeCreate(*gorm.DB) error {
	asignarID(&p.ID)
	return nil
}
