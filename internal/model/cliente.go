package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente is an optional party on a Venta. CedulaRUC is unique when present.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombres   string    `gorm:"type:varchar(150);index;not null"`
	CedulaRUC *string   `gorm:"column:cedula_ruc;type:varchar(20);uniqueIndex"`
	Telefono  *string   `gorm:"type:varchar(20)"`
	Email     *string
	Direccion *string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }

func (c *Cliente) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID)
	return nil
}

// Texto is the label shown by the cart widget: "Nombres (cedula)" or "Nombres (S/C)".
func (c *Cliente) Texto() string {
	doc := "S/C"
	if c.CedulaRUC != nil && *c.CedulaRUC != "" {
		doc = *c.CedulaRUC
	}
	return c.Nombres + " (" + doc + ")"
}
