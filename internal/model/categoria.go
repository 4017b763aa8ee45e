package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Categoria groups products. Deleting one leaves its products uncategorized.
type Categoria struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre      string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Descripcion *string   `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Categoria) TableName() string { return "categorias" }

func (c *Categoria) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID)
	return nil
}
