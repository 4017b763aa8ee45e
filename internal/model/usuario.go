package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles de usuario.
const (
	RolAdmin    = "admin"
	RolEmpleado = "empleado"
)

// Usuario stores system users with role-based access.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	Nombre       string    `gorm:"type:varchar(150);not null"`
	Email        *string
	PasswordHash string  `gorm:"not null"`
	Rol          string  `gorm:"type:varchar(20);not null"`
	Cedula       *string `gorm:"type:varchar(20);uniqueIndex"`
	Telefono     *string `gorm:"type:varchar(15)"`
	Direccion    *string `gorm:"type:text"`
	Activo       bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }

func (u *Usuario) BeforeCreate(*gorm.DB) error {
	asignarID(&u.ID)
	return nil
}
