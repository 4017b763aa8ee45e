package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tipos de movimiento de inventario.
const (
	MovEntrada   = "entrada"
	MovSalida    = "salida"
	MovAjustePos = "ajuste_pos"
	MovAjusteNeg = "ajuste_neg"
)

// ErrMovimientoInmutable is returned by the GORM hooks on any attempt to
// update or delete a kardex row.
var ErrMovimientoInmutable = errors.New("los movimientos de inventario no se modifican ni eliminan")

// Movimiento is a kardex entry: one stock change and its cause. Cantidad is
// always positive; the direction comes from Tipo.
type Movimiento struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo          string          `gorm:"type:varchar(20);not null;index"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockAnterior decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockNuevo    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Descripcion   string          `gorm:"type:varchar(255)"`
	ReferenciaID  *uuid.UUID      `gorm:"type:uuid;index"` // venta_id or compra_id
	Fecha         time.Time       `gorm:"not null;index"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Usuario  *Usuario  `gorm:"foreignKey:UsuarioID"`
}

// TableName keeps the Spanish plural.
func (Movimiento) TableName() string { return "movimientos" }

func (m *Movimiento) BeforeCreate(*gorm.DB) error {
	asignarID(&m.ID)
	if m.Fecha.IsZero() {
		m.Fecha = time.Now()
	}
	return nil
}

func (m *Movimiento) BeforeUpdate(*gorm.DB) error { return ErrMovimientoInmutable }

func (m *Movimiento) BeforeDelete(*gorm.DB) error { return ErrMovimientoInmutable }

// Signo returns +1 for stock-increasing types and -1 for decreasing ones.
func Signo(tipo string) (int, bool) {
	switch tipo {
	case MovEntrada, MovAjustePos:
		return 1, true
	case MovSalida, MovAjusteNeg:
		return -1, true
	}
	return 0, false
}
