package repository

import (
	"context"
	"time"

	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoFilter defines filters for listing kardex entries.
type MovimientoFilter struct {
	ProductoID *uuid.UUID
	Tipo       string
	Desde      *time.Time
	Hasta      *time.Time // exclusive
	Page       int
	Limit      int
}

// MovimientoRepository is append-only: there is no Update or Delete.
type MovimientoRepository interface {
	CreateTx(tx *gorm.DB, m *model.Movimiento) error
	List(ctx context.Context, filter MovimientoFilter) ([]model.Movimiento, int64, error)
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Movimiento, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository {
	return &movimientoRepo{db: db}
}

func (r *movimientoRepo) CreateTx(tx *gorm.DB, m *model.Movimiento) error {
	return tx.Omit("Producto", "Usuario").Create(m).Error
}

func (r *movimientoRepo) List(ctx context.Context, filter MovimientoFilter) ([]model.Movimiento, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Movimiento{})
	if filter.ProductoID != nil {
		q = q.Where("producto_id = ?", *filter.ProductoID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Desde != nil {
		q = q.Where("fecha >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		q = q.Where("fecha < ?", *filter.Hasta)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := Pagina(filter.Page, filter.Limit)
	var movimientos []model.Movimiento
	err := q.Preload("Producto").Preload("Usuario").
		Order("fecha DESC").Offset(offset(page, limit)).Limit(limit).Find(&movimientos).Error
	return movimientos, total, err
}

func (r *movimientoRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Movimiento, error) {
	var movimientos []model.Movimiento
	err := r.db.WithContext(ctx).Preload("Usuario").
		Where("producto_id = ?", productoID).
		Order("fecha DESC").Find(&movimientos).Error
	return movimientos, err
}
