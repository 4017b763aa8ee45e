package repository

import (
	"context"

	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistorialCostoRepository stores the audit trail of purchase-driven cost
// changes. Rows are never updated.
type HistorialCostoRepository interface {
	CreateTx(tx *gorm.DB, h *model.HistorialCosto) error
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.HistorialCosto, error)
}

type historialCostoRepo struct{ db *gorm.DB }

func NewHistorialCostoRepository(db *gorm.DB) HistorialCostoRepository {
	return &historialCostoRepo{db: db}
}

func (r *historialCostoRepo) CreateTx(tx *gorm.DB, h *model.HistorialCosto) error {
	return tx.Omit("Producto").Create(h).Error
}

func (r *historialCostoRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.HistorialCosto, error) {
	var list []model.HistorialCosto
	err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
