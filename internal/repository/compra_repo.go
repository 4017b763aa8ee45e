package repository

import (
	"context"
	"time"

	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompraFilter struct {
	Desde       *time.Time
	Hasta       *time.Time // exclusive
	ProveedorID *uuid.UUID
	Page        int
	Limit       int
}

type CompraRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error
	NextNumeroTx(tx *gorm.DB) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	List(ctx context.Context, filter CompraFilter) ([]model.Compra, int64, error)
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error {
	return tx.WithContext(ctx).Omit("Proveedor", "Usuario").Create(c).Error
}

func (r *compraRepo) NextNumeroTx(tx *gorm.DB) (int64, error) {
	return siguienteNumero(tx, "compras_numero_seq", "compras")
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC") }).
		Preload("Items.Producto").
		Preload("Proveedor").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *compraRepo) List(ctx context.Context, filter CompraFilter) ([]model.Compra, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Compra{})
	if filter.Desde != nil {
		q = q.Where("fecha >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		q = q.Where("fecha < ?", *filter.Hasta)
	}
	if filter.ProveedorID != nil {
		q = q.Where("proveedor_id = ?", *filter.ProveedorID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := Pagina(filter.Page, filter.Limit)
	var compras []model.Compra
	err := q.Preload("Proveedor").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC") }).
		Preload("Items.Producto").
		Order("fecha DESC").Offset(offset(page, limit)).Limit(limit).Find(&compras).Error
	return compras, total, err
}
