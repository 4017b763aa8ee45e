package repository

import (
	"context"
	"time"

	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaFilter struct {
	Desde     *time.Time
	Hasta     *time.Time // exclusive
	UsuarioID *uuid.UUID
	ClienteID *uuid.UUID
	Page      int
	Limit     int
}

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	NextNumeroTx(tx *gorm.DB) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter VentaFilter) ([]model.Venta, int64, error)
	Ultimas(ctx context.Context, n int) ([]model.Venta, error)
	// Resumen returns Σ total and count of sales in [desde, hasta).
	Resumen(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

// Create inserts the header and its Items in tx.
func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Omit("Usuario", "Cliente").Create(v).Error
}

func (r *ventaRepo) NextNumeroTx(tx *gorm.DB) (int64, error) {
	return siguienteNumero(tx, "ventas_numero_seq", "ventas")
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC") }).
		Preload("Items.Producto").
		Preload("Usuario").
		Preload("Cliente").
		First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) List(ctx context.Context, filter VentaFilter) ([]model.Venta, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Venta{})
	if filter.Desde != nil {
		q = q.Where("fecha >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		q = q.Where("fecha < ?", *filter.Hasta)
	}
	if filter.UsuarioID != nil {
		q = q.Where("usuario_id = ?", *filter.UsuarioID)
	}
	if filter.ClienteID != nil {
		q = q.Where("cliente_id = ?", *filter.ClienteID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := Pagina(filter.Page, filter.Limit)
	var ventas []model.Venta
	err := q.Preload("Usuario").Preload("Cliente").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC") }).
		Preload("Items.Producto").
		Order("fecha DESC").Offset(offset(page, limit)).Limit(limit).Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) Ultimas(ctx context.Context, n int) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).Preload("Usuario").Preload("Cliente").
		Order("fecha DESC").Limit(n).Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) Resumen(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Num   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS num").
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Scan(&row).Error
	return row.Total, row.Num, err
}
