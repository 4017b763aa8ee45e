package repository

import (
	"context"

	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProveedorRepository interface {
	Create(ctx context.Context, p *model.Proveedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Proveedor, error)
	FindByRUC(ctx context.Context, ruc string) (*model.Proveedor, error)
	List(ctx context.Context, q string) ([]model.Proveedor, error)
	Update(ctx context.Context, p *model.Proveedor) error
	Delete(ctx context.Context, id uuid.UUID) error
	TieneCompras(ctx context.Context, id uuid.UUID) (bool, error)
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) Create(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *proveedorRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	if err := tx.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proveedorRepo) FindByRUC(ctx context.Context, ruc string) (*model.Proveedor, error) {
	var p model.Proveedor
	if err := r.db.WithContext(ctx).First(&p, "ruc = ?", ruc).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proveedorRepo) List(ctx context.Context, q string) ([]model.Proveedor, error) {
	var proveedores []model.Proveedor
	query := r.db.WithContext(ctx).Order("empresa ASC")
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("LOWER(empresa) LIKE LOWER(?) OR ruc LIKE ?", like, like)
	}
	err := query.Find(&proveedores).Error
	return proveedores, err
}

func (r *proveedorRepo) Update(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *proveedorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Proveedor{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *proveedorRepo) TieneCompras(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Compra{}).Where("proveedor_id = ?", id).Count(&n).Error
	return n > 0, err
}
