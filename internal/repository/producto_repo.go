package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoFilter narrows product listings.
type ProductoFilter struct {
	Q           string
	CategoriaID *uuid.UUID
	SoloActivos bool
	Page        int
	Limit       int
}

// ProductoRepository defines the data access contract for products.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	CreateTx(tx *gorm.DB, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, filter ProductoFilter) ([]model.Producto, int64, error)
	ListActivos(ctx context.Context) ([]model.Producto, error)
	// Update writes catalogue fields; stock is never part of the update.
	Update(ctx context.Context, p *model.Producto) error
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
	ListStockBajo(ctx context.Context) ([]model.Producto, error)
	CountStockBajo(ctx context.Context) (int64, error)

	// Used inside transactions; callers must pass the tx instance.

	// LockForUpdateTx loads the given products with SELECT … FOR UPDATE, in
	// ascending id order so concurrent carts always lock in the same sequence.
	LockForUpdateTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.Producto, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, stock decimal.Decimal) error
	UpdateCostoTx(tx *gorm.DB, id uuid.UUID, costo decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) CreateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Preload("Categoria").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) List(ctx context.Context, filter ProductoFilter) ([]model.Producto, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Producto{})
	if filter.SoloActivos {
		q = q.Where("activo = ?", true)
	}
	if filter.CategoriaID != nil {
		q = q.Where("categoria_id = ?", *filter.CategoriaID)
	}
	if s := strings.TrimSpace(filter.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(nombre) LIKE ? OR CAST(id AS TEXT) LIKE ?", like, strings.ToLower(s)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := Pagina(filter.Page, filter.Limit)
	var productos []model.Producto
	err := q.Preload("Categoria").Order("nombre ASC").
		Offset(offset(page, limit)).Limit(limit).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListActivos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Preload("Categoria").
		Where("activo = ?", true).Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Model(p).
		Select("nombre", "descripcion", "categoria_id", "unidad", "precio_compra",
			"precio_venta", "stock_minimo", "imagen", "updated_at").
		Updates(p).Error
}

func (r *productoRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", activo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productoRepo) stockBajo(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("activo = ? AND stock <= stock_minimo", true)
}

func (r *productoRepo) ListStockBajo(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.stockBajo(ctx).Order("stock ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) CountStockBajo(ctx context.Context) (int64, error) {
	var n int64
	err := r.stockBajo(ctx).Count(&n).Error
	return n, err
}

func (r *productoRepo) LockForUpdateTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.Producto, error) {
	unicos := make([]uuid.UUID, 0, len(ids))
	vistos := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !vistos[id] {
			vistos[id] = true
			unicos = append(unicos, id)
		}
	}
	sort.Slice(unicos, func(i, j int) bool { return unicos[i].String() < unicos[j].String() })

	var productos []model.Producto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", unicos).Order("id ASC").Find(&productos).Error
	if err != nil {
		return nil, err
	}
	res := make(map[uuid.UUID]*model.Producto, len(productos))
	for i := range productos {
		res[productos[i].ID] = &productos[i]
	}
	return res, nil
}

func (r *productoRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, stock decimal.Decimal) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("stock", stock).Error
}

func (r *productoRepo) UpdateCostoTx(tx *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("precio_compra", costo).Error
}
