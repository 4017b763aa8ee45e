package repository

import (
	"context"
	"strings"

	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClienteConEstadisticas is a customer annotated with its sales history.
type ClienteConEstadisticas struct {
	model.Cliente
	NumCompras   int64
	TotalGastado decimal.Decimal
}

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cliente, error)
	FindByCedula(ctx context.Context, cedula string) (*model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Buscar matches nombres or cedula_ruc, up to limit rows.
	Buscar(ctx context.Context, q string, limit int) ([]ClienteConEstadisticas, error)
	ListConEstadisticas(ctx context.Context, q string) ([]ClienteConEstadisticas, error)
	FindConEstadisticas(ctx context.Context, id uuid.UUID) (*ClienteConEstadisticas, error)
	TieneVentas(ctx context.Context, id uuid.UUID) (bool, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *clienteRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	if err := tx.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) FindByCedula(ctx context.Context, cedula string) (*model.Cliente, error) {
	var c model.Cliente
	if err := r.db.WithContext(ctx).First(&c, "cedula_ruc = ?", cedula).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Cliente{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// conEstadisticas selects clientes plus the count and sum of their ventas.
func (r *clienteRepo) conEstadisticas(ctx context.Context, q string) *gorm.DB {
	query := r.db.WithContext(ctx).Table("clientes").
		Select("clientes.*, COUNT(ventas.id) AS num_compras, COALESCE(SUM(ventas.total), 0) AS total_gastado").
		Joins("LEFT JOIN ventas ON ventas.cliente_id = clientes.id").
		Group("clientes.id")
	if s := strings.TrimSpace(q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(clientes.nombres) LIKE ? OR LOWER(clientes.cedula_ruc) LIKE ?", like, like)
	}
	return query
}

func (r *clienteRepo) Buscar(ctx context.Context, q string, limit int) ([]ClienteConEstadisticas, error) {
	var rows []ClienteConEstadisticas
	err := r.conEstadisticas(ctx, q).Order("clientes.nombres ASC").Limit(limit).Scan(&rows).Error
	return rows, err
}

func (r *clienteRepo) ListConEstadisticas(ctx context.Context, q string) ([]ClienteConEstadisticas, error) {
	var rows []ClienteConEstadisticas
	err := r.conEstadisticas(ctx, q).Order("num_compras DESC, clientes.nombres ASC").Scan(&rows).Error
	return rows, err
}

// FindConEstadisticas returns gorm.ErrRecordNotFound when the customer does not exist.
func (r *clienteRepo) FindConEstadisticas(ctx context.Context, id uuid.UUID) (*ClienteConEstadisticas, error) {
	var rows []ClienteConEstadisticas
	if err := r.conEstadisticas(ctx, "").Where("clientes.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *clienteRepo) TieneVentas(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Venta{}).Where("cliente_id = ?", id).Count(&n).Error
	return n > 0, err
}
