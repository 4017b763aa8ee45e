package repository

import (
	"context"
	"time"

	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TopProducto struct {
	ProductoID      uuid.UUID
	Nombre          string
	CantidadVendida decimal.Decimal
	Ingresos        decimal.Decimal
}

type TopCliente struct {
	ClienteID    uuid.UUID
	Nombres      string
	NumCompras   int64
	TotalGastado decimal.Decimal
}

type TopOperador struct {
	UsuarioID uuid.UUID
	Nombre    string
	NumVentas int64
	Ingresos  decimal.Decimal
}

// Financiero aggregates sales in a date range. MargenBruto uses the
// product's current precio_compra.
type Financiero struct {
	NumVentas      int64
	IngresosBrutos decimal.Decimal
	Descuentos     decimal.Decimal
	MargenBruto    decimal.Decimal
}

// ReporteRepository holds read-only aggregate queries.
type ReporteRepository interface {
	TopProductos(ctx context.Context, desde, hasta time.Time, n int) ([]TopProducto, error)
	TopClientes(ctx context.Context, n int) ([]TopCliente, error)
	TopOperadores(ctx context.Context, desde, hasta time.Time, n int) ([]TopOperador, error)
	Financiero(ctx context.Context, desde, hasta time.Time) (*Financiero, error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

func (r *reporteRepo) TopProductos(ctx context.Context, desde, hasta time.Time, n int) ([]TopProducto, error) {
	var rows []TopProducto
	err := r.db.WithContext(ctx).
		Table("detalle_ventas AS d").
		Select("p.id AS producto_id, p.nombre AS nombre, SUM(d.cantidad) AS cantidad_vendida, SUM(d.subtotal) AS ingresos").
		Joins("JOIN ventas v ON v.id = d.venta_id").
		Joins("JOIN productos p ON p.id = d.producto_id").
		Where("v.fecha >= ? AND v.fecha < ?", desde, hasta).
		Group("p.id, p.nombre").
		Order("cantidad_vendida DESC, p.nombre ASC").
		Limit(n).
		Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) TopClientes(ctx context.Context, n int) ([]TopCliente, error) {
	var rows []TopCliente
	err := r.db.WithContext(ctx).
		Table("clientes AS c").
		Select("c.id AS cliente_id, c.nombres AS nombres, COUNT(v.id) AS num_compras, COALESCE(SUM(v.total), 0) AS total_gastado").
		Joins("JOIN ventas v ON v.cliente_id = c.id").
		Group("c.id, c.nombres").
		Order("num_compras DESC, total_gastado DESC").
		Limit(n).
		Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) TopOperadores(ctx context.Context, desde, hasta time.Time, n int) ([]TopOperador, error) {
	var rows []TopOperador
	err := r.db.WithContext(ctx).
		Table("usuarios AS u").
		Select("u.id AS usuario_id, u.nombre AS nombre, COUNT(v.id) AS num_ventas, COALESCE(SUM(v.total), 0) AS ingresos").
		Joins("JOIN ventas v ON v.usuario_id = u.id").
		Where("v.fecha >= ? AND v.fecha < ?", desde, hasta).
		Group("u.id, u.nombre").
		Order("ingresos DESC").
		Limit(n).
		Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) Financiero(ctx context.Context, desde, hasta time.Time) (*Financiero, error) {
	db := r.db.WithContext(ctx)
	var f Financiero

	err := db.Model(&model.Venta{}).
		Select("COUNT(*) AS num_ventas, COALESCE(SUM(total), 0) AS ingresos_brutos, COALESCE(SUM(descuento), 0) AS descuentos").
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Scan(&f).Error
	if err != nil {
		return nil, err
	}

	var margen struct{ MargenBruto decimal.Decimal }
	err = db.Table("detalle_ventas AS d").
		Select("COALESCE(SUM(d.subtotal - d.cantidad * p.precio_compra), 0) AS margen_bruto").
		Joins("JOIN ventas v ON v.id = d.venta_id").
		Joins("JOIN productos p ON p.id = d.producto_id").
		Where("v.fecha >= ? AND v.fecha < ?", desde, hasta).
		Scan(&margen).Error
	if err != nil {
		return nil, err
	}
	f.MargenBruto = margen.MargenBruto
	return &f, nil
}
