package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/diazinho777/Ferreteria-sistema/internal/config"
	"github.com/diazinho777/Ferreteria-sistema/internal/infra"
	"github.com/diazinho777/Ferreteria-sistema/internal/model"
	"github.com/diazinho777/Ferreteria-sistema/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// entorno is a fully wired service layer over an in-memory SQLite database.
// Redis is absent, so the lookup cache and the email queue are disabled.
type entorno struct {
	db      *gorm.DB
	usuario model.Usuario

	inventario  InventarioService
	productos   ProductoService
	categorias  CategoriaService
	proveedores ProveedorService
	clientes    ClienteService
	ventas      VentaService
	compras     CompraService
	reportes    ReporteService
	auth        AuthService
}

type opcionesEntorno struct {
	permitirNegativo bool
	validarTotal     bool
}

func nuevaDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps transactions serialised like row locks would.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, infra.RunMigrations(db))
	return db
}

func nuevoEntorno(t testing.TB, opts opcionesEntorno) *entorno {
	t.Helper()
	db := nuevaDB(t)

	usuarioRepo := repository.NewUsuarioRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	historialRepo := repository.NewHistorialCostoRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	var cache *infra.ProductoCache
	inventario := NewInventarioService(productoRepo, movimientoRepo, historialRepo, cache, opts.permitirNegativo)

	cfg := &config.Config{JWTSecret: "secreto-de-prueba", JWTExpirationHours: 1, JWTRefreshHours: 2}

	e := &entorno{
		db:          db,
		inventario:  inventario,
		productos:   NewProductoService(productoRepo, categoriaRepo, inventario, cache),
		categorias:  NewCategoriaService(categoriaRepo),
		proveedores: NewProveedorService(proveedorRepo),
		clientes:    NewClienteService(clienteRepo),
		ventas: NewVentaService(ventaRepo, productoRepo, clienteRepo, inventario, cache, nil, VentaOpciones{
			ValidarTotal: opts.validarTotal,
			Empresa:      infra.Empresa{Nombre: "FERRETERÍA DE PRUEBA"},
		}),
		compras:  NewCompraService(compraRepo, productoRepo, proveedorRepo, historialRepo, inventario, cache),
		reportes: NewReporteService(reporteRepo, ventaRepo, productoRepo),
		auth:     NewAuthService(usuarioRepo, cfg),
	}

	e.usuario = model.Usuario{Username: "cajero", Nombre: "Cajero Uno", PasswordHash: "x", Rol: model.RolEmpleado, Activo: true}
	require.NoError(t, db.Create(&e.usuario).Error)
	return e
}

// producto inserts a product directly, bypassing the ledger, with the given stock.
func (e *entorno) producto(t testing.TB, nombre string, stock, precioVenta, precioCompra string) model.Producto {
	t.Helper()
	p := model.Producto{
		Nombre:       nombre,
		PrecioVenta:  decimal.RequireFromString(precioVenta),
		PrecioCompra: decimal.RequireFromString(precioCompra),
		Stock:        decimal.RequireFromString(stock),
		StockMinimo:  decimal.NewFromInt(5),
		Activo:       true,
	}
	require.NoError(t, e.db.Create(&p).Error)
	return p
}

func (e *entorno) proveedor(t testing.TB, empresa, ruc string) model.Proveedor {
	t.Helper()
	p := model.Proveedor{Empresa: empresa, RUC: ruc}
	require.NoError(t, e.db.Create(&p).Error)
	return p
}

func (e *entorno) stock(t testing.TB, id uuid.UUID) decimal.Decimal {
	t.Helper()
	var p model.Producto
	require.NoError(t, e.db.First(&p, "id = ?", id).Error)
	return p.Stock
}

func (e *entorno) movimientos(t testing.TB, productoID uuid.UUID) []model.Movimiento {
	t.Helper()
	var movs []model.Movimiento
	require.NoError(t, e.db.Where("producto_id = ?", productoID).Order("fecha ASC").Find(&movs).Error)
	return movs
}

func ctxPrueba(t testing.TB) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mustUUID(t testing.TB, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}
