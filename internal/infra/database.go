package infra

import (
	"fmt"

	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and migrates the
// schema.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{
		&model.Usuario{},
		&model.Categoria{},
		&model.Proveedor{},
		&model.Cliente{},
		&model.Producto{},
		&model.Venta{},
		&model.DetalleVenta{},
		&model.Compra{},
		&model.DetalleCompra{},
		&model.Movimiento{},
		&model.HistorialCosto{},
	}
}

// RunMigrations creates / updates all tables, then applies the PostgreSQL-only
// patches GORM cannot express. It is safe on SQLite, where the patches are
// skipped.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements: number sequences for
// tickets and purchases, and CHECK constraints that keep the ledger sane even
// for writes that bypass the service layer.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`CREATE SEQUENCE IF NOT EXISTS ventas_numero_seq`,
		`CREATE SEQUENCE IF NOT EXISTS compras_numero_seq`,
		`SELECT setval('ventas_numero_seq', GREATEST((SELECT COALESCE(MAX(numero), 0) FROM ventas), 1),
		               (SELECT COUNT(*) > 0 FROM ventas))`,
		`SELECT setval('compras_numero_seq', GREATEST((SELECT COALESCE(MAX(numero), 0) FROM compras), 1),
		               (SELECT COUNT(*) > 0 FROM compras))`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_movimientos_cantidad_positiva') THEN
		    ALTER TABLE movimientos ADD CONSTRAINT chk_movimientos_cantidad_positiva CHECK (cantidad > 0);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_movimientos_tipo') THEN
		    ALTER TABLE movimientos ADD CONSTRAINT chk_movimientos_tipo
		      CHECK (tipo IN ('entrada', 'salida', 'ajuste_pos', 'ajuste_neg'));
		  END IF;
		END $$`,
		`CREATE INDEX IF NOT EXISTS idx_productos_stock_bajo ON productos (stock, stock_minimo) WHERE activo`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
