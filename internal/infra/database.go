package infra

import (
	"fmt"

	"pudahuelpos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (sequences, partial unique indexes).
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

// RunMigrations applies AutoMigrate plus the schema patches. Exported so the
// integration tests can bring a containerized database to the same schema.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Producto{},
		&model.MovimientoStock{},
		&model.Turno{},
		&model.GastoTurno{},
		&model.Venta{},
		&model.VentaItem{},
		&model.Cliente{},
		&model.MovimientoCliente{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot produce.
// Each statement uses IF NOT EXISTS semantics so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Ticket numbers come from a sequence so concurrent inserts never
		// collide (nextval is atomic).
		{"ticket number sequence",
			`CREATE SEQUENCE IF NOT EXISTS ventas_numero_ticket_seq START 1`},

		// Database-level backstop for the single-open-shift rule. The
		// serialized check-then-insert in the repository handles the normal
		// path; this index makes a race a constraint error instead of two
		// open shifts.
		{"single open turno partial unique index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uniq_turnos_abierto') THEN
    CREATE UNIQUE INDEX uniq_turnos_abierto ON turnos ((estado)) WHERE estado = 'abierto';
  END IF;
END $$`},

		// Barcodes are optional; uniqueness only applies to non-null values
		// of active products (a deactivated product frees its barcode).
		{"unique active barcode partial index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uniq_productos_codigo_barras_activo') THEN
    CREATE UNIQUE INDEX uniq_productos_codigo_barras_activo
        ON productos (codigo_barras)
        WHERE codigo_barras IS NOT NULL AND activo = true;
  END IF;
END $$`},

		// The live shift summary scans ventas by turno_id on every request.
		{"ventas turno index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_ventas_turno_created') THEN
    CREATE INDEX idx_ventas_turno_created ON ventas (turno_id, created_at);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
