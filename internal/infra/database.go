package infra

import (
	"fmt"

	"github.com/MarcoAguilar2002/perfum/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// for every table. TranslateError is enabled so unique-index violations come
// back as gorm.ErrDuplicatedKey instead of driver-specific errors — the
// inventario and clientes services rely on that to report conflicts.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
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
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return db, nil
}

// RunMigrations creates / updates the schema. Also used by integration tests
// against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Categoria{},
		&model.Sede{},
		&model.Producto{},
		&model.Perfil{},
		&model.Cliente{},
		&model.Inventario{},
		&model.Venta{},
		&model.DetalleVenta{},
		&model.MovimientoStock{},
	)
}
