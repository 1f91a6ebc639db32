package repository_test

import (
	"context"
	"testing"

	"github.com/MarcoAguilar2002/perfum/internal/model"
	"github.com/MarcoAguilar2002/perfum/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory SQLite database with the inventory schema.
// The tables are created by hand because the production models carry
// Postgres-only defaults.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE productos (
			id TEXT PRIMARY KEY,
			nombre TEXT NOT NULL,
			descripcion TEXT,
			marca TEXT,
			categoria_id TEXT,
			precio_compra NUMERIC NOT NULL DEFAULT 0,
			precio_venta NUMERIC NOT NULL DEFAULT 0,
			codigo_barras TEXT UNIQUE,
			imagen_url TEXT,
			activo NUMERIC NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE sedes (
			id TEXT PRIMARY KEY,
			nombre TEXT NOT NULL,
			direccion TEXT NOT NULL DEFAULT '',
			telefono TEXT,
			email TEXT,
			ciudad TEXT,
			activo NUMERIC NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE inventario (
			id TEXT PRIMARY KEY,
			producto_id TEXT NOT NULL,
			sede_id TEXT NOT NULL,
			stock_actual INTEGER NOT NULL DEFAULT 0,
			stock_minimo INTEGER NOT NULL DEFAULT 5,
			stock_maximo INTEGER NOT NULL DEFAULT 100,
			updated_at DATETIME,
			UNIQUE (producto_id, sede_id)
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func seedRegistro(t *testing.T, repo repository.InventarioRepository, stock int) *model.Inventario {
	t.Helper()
	inv := &model.Inventario{
		ID:          uuid.New(),
		ProductoID:  uuid.New(),
		SedeID:      uuid.New(),
		StockActual: stock,
		StockMinimo: 5,
		StockMaximo: 100,
	}
	require.NoError(t, repo.Create(context.Background(), inv))
	return inv
}

func TestInventarioRepo_ParUnicoProductoSede(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewInventarioRepository(db)
	ctx := context.Background()

	inv := seedRegistro(t, repo, 10)

	// Same (producto, sede) pair again → unique constraint.
	dup := &model.Inventario{
		ID:         uuid.New(),
		ProductoID: inv.ProductoID,
		SedeID:     inv.SedeID,
	}
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Same product at a different sede is fine.
	otraSede := &model.Inventario{
		ID:         uuid.New(),
		ProductoID: inv.ProductoID,
		SedeID:     uuid.New(),
	}
	assert.NoError(t, repo.Create(ctx, otraSede))
}

func TestInventarioRepo_AplicarDelta(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewInventarioRepository(db)
	ctx := context.Background()

	inv := seedRegistro(t, repo, 12)

	require.NoError(t, repo.AplicarDelta(ctx, inv.ProductoID, inv.SedeID, -5))
	require.NoError(t, repo.AplicarDelta(ctx, inv.ProductoID, inv.SedeID, 2))

	got, err := repo.FindByProductoSede(ctx, inv.ProductoID, inv.SedeID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.StockActual)
}

func TestInventarioRepo_AplicarDelta_SinRegistro(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewInventarioRepository(db)

	err := repo.AplicarDelta(context.Background(), uuid.New(), uuid.New(), -1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestInventarioRepo_UpdateStock_UltimoEscritorGana(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewInventarioRepository(db)
	ctx := context.Background()

	inv := seedRegistro(t, repo, 10)

	// Absolute writes carry no guard on the previous value.
	require.NoError(t, repo.UpdateStock(ctx, inv.ID, 7))
	require.NoError(t, repo.UpdateStock(ctx, inv.ID, 3))

	got, err := repo.FindByProductoSede(ctx, inv.ProductoID, inv.SedeID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.StockActual)
}

func TestInventarioRepo_Delete(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewInventarioRepository(db)
	ctx := context.Background()

	inv := seedRegistro(t, repo, 4)
	require.NoError(t, repo.Delete(ctx, inv.ID))

	_, err := repo.FindByProductoSede(ctx, inv.ProductoID, inv.SedeID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
