package repository

import (
	"context"

	"github.com/MarcoAguilar2002/perfum/internal/dto"
	"github.com/MarcoAguilar2002/perfum/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventarioRepository is the persistence boundary of the stock ledger.
//
// Two mutation paths coexist on purpose:
//   - UpdateStock writes an ABSOLUTE value computed by the caller. Paired with
//     a prior FindByID it forms a read-then-write sequence with no optimistic
//     check — concurrent adjustments to the same row can lose an update.
//   - AplicarDelta applies a signed delta in a single UPDATE statement,
//     atomic at the database level. The venta path uses this one.
type InventarioRepository interface {
	Create(ctx context.Context, inv *model.Inventario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Inventario, error)
	FindByProductoSede(ctx context.Context, productoID, sedeID uuid.UUID) (*model.Inventario, error)
	List(ctx context.Context, filter dto.InventarioFilter) ([]model.Inventario, int64, error)
	Update(ctx context.Context, inv *model.Inventario) error
	UpdateStock(ctx context.Context, id uuid.UUID, nuevoStock int) error
	AplicarDelta(ctx context.Context, productoID, sedeID uuid.UUID, delta int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type inventarioRepo struct{ db *gorm.DB }

func NewInventarioRepository(db *gorm.DB) InventarioRepository { return &inventarioRepo{db: db} }

// Create inserts a new stock record. The composite unique index on
// (producto_id, sede_id) makes a second insert for the same pair fail with
// gorm.ErrDuplicatedKey.
func (r *inventarioRepo) Create(ctx context.Context, inv *model.Inventario) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *inventarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Inventario, error) {
	var inv model.Inventario
	err := r.db.WithContext(ctx).Preload("Producto").Preload("Sede").First(&inv, "id = ?", id).Error
	return &inv, err
}

func (r *inventarioRepo) FindByProductoSede(ctx context.Context, productoID, sedeID uuid.UUID) (*model.Inventario, error) {
	var inv model.Inventario
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND sede_id = ?", productoID, sedeID).
		First(&inv).Error
	return &inv, err
}

func (r *inventarioRepo) List(ctx context.Context, filter dto.InventarioFilter) ([]model.Inventario, int64, error) {
	var registros []model.Inventario
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Inventario{})
	if filter.SedeID != "" {
		q = q.Where("sede_id = ?", filter.SedeID)
	}
	if filter.ProductoID != "" {
		q = q.Where("producto_id = ?", filter.ProductoID)
	}
	if filter.BajoMinimo {
		q = q.Where("stock_actual < stock_minimo")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Producto").Preload("Sede").
		Order("updated_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&registros).Error
	return registros, total, err
}

func (r *inventarioRepo) Update(ctx context.Context, inv *model.Inventario) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

// UpdateStock writes the absolute value the caller computed. No WHERE clause
// on the previous value: last writer wins.
func (r *inventarioRepo) UpdateStock(ctx context.Context, id uuid.UUID, nuevoStock int) error {
	return r.db.WithContext(ctx).Model(&model.Inventario{}).
		Where("id = ?", id).
		Update("stock_actual", nuevoStock).Error
}

// AplicarDelta increments or decrements stock_actual in one statement.
// Returns gorm.ErrRecordNotFound when the (producto, sede) pair has no record.
func (r *inventarioRepo) AplicarDelta(ctx context.Context, productoID, sedeID uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).Model(&model.Inventario{}).
		Where("producto_id = ? AND sede_id = ?", productoID, sedeID).
		Update("stock_actual", gorm.Expr("stock_actual + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *inventarioRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Inventario{}, "id = ?", id).Error
}
