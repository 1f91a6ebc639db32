package repository

import (
	"context"

	"github.com/MarcoAguilar2002/perfum/internal/dto"
	"github.com/MarcoAguilar2002/perfum/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VentaRepository persists sale headers and their line items.
// CreateHeader and CreateDetalles are independent statements with no shared
// transaction: a failure between the two leaves the header committed.
type VentaRepository interface {
	CreateHeader(ctx context.Context, v *model.Venta) error
	CreateDetalles(ctx context.Context, detalles []model.DetalleVenta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) CreateHeader(ctx context.Context, v *model.Venta) error {
	// Omit the association so GORM does not cascade detalles here; lines are
	// inserted in a second step by CreateDetalles.
	return r.db.WithContext(ctx).Omit("Detalles").Create(v).Error
}

func (r *ventaRepo) CreateDetalles(ctx context.Context, detalles []model.DetalleVenta) error {
	if len(detalles) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&detalles).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Preload("Cliente").
		First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).Model(&model.Venta{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.SedeID != "" {
		q = q.Where("sede_id = ?", filter.SedeID)
	}
	if filter.Desde != "" {
		q = q.Where("DATE(created_at) >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("DATE(created_at) <= ?", filter.Hasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Detalles.Producto").Preload("Cliente").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error
	return ventas, total, err
}
