package repository

import (
	"context"

	"github.com/MarcoAguilar2002/perfum/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SedeRepository interface {
	Create(ctx context.Context, s *model.Sede) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sede, error)
	List(ctx context.Context, incluirInactivas bool) ([]model.Sede, error)
	Update(ctx context.Context, s *model.Sede) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type sedeRepo struct{ db *gorm.DB }

func NewSedeRepository(db *gorm.DB) SedeRepository { return &sedeRepo{db: db} }

func (r *sedeRepo) Create(ctx context.Context, s *model.Sede) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sedeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sede, error) {
	var s model.Sede
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *sedeRepo) List(ctx context.Context, incluirInactivas bool) ([]model.Sede, error) {
	var sedes []model.Sede
	q := r.db.WithContext(ctx)
	if !incluirInactivas {
		q = q.Where("activo = true")
	}
	err := q.Order("nombre ASC").Find(&sedes).Error
	return sedes, err
}

func (r *sedeRepo) Update(ctx context.Context, s *model.Sede) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *sedeRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Sede{}).Where("id = ?", id).Update("activo", false).Error
}
