package repository

import (
	"context"

	"github.com/MarcoAguilar2002/perfum/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoriaRepository interface {
	Crear(ctx context.Context, c *model.Categoria) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	ObtenerPorNombre(ctx context.Context, nombre string) (*model.Categoria, error)
	Listar(ctx context.Context) ([]model.Categoria, error)
	Actualizar(ctx context.Context, c *model.Categoria) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type categoriaRepo struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository { return &categoriaRepo{db: db} }

func (r *categoriaRepo) Crear(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepo) ObtenerPorNombre(ctx context.Context, nombre string) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepo) Listar(ctx context.Context) ([]model.Categoria, error) {
	var categorias []model.Categoria
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&categorias).Error
	return categorias, err
}

func (r *categoriaRepo) Actualizar(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoriaRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Categoria{}).Where("id = ?", id).Update("activo", false).Error
}
