package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MarcoAguilar2002/perfum/internal/dto"
	"github.com/MarcoAguilar2002/perfum/internal/model"
	"github.com/MarcoAguilar2002/perfum/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCategoriaDuplicada = errors.New("ya existe una categoría con ese nombre")

type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error)
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (*dto.CategoriaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	c := &model.Categoria{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Activo:      true,
	}
	if err := s.repo.Crear(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoriaDuplicada
		}
		return nil, fmt.Errorf("error creando categoría: %w", err)
	}
	resp := categoriaToResponse(c)
	return &resp, nil
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	categorias, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listando categorías: %w", err)
	}
	out := make([]dto.CategoriaResponse, 0, len(categorias))
	for i := range categorias {
		out = append(out, categoriaToResponse(&categorias[i]))
	}
	return out, nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (*dto.CategoriaResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("error consultando categoría: %w", err)
	}

	if req.Nombre != nil {
		c.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		c.Descripcion = req.Descripcion
	}
	if req.Activo != nil {
		c.Activo = *req.Activo
	}

	if err := s.repo.Actualizar(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoriaDuplicada
		}
		return nil, fmt.Errorf("error actualizando categoría: %w", err)
	}
	resp := categoriaToResponse(c)
	return &resp, nil
}

func (s *categoriaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.ObtenerPorID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoEncontrado
		}
		return fmt.Errorf("error consultando categoría: %w", err)
	}
	if err := s.repo.Desactivar(ctx, id); err != nil {
		return fmt.Errorf("error desactivando categoría: %w", err)
	}
	return nil
}

func categoriaToResponse(c *model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:          c.ID,
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Activo:      c.Activo,
	}
}
