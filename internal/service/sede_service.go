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

type SedeService interface {
	Crear(ctx context.Context, req dto.CrearSedeRequest) (*dto.SedeResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.SedeResponse, error)
	Listar(ctx context.Context, incluirInactivas bool) ([]dto.SedeResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarSedeRequest) (*dto.SedeResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type sedeService struct {
	repo repository.SedeRepository
}

func NewSedeService(repo repository.SedeRepository) SedeService {
	return &sedeService{repo: repo}
}

func (s *sedeService) Crear(ctx context.Context, req dto.CrearSedeRequest) (*dto.SedeResponse, error) {
	sede := &model.Sede{
		Nombre:    req.Nombre,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Ciudad:    req.Ciudad,
		Activo:    true,
	}
	if err := s.repo.Create(ctx, sede); err != nil {
		return nil, fmt.Errorf("error creando sede: %w", err)
	}
	resp := sedeToResponse(sede)
	return &resp, nil
}

func (s *sedeService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.SedeResponse, error) {
	sede, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("error consultando sede: %w", err)
	}
	resp := sedeToResponse(sede)
	return &resp, nil
}

func (s *sedeService) Listar(ctx context.Context, incluirInactivas bool) ([]dto.SedeResponse, error) {
	sedes, err := s.repo.List(ctx, incluirInactivas)
	if err != nil {
		return nil, fmt.Errorf("error listando sedes: %w", err)
	}
	out := make([]dto.SedeResponse, 0, len(sedes))
	for i := range sedes {
		out = append(out, sedeToResponse(&sedes[i]))
	}
	return out, nil
}

func (s *sedeService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarSedeRequest) (*dto.SedeResponse, error) {
	sede, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("error consultando sede: %w", err)
	}

	if req.Nombre != nil {
		sede.Nombre = *req.Nombre
	}
	if req.Direccion != nil {
		sede.Direccion = *req.Direccion
	}
	if req.Telefono != nil {
		sede.Telefono = req.Telefono
	}
	if req.Email != nil {
		sede.Email = req.Email
	}
	if req.Ciudad != nil {
		sede.Ciudad = req.Ciudad
	}
	if req.Activo != nil {
		sede.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, sede); err != nil {
		return nil, fmt.Errorf("error actualizando sede: %w", err)
	}
	resp := sedeToResponse(sede)
	return &resp, nil
}

func (s *sedeService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoEncontrado
		}
		return fmt.Errorf("error consultando sede: %w", err)
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("error desactivando sede: %w", err)
	}
	return nil
}

func sedeToResponse(s *model.Sede) dto.SedeResponse {
	return dto.SedeResponse{
		ID:        s.ID.String(),
		Nombre:    s.Nombre,
		Direccion: s.Direccion,
		Telefono:  s.Telefono,
		Email:     s.Email,
		Ciudad:    s.Ciudad,
		Activo:    s.Activo,
	}
}
