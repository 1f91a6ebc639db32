package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MarcoAguilar2002/perfum/internal/dto"
	"github.com/MarcoAguilar2002/perfum/internal/model"
	"github.com/MarcoAguilar2002/perfum/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{
		Nombre:    req.Nombre,
		Apellido:  req.Apellido,
		Email:     req.Email,
		Telefono:  req.Telefono,
		DNI:       req.DNI,
		Direccion: req.Direccion,
	}
	if req.FechaNacimiento != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaNacimiento)
		if err != nil {
			return nil, fmt.Errorf("fecha_nacimiento inválida: %w", err)
		}
		c.FechaNacimiento = &fecha
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrClienteDuplicado
		}
		return nil, fmt.Errorf("error creando cliente: %w", err)
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("error consultando cliente: %w", err)
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listando clientes: %w", err)
	}
	out := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		out = append(out, clienteToResponse(&clientes[i]))
	}
	return out, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("error consultando cliente: %w", err)
	}

	if req.Nombre != nil {
		c.Nombre = *req.Nombre
	}
	if req.Apellido != nil {
		c.Apellido = req.Apellido
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Telefono != nil {
		c.Telefono = req.Telefono
	}
	if req.DNI != nil {
		c.DNI = req.DNI
	}
	if req.Direccion != nil {
		c.Direccion = req.Direccion
	}
	if req.FechaNacimiento != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaNacimiento)
		if err != nil {
			return nil, fmt.Errorf("fecha_nacimiento inválida: %w", err)
		}
		c.FechaNacimiento = &fecha
	}

	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrClienteDuplicado
		}
		return nil, fmt.Errorf("error actualizando cliente: %w", err)
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoEncontrado
		}
		return fmt.Errorf("error consultando cliente: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error eliminando cliente: %w", err)
	}
	return nil
}

func clienteToResponse(c *model.Cliente) dto.ClienteResponse {
	resp := dto.ClienteResponse{
		ID:        c.ID.String(),
		Nombre:    c.Nombre,
		Apellido:  c.Apellido,
		Email:     c.Email,
		Telefono:  c.Telefono,
		DNI:       c.DNI,
		Direccion: c.Direccion,
		CreatedAt: c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if c.FechaNacimiento != nil {
		fecha := c.FechaNacimiento.Format("2006-01-02")
		resp.FechaNacimiento = &fecha
	}
	return resp
}
