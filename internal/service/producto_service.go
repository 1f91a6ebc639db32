package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MarcoAguilar2002/perfum/internal/dto"
	"github.com/MarcoAguilar2002/perfum/internal/infra"
	"github.com/MarcoAguilar2002/perfum/internal/model"
	"github.com/MarcoAguilar2002/perfum/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	cacheScopeProductos = "productos"
	cacheScopePrecios   = "precios"
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	ConsultarPrecio(ctx context.Context, barcode string) (*dto.ConsultaPreciosResponse, error)
}

type productoService struct {
	repo  repository.ProductoRepository
	cache *infra.Cache
}

func NewProductoService(repo repository.ProductoRepository, cache *infra.Cache) ProductoService {
	return &productoService{repo: repo, cache: cache}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		Marca:        req.Marca,
		PrecioCompra: req.PrecioCompra,
		PrecioVenta:  req.PrecioVenta,
		CodigoBarras: req.CodigoBarras,
		ImagenURL:    req.ImagenURL,
		Activo:       true,
	}
	if req.CategoriaID != nil {
		categoriaID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("categoria_id inválido: %w", err)
		}
		p.CategoriaID = &categoriaID
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("ya existe un producto con ese código de barras")
		}
		return nil, fmt.Errorf("error creando producto: %w", err)
	}
	s.invalidate(ctx)
	return s.ObtenerPorID(ctx, p.ID)
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("error consultando producto: %w", err)
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	key := fmt.Sprintf("list:%s:%s:%s:%s:%s:%d:%d",
		filter.Nombre, filter.Marca, filter.CategoriaID, filter.Barcode, filter.Activo, filter.Page, filter.Limit)
	if s.cache != nil {
		var cached dto.ProductoListResponse
		if s.cache.Get(ctx, cacheScopeProductos, key, &cached) {
			return &cached, nil
		}
	}

	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listando productos: %w", err)
	}

	resp := &dto.ProductoListResponse{
		Data:  make([]dto.ProductoResponse, 0, len(productos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range productos {
		resp.Data = append(resp.Data, productoToResponse(&productos[i]))
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheScopeProductos, key, resp)
	}
	return resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("error consultando producto: %w", err)
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Marca != nil {
		p.Marca = req.Marca
	}
	if req.CategoriaID != nil {
		categoriaID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("categoria_id inválido: %w", err)
		}
		p.CategoriaID = &categoriaID
	}
	if req.PrecioCompra != nil {
		p.PrecioCompra = *req.PrecioCompra
	}
	if req.PrecioVenta != nil {
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.CodigoBarras != nil {
		p.CodigoBarras = req.CodigoBarras
	}
	if req.ImagenURL != nil {
		p.ImagenURL = req.ImagenURL
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("ya existe un producto con ese código de barras")
		}
		return nil, fmt.Errorf("error actualizando producto: %w", err)
	}
	s.invalidate(ctx)
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoEncontrado
		}
		return fmt.Errorf("error consultando producto: %w", err)
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("error desactivando producto: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// ConsultarPrecio resolves a barcode to name, brand and sale price. It backs
// the public price-check endpoint, so hits are cached under their own scope.
func (s *productoService) ConsultarPrecio(ctx context.Context, barcode string) (*dto.ConsultaPreciosResponse, error) {
	if s.cache != nil {
		var cached dto.ConsultaPreciosResponse
		if s.cache.Get(ctx, cacheScopePrecios, barcode, &cached) {
			return &cached, nil
		}
	}

	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("error consultando precio: %w", err)
	}

	resp := &dto.ConsultaPreciosResponse{
		Nombre:      p.Nombre,
		Marca:       p.Marca,
		PrecioVenta: p.PrecioVenta,
	}
	if s.cache != nil {
		s.cache.Set(ctx, cacheScopePrecios, barcode, resp)
	}
	return resp, nil
}

func (s *productoService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cacheScopeProductos)
		s.cache.Invalidate(ctx, cacheScopePrecios)
	}
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	resp := dto.ProductoResponse{
		ID:           p.ID.String(),
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		Marca:        p.Marca,
		PrecioCompra: p.PrecioCompra,
		PrecioVenta:  p.PrecioVenta,
		CodigoBarras: p.CodigoBarras,
		ImagenURL:    p.ImagenURL,
		Activo:       p.Activo,
		CreatedAt:    p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if p.CategoriaID != nil {
		id := p.CategoriaID.String()
		resp.CategoriaID = &id
	}
	if p.Categoria != nil {
		resp.Categoria = &p.Categoria.Nombre
	}
	return resp
}
