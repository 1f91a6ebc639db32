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
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const cacheScopeVentas = "ventas"

// VentaService registers and cancels sales.
//
// RegistrarVenta runs in three phases against independent statements, not one
// transaction: header insert, line-item batch insert, then one stock discount
// per line. A crash or error after phase 1 leaves a header without lines; a
// failed discount in phase 3 is logged and skipped, never rolled back. The
// sale's total is fixed at creation from the request's line items.
//
// CancelarVenta flips the estado to "cancelada" and nothing else — stock
// discounted at sale time stays discounted; getting it back is a manual
// adjustment on the inventory screen.
type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	CancelarVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	GenerarRecibo(ctx context.Context, id uuid.UUID) (string, error)
}

type ventaService struct {
	repo       repository.VentaRepository
	perfilRepo repository.PerfilRepository
	inventario InventarioService
	cache      *infra.Cache
	pdfPath    string
}

func NewVentaService(
	repo repository.VentaRepository,
	perfilRepo repository.PerfilRepository,
	inventario InventarioService,
	cache *infra.Cache,
	pdfPath string,
) VentaService {
	return &ventaService{repo: repo, perfilRepo: perfilRepo, inventario: inventario, cache: cache, pdfPath: pdfPath}
}

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	perfil, err := s.perfilRepo.FindByID(ctx, usuarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("error consultando el perfil: %w", err)
	}
	if perfil.SedeID == nil {
		return nil, ErrSinSedeAsignada
	}
	if len(req.Detalles) == 0 {
		return nil, ErrCarritoVacio
	}

	// Build the lines and the total before touching the database.
	total := decimal.Zero
	detalles := make([]model.DetalleVenta, 0, len(req.Detalles))
	for _, d := range req.Detalles {
		if d.Cantidad <= 0 {
			return nil, ErrCantidadInvalida
		}
		productoID, err := uuid.Parse(d.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		subtotal := d.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad)))
		total = total.Add(subtotal)
		detalles = append(detalles, model.DetalleVenta{
			ProductoID:     productoID,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       subtotal,
		})
	}

	venta := &model.Venta{
		SedeID:     perfil.SedeID,
		UserID:     &usuarioID,
		Total:      total,
		MetodoPago: req.MetodoPago,
		Estado:     model.VentaCompletada,
		Notas:      req.Notas,
	}
	if req.ClienteID != nil {
		clienteID, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id inválido: %w", err)
		}
		venta.ClienteID = &clienteID
	}

	// Phase 1: header.
	if err := s.repo.CreateHeader(ctx, venta); err != nil {
		return nil, fmt.Errorf("error registrando la venta: %w", err)
	}

	// Phase 2: line items. On failure the header stays committed.
	for i := range detalles {
		detalles[i].VentaID = venta.ID
	}
	if err := s.repo.CreateDetalles(ctx, detalles); err != nil {
		return nil, fmt.Errorf("error registrando los detalles de la venta: %w", err)
	}

	// Phase 3: one atomic discount per line. A line that fails (no stock
	// record at the sede, db error) is logged and skipped; the sale stands.
	for _, d := range detalles {
		if err := s.inventario.DescontarStock(ctx, d.ProductoID, *perfil.SedeID, d.Cantidad, &venta.ID); err != nil {
			log.Warn().Err(err).
				Str("venta_id", venta.ID.String()).
				Str("producto_id", d.ProductoID.String()).
				Int("cantidad", d.Cantidad).
				Msg("venta: no se pudo descontar el stock")
		}
	}

	s.invalidate(ctx)
	return s.ObtenerPorID(ctx, venta.ID)
}

func (s *ventaService) CancelarVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("error consultando la venta: %w", err)
	}
	if venta.Estado == model.VentaCancelada {
		return nil, ErrVentaYaCancelada
	}

	if err := s.repo.UpdateEstado(ctx, id, model.VentaCancelada); err != nil {
		return nil, fmt.Errorf("error cancelando la venta: %w", err)
	}

	log.Info().Str("venta_id", id.String()).Msg("venta cancelada, el stock no se repone")
	s.invalidate(ctx)

	venta.Estado = model.VentaCancelada
	resp := ventaToResponse(venta)
	return &resp, nil
}

func (s *ventaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("error consultando la venta: %w", err)
	}
	resp := ventaToResponse(venta)
	return &resp, nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	key := fmt.Sprintf("list:%s:%s:%s:%s:%d:%d", filter.SedeID, filter.Estado, filter.Desde, filter.Hasta, filter.Page, filter.Limit)
	if s.cache != nil {
		var cached dto.VentaListResponse
		if s.cache.Get(ctx, cacheScopeVentas, key, &cached) {
			return &cached, nil
		}
	}

	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listando ventas: %w", err)
	}

	resp := &dto.VentaListResponse{
		Data:  make([]dto.VentaResponse, 0, len(ventas)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range ventas {
		resp.Data = append(resp.Data, ventaToResponse(&ventas[i]))
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheScopeVentas, key, resp)
	}
	return resp, nil
}

// GenerarRecibo renders the sale as a PDF receipt and returns the file path.
func (s *ventaService) GenerarRecibo(ctx context.Context, id uuid.UUID) (string, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoEncontrado
		}
		return "", fmt.Errorf("error consultando la venta: %w", err)
	}
	return infra.GenerateReciboPDF(venta, s.pdfPath)
}

func (s *ventaService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cacheScopeVentas)
	}
}

func ventaToResponse(v *model.Venta) dto.VentaResponse {
	resp := dto.VentaResponse{
		ID:         v.ID.String(),
		Total:      v.Total,
		MetodoPago: v.MetodoPago,
		Estado:     v.Estado,
		Notas:      v.Notas,
		Detalles:   make([]dto.DetalleVentaResponse, 0, len(v.Detalles)),
		CreatedAt:  v.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if v.SedeID != nil {
		sede := v.SedeID.String()
		resp.SedeID = &sede
	}
	if v.ClienteID != nil {
		cliente := v.ClienteID.String()
		resp.ClienteID = &cliente
	}
	if v.UserID != nil {
		user := v.UserID.String()
		resp.UserID = &user
	}
	if v.Cliente != nil {
		nombre := v.Cliente.Nombre
		if v.Cliente.Apellido != nil {
			nombre += " " + *v.Cliente.Apellido
		}
		resp.Cliente = &nombre
	}
	for i := range v.Detalles {
		d := &v.Detalles[i]
		item := dto.DetalleVentaResponse{
			ProductoID:     d.ProductoID.String(),
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		}
		if d.Producto != nil {
			item.Producto = d.Producto.Nombre
			item.Marca = d.Producto.Marca
		}
		resp.Detalles = append(resp.Detalles, item)
	}
	return resp
}
