package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MarcoAguilar2002/perfum/internal/dto"
	"github.com/MarcoAguilar2002/perfum/internal/infra"
	"github.com/MarcoAguilar2002/perfum/internal/model"
	"github.com/MarcoAguilar2002/perfum/internal/repository"
	"github.com/MarcoAguilar2002/perfum/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const cacheScopeInventario = "inventario"

// InventarioService is the stock ledger. It owns every stock mutation:
// manual adjustments from the inventory screen and automatic discounts
// issued by the venta service.
//
// AjustarStock deliberately works read-then-write on the absolute value:
// it loads the record, adds the delta in memory and writes the result
// back. The ledger itself accepts any resulting value, including negative
// ones — rejecting a projected negative is the HTTP handler's job.
type InventarioService interface {
	CrearRegistro(ctx context.Context, req dto.CrearInventarioRequest) (*dto.InventarioResponse, error)
	Listar(ctx context.Context, filter dto.InventarioFilter) (*dto.InventarioListResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.InventarioResponse, error)
	ActualizarUmbrales(ctx context.Context, id uuid.UUID, req dto.ActualizarInventarioRequest) (*dto.InventarioResponse, error)
	AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.InventarioResponse, error)
	DescontarStock(ctx context.Context, productoID, sedeID uuid.UUID, cantidad int, ventaID *uuid.UUID) error
	Eliminar(ctx context.Context, id uuid.UUID) error
	ListarMovimientos(ctx context.Context, filter repository.MovimientoStockFilter) (*dto.MovimientoListResponse, error)
}

type inventarioService struct {
	repo       repository.InventarioRepository
	movRepo    repository.MovimientoStockRepository
	cache      *infra.Cache
	dispatcher *worker.Dispatcher
}

// NewInventarioService wires the ledger. cache and dispatcher may be nil
// (unit tests run without Redis); both are best-effort side channels.
func NewInventarioService(
	repo repository.InventarioRepository,
	movRepo repository.MovimientoStockRepository,
	cache *infra.Cache,
	dispatcher *worker.Dispatcher,
) InventarioService {
	return &inventarioService{repo: repo, movRepo: movRepo, cache: cache, dispatcher: dispatcher}
}

func (s *inventarioService) CrearRegistro(ctx context.Context, req dto.CrearInventarioRequest) (*dto.InventarioResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}
	sedeID, err := uuid.Parse(req.SedeID)
	if err != nil {
		return nil, fmt.Errorf("sede_id inválido: %w", err)
	}

	inv := &model.Inventario{
		ProductoID:  productoID,
		SedeID:      sedeID,
		StockActual: req.StockActual,
		StockMinimo: req.StockMinimo,
		StockMaximo: req.StockMaximo,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrInventarioDuplicado
		}
		return nil, fmt.Errorf("error creando registro de inventario: %w", err)
	}

	s.registrarMovimiento(ctx, inv.ProductoID, inv.SedeID, "creacion", inv.StockActual, 0, inv.StockActual, "registro inicial", nil)
	s.invalidate(ctx)

	return s.ObtenerPorID(ctx, inv.ID)
}

func (s *inventarioService) Listar(ctx context.Context, filter dto.InventarioFilter) (*dto.InventarioListResponse, error) {
	key := fmt.Sprintf("list:%s:%s:%t:%d:%d", filter.SedeID, filter.ProductoID, filter.BajoMinimo, filter.Page, filter.Limit)
	if s.cache != nil {
		var cached dto.InventarioListResponse
		if s.cache.Get(ctx, cacheScopeInventario, key, &cached) {
			return &cached, nil
		}
	}

	registros, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listando inventario: %w", err)
	}

	resp := &dto.InventarioListResponse{
		Data:  make([]dto.InventarioResponse, 0, len(registros)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range registros {
		resp.Data = append(resp.Data, inventarioToResponse(&registros[i]))
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheScopeInventario, key, resp)
	}
	return resp, nil
}

func (s *inventarioService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.InventarioResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("error consultando inventario: %w", err)
	}
	resp := inventarioToResponse(inv)
	return &resp, nil
}

func (s *inventarioService) ActualizarUmbrales(ctx context.Context, id uuid.UUID, req dto.ActualizarInventarioRequest) (*dto.InventarioResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("error consultando inventario: %w", err)
	}

	if req.StockMinimo != nil {
		inv.StockMinimo = *req.StockMinimo
	}
	if req.StockMaximo != nil {
		inv.StockMaximo = *req.StockMaximo
	}
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("error actualizando umbrales: %w", err)
	}

	s.invalidate(ctx)
	resp := inventarioToResponse(inv)
	return &resp, nil
}

// AjustarStock applies a manual delta. Read, compute, write: the new value is
// calculated from the snapshot loaded here, and UpdateStock overwrites whatever
// is in the row at write time. Two concurrent adjustments over the same record
// can therefore lose one of the deltas.
//
// The resulting stock may be negative; callers that want to forbid that must
// check before calling.
func (s *inventarioService) AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.InventarioResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("error consultando inventario: %w", err)
	}

	anterior := inv.StockActual
	nuevo := anterior + req.Cantidad
	if err := s.repo.UpdateStock(ctx, id, nuevo); err != nil {
		return nil, fmt.Errorf("error ajustando stock: %w", err)
	}

	motivo := "ajuste manual"
	if req.Motivo != nil && *req.Motivo != "" {
		motivo = *req.Motivo
	}
	s.registrarMovimiento(ctx, inv.ProductoID, inv.SedeID, "ajuste_manual", req.Cantidad, anterior, nuevo, motivo, nil)
	s.alertaSiBajoMinimo(ctx, inv, nuevo)
	s.invalidate(ctx)

	inv.StockActual = nuevo
	resp := inventarioToResponse(inv)
	return &resp, nil
}

// DescontarStock is the venta path: a single atomic UPDATE applies the
// (negative) delta. Returns ErrNoEncontrado when the product has no stock
// record at the sede; the caller decides whether that aborts the sale.
func (s *inventarioService) DescontarStock(ctx context.Context, productoID, sedeID uuid.UUID, cantidad int, ventaID *uuid.UUID) error {
	if cantidad <= 0 {
		return ErrCantidadInvalida
	}
	if err := s.repo.AplicarDelta(ctx, productoID, sedeID, -cantidad); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoEncontrado
		}
		return fmt.Errorf("error descontando stock: %w", err)
	}

	// Audit trail and low-stock check read the row after the decrement;
	// both are best effort and never fail the sale.
	if inv, err := s.repo.FindByProductoSede(ctx, productoID, sedeID); err == nil {
		s.registrarMovimiento(ctx, productoID, sedeID, "venta", -cantidad, inv.StockActual+cantidad, inv.StockActual, "venta", ventaID)
		s.alertaSiBajoMinimo(ctx, inv, inv.StockActual)
	}
	s.invalidate(ctx)
	return nil
}

func (s *inventarioService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoEncontrado
		}
		return fmt.Errorf("error consultando inventario: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error eliminando registro de inventario: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter repository.MovimientoStockFilter) (*dto.MovimientoListResponse, error) {
	movimientos, total, err := s.movRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listando movimientos: %w", err)
	}

	resp := &dto.MovimientoListResponse{
		Data:  make([]dto.MovimientoStockResponse, 0, len(movimientos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range movimientos {
		m := &movimientos[i]
		item := dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			ProductoID:    m.ProductoID.String(),
			SedeID:        m.SedeID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if m.Producto != nil {
			item.Producto = &m.Producto.Nombre
		}
		if m.ReferenciaID != nil {
			ref := m.ReferenciaID.String()
			item.ReferenciaID = &ref
		}
		resp.Data = append(resp.Data, item)
	}
	return resp, nil
}

// registrarMovimiento writes the audit entry. Failures are logged and
// swallowed: the stock change already happened.
func (s *inventarioService) registrarMovimiento(ctx context.Context, productoID, sedeID uuid.UUID, tipo string, cantidad, anterior, nuevo int, motivo string, referencia *uuid.UUID) {
	if s.movRepo == nil {
		return
	}
	mov := &model.MovimientoStock{
		ProductoID:    productoID,
		SedeID:        sedeID,
		Tipo:          tipo,
		Cantidad:      cantidad,
		StockAnterior: anterior,
		StockNuevo:    nuevo,
		Motivo:        motivo,
		ReferenciaID:  referencia,
	}
	if err := s.movRepo.Create(ctx, mov); err != nil {
		log.Warn().Err(err).
			Str("producto_id", productoID.String()).
			Str("tipo", tipo).
			Msg("inventario: no se pudo registrar el movimiento")
	}
}

// alertaSiBajoMinimo enqueues a low-stock alert when the new value crosses
// below the minimum threshold.
func (s *inventarioService) alertaSiBajoMinimo(ctx context.Context, inv *model.Inventario, stockActual int) {
	if s.dispatcher == nil || stockActual >= inv.StockMinimo {
		return
	}
	payload := worker.AlertaStockPayload{
		ProductoID:  inv.ProductoID.String(),
		SedeID:      inv.SedeID.String(),
		StockActual: stockActual,
		StockMinimo: inv.StockMinimo,
	}
	if inv.Producto != nil {
		payload.Producto = inv.Producto.Nombre
	}
	if inv.Sede != nil {
		payload.Sede = inv.Sede.Nombre
	}
	if err := s.dispatcher.EnqueueAlertaStock(ctx, payload); err != nil {
		log.Warn().Err(err).
			Str("producto_id", inv.ProductoID.String()).
			Msg("inventario: no se pudo encolar la alerta de stock")
	}
}

func (s *inventarioService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cacheScopeInventario)
		s.cache.Invalidate(ctx, cacheScopePrecios)
	}
}

func inventarioToResponse(inv *model.Inventario) dto.InventarioResponse {
	resp := dto.InventarioResponse{
		ID:          inv.ID.String(),
		ProductoID:  inv.ProductoID.String(),
		SedeID:      inv.SedeID.String(),
		StockActual: inv.StockActual,
		StockMinimo: inv.StockMinimo,
		StockMaximo: inv.StockMaximo,
		UpdatedAt:   inv.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if inv.Producto != nil {
		resp.Producto = &inv.Producto.Nombre
		resp.Marca = inv.Producto.Marca
		resp.PrecioVenta = &inv.Producto.PrecioVenta
	}
	if inv.Sede != nil {
		resp.Sede = &inv.Sede.Nombre
	}
	return resp
}
