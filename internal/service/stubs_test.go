package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/MarcoAguilar2002/perfum/internal/dto"
	"github.com/MarcoAguilar2002/perfum/internal/model"
	"github.com/MarcoAguilar2002/perfum/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Inventario stub ──────────────────────────────────────────────────────────

type pareja struct{ producto, sede uuid.UUID }

// stubInventarioRepo is an in-memory InventarioRepository. FindByID returns a
// copy of the stored row, mimicking the snapshot a real SELECT produces.
type stubInventarioRepo struct {
	mu        sync.Mutex
	registros map[uuid.UUID]*model.Inventario
	porPareja map[pareja]uuid.UUID

	// afterFind, when set, runs once right after the next FindByID snapshot is
	// taken. Tests use it to interleave a concurrent write between a caller's
	// read and its subsequent UpdateStock.
	afterFind func()
}

func newStubInventarioRepo() *stubInventarioRepo {
	return &stubInventarioRepo{
		registros: make(map[uuid.UUID]*model.Inventario),
		porPareja: make(map[pareja]uuid.UUID),
	}
}

func (r *stubInventarioRepo) Create(_ context.Context, inv *model.Inventario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pareja{inv.ProductoID, inv.SedeID}
	if _, ok := r.porPareja[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	clone := *inv
	r.registros[inv.ID] = &clone
	r.porPareja[key] = inv.ID
	return nil
}

func (r *stubInventarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Inventario, error) {
	r.mu.Lock()
	inv, ok := r.registros[id]
	if !ok {
		r.mu.Unlock()
		return nil, gorm.ErrRecordNotFound
	}
	snapshot := *inv
	hook := r.afterFind
	r.afterFind = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return &snapshot, nil
}

func (r *stubInventarioRepo) FindByProductoSede(_ context.Context, productoID, sedeID uuid.UUID) (*model.Inventario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.porPareja[pareja{productoID, sedeID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	snapshot := *r.registros[id]
	return &snapshot, nil
}

func (r *stubInventarioRepo) List(_ context.Context, _ dto.InventarioFilter) ([]model.Inventario, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Inventario, 0, len(r.registros))
	for _, inv := range r.registros {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (r *stubInventarioRepo) Update(_ context.Context, inv *model.Inventario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.registros[inv.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	*stored = *inv
	return nil
}

func (r *stubInventarioRepo) UpdateStock(_ context.Context, id uuid.UUID, nuevoStock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.registros[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.StockActual = nuevoStock
	return nil
}

func (r *stubInventarioRepo) AplicarDelta(_ context.Context, productoID, sedeID uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.porPareja[pareja{productoID, sedeID}]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.registros[id].StockActual += delta
	return nil
}

func (r *stubInventarioRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.registros[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.porPareja, pareja{inv.ProductoID, inv.SedeID})
	delete(r.registros, id)
	return nil
}

func (r *stubInventarioRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registros[id].StockActual
}

var _ repository.InventarioRepository = (*stubInventarioRepo)(nil)

// ── MovimientoStock stub ─────────────────────────────────────────────────────

type stubMovimientoRepo struct {
	mu          sync.Mutex
	movimientos []model.MovimientoStock
}

func (r *stubMovimientoRepo) Create(_ context.Context, m *model.MovimientoStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, _ repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.MovimientoStock, len(r.movimientos))
	copy(out, r.movimientos)
	return out, int64(len(out)), nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

func movimientoFilter() repository.MovimientoStockFilter {
	return repository.MovimientoStockFilter{Page: 1, Limit: 100}
}

// ── Venta stub ───────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta

	// failDetalles forces CreateDetalles to error, leaving the header stored.
	failDetalles bool
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateHeader(_ context.Context, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	clone := *v
	clone.Detalles = nil
	r.ventas[v.ID] = &clone
	return nil
}

func (r *stubVentaRepo) CreateDetalles(_ context.Context, detalles []model.DetalleVenta) error {
	if r.failDetalles {
		return errors.New("insert detalle_ventas: connection reset")
	}
	if len(detalles) == 0 {
		return nil
	}
	v, ok := r.ventas[detalles[0].VentaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Detalles = append(v.Detalles, detalles...)
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	snapshot := *v
	return &snapshot, nil
}

func (r *stubVentaRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Estado = estado
	return nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	out := make([]model.Venta, 0, len(r.ventas))
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── Perfil stub ──────────────────────────────────────────────────────────────

type stubPerfilRepo struct {
	perfiles map[uuid.UUID]*model.Perfil
}

func newStubPerfilRepo() *stubPerfilRepo {
	return &stubPerfilRepo{perfiles: make(map[uuid.UUID]*model.Perfil)}
}

func (r *stubPerfilRepo) Create(_ context.Context, p *model.Perfil) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for _, existente := range r.perfiles {
		if existente.Email == p.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	clone := *p
	r.perfiles[p.ID] = &clone
	return nil
}

func (r *stubPerfilRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Perfil, error) {
	p, ok := r.perfiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	snapshot := *p
	return &snapshot, nil
}

func (r *stubPerfilRepo) FindByEmail(_ context.Context, email string) (*model.Perfil, error) {
	for _, p := range r.perfiles {
		if p.Email == email {
			snapshot := *p
			return &snapshot, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPerfilRepo) List(_ context.Context) ([]model.Perfil, error) {
	out := make([]model.Perfil, 0, len(r.perfiles))
	for _, p := range r.perfiles {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPerfilRepo) ListAll(_ context.Context) ([]model.Perfil, error) {
	out := make([]model.Perfil, 0, len(r.perfiles))
	for _, p := range r.perfiles {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPerfilRepo) Update(_ context.Context, p *model.Perfil) error {
	stored, ok := r.perfiles[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	*stored = *p
	return nil
}

func (r *stubPerfilRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.perfiles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

func (r *stubPerfilRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	p, ok := r.perfiles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = true
	return nil
}

var _ repository.PerfilRepository = (*stubPerfilRepo)(nil)
