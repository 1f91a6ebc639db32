package service_test

import (
	"context"
	"testing"

	"github.com/MarcoAguilar2002/perfum/internal/dto"
	"github.com/MarcoAguilar2002/perfum/internal/model"
	"github.com/MarcoAguilar2002/perfum/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ventaFixture struct {
	svc            service.VentaService
	ventaRepo      *stubVentaRepo
	inventarioRepo *stubInventarioRepo
	perfilRepo     *stubPerfilRepo
	vendedorID     uuid.UUID
	sedeID         uuid.UUID
}

func buildVentaSvc(t *testing.T, conSede bool) *ventaFixture {
	t.Helper()
	ventaRepo := newStubVentaRepo()
	inventarioRepo := newStubInventarioRepo()
	perfilRepo := newStubPerfilRepo()
	inventarioSvc := service.NewInventarioService(inventarioRepo, &stubMovimientoRepo{}, nil, nil)
	svc := service.NewVentaService(ventaRepo, perfilRepo, inventarioSvc, nil, t.TempDir())

	sedeID := uuid.New()
	vendedor := &model.Perfil{
		Email:        "vendedor@test.local",
		PasswordHash: "x",
		Rol:          "vendedor",
		Activo:       true,
	}
	if conSede {
		vendedor.SedeID = &sedeID
	}
	require.NoError(t, perfilRepo.Create(context.Background(), vendedor))

	return &ventaFixture{
		svc:            svc,
		ventaRepo:      ventaRepo,
		inventarioRepo: inventarioRepo,
		perfilRepo:     perfilRepo,
		vendedorID:     vendedor.ID,
		sedeID:         sedeID,
	}
}

// seedStock creates an inventory record for a fresh product at the fixture's
// sede and returns the product id.
func (f *ventaFixture) seedStock(t *testing.T, stock int) uuid.UUID {
	t.Helper()
	productoID := uuid.New()
	require.NoError(t, f.inventarioRepo.Create(context.Background(), &model.Inventario{
		ProductoID:  productoID,
		SedeID:      f.sedeID,
		StockActual: stock,
		StockMinimo: 2,
		StockMaximo: 100,
	}))
	return productoID
}

func (f *ventaFixture) stockDe(productoID uuid.UUID) int {
	inv, err := f.inventarioRepo.FindByProductoSede(context.Background(), productoID, f.sedeID)
	if err != nil {
		return -999
	}
	return inv.StockActual
}

func linea(productoID uuid.UUID, cantidad int, precio float64) dto.DetalleVentaRequest {
	return dto.DetalleVentaRequest{
		ProductoID:     productoID.String(),
		Cantidad:       cantidad,
		PrecioUnitario: decimal.NewFromFloat(precio),
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRegistrarVenta_TotalEsSumaDeSubtotales(t *testing.T) {
	f := buildVentaSvc(t, true)
	p1 := f.seedStock(t, 50)
	p2 := f.seedStock(t, 50)
	p3 := f.seedStock(t, 50)

	resp, err := f.svc.RegistrarVenta(context.Background(), f.vendedorID, dto.RegistrarVentaRequest{
		MetodoPago: "efectivo",
		Detalles: []dto.DetalleVentaRequest{
			linea(p1, 2, 89.90),  // 179.80
			linea(p2, 1, 120.50), // 120.50
			linea(p3, 3, 15.00),  // 45.00
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "completada", resp.Estado)

	suma := decimal.Zero
	for _, d := range resp.Detalles {
		assert.True(t, d.Subtotal.Equal(d.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad)))),
			"subtotal de %s", d.ProductoID)
		suma = suma.Add(d.Subtotal)
	}
	assert.True(t, resp.Total.Equal(suma), "total %s != suma %s", resp.Total, suma)
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(345.30)))
}

func TestRegistrarVenta_CarritoVacio(t *testing.T) {
	f := buildVentaSvc(t, true)

	_, err := f.svc.RegistrarVenta(context.Background(), f.vendedorID, dto.RegistrarVentaRequest{
		MetodoPago: "efectivo",
		Detalles:   nil,
	})
	assert.ErrorIs(t, err, service.ErrCarritoVacio)

	// Nothing persisted: no header, no lines.
	assert.Empty(t, f.ventaRepo.ventas)
}

func TestRegistrarVenta_SinSedeAsignada(t *testing.T) {
	f := buildVentaSvc(t, false)
	p := f.seedStock(t, 10)

	_, err := f.svc.RegistrarVenta(context.Background(), f.vendedorID, dto.RegistrarVentaRequest{
		MetodoPago: "tarjeta",
		Detalles:   []dto.DetalleVentaRequest{linea(p, 1, 10)},
	})
	assert.ErrorIs(t, err, service.ErrSinSedeAsignada)
	assert.Empty(t, f.ventaRepo.ventas)
}

func TestRegistrarVenta_DescuentaStockPorLinea(t *testing.T) {
	f := buildVentaSvc(t, true)
	p1 := f.seedStock(t, 10)
	p2 := f.seedStock(t, 8)

	_, err := f.svc.RegistrarVenta(context.Background(), f.vendedorID, dto.RegistrarVentaRequest{
		MetodoPago: "efectivo",
		Detalles: []dto.DetalleVentaRequest{
			linea(p1, 3, 100),
			linea(p2, 2, 50),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, f.stockDe(p1))
	assert.Equal(t, 6, f.stockDe(p2))
}

func TestRegistrarVenta_DescuentoFallidoNoAbortaLaVenta(t *testing.T) {
	// One line points to a product with no stock record at the sede. The
	// discount for that line fails and is skipped; the sale still completes
	// and the other line is discounted.
	f := buildVentaSvc(t, true)
	conStock := f.seedStock(t, 10)
	sinRegistro := uuid.New()

	resp, err := f.svc.RegistrarVenta(context.Background(), f.vendedorID, dto.RegistrarVentaRequest{
		MetodoPago: "efectivo",
		Detalles: []dto.DetalleVentaRequest{
			linea(conStock, 2, 100),
			linea(sinRegistro, 1, 30),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "completada", resp.Estado)
	assert.Len(t, resp.Detalles, 2)
	assert.Equal(t, 8, f.stockDe(conStock))
}

func TestRegistrarVenta_FalloEnDetallesDejaHeaderHuerfano(t *testing.T) {
	// Header and lines are separate statements: when the line insert fails the
	// header stays committed and no stock moves.
	f := buildVentaSvc(t, true)
	p := f.seedStock(t, 10)
	f.ventaRepo.failDetalles = true

	_, err := f.svc.RegistrarVenta(context.Background(), f.vendedorID, dto.RegistrarVentaRequest{
		MetodoPago: "efectivo",
		Detalles:   []dto.DetalleVentaRequest{linea(p, 2, 100)},
	})
	require.Error(t, err)

	assert.Len(t, f.ventaRepo.ventas, 1)
	for _, v := range f.ventaRepo.ventas {
		assert.Empty(t, v.Detalles)
	}
	assert.Equal(t, 10, f.stockDe(p))
}

func TestCancelarVenta_NoReponeStock(t *testing.T) {
	f := buildVentaSvc(t, true)
	p := f.seedStock(t, 10)

	resp, err := f.svc.RegistrarVenta(context.Background(), f.vendedorID, dto.RegistrarVentaRequest{
		MetodoPago: "efectivo",
		Detalles:   []dto.DetalleVentaRequest{linea(p, 4, 200)},
	})
	require.NoError(t, err)
	require.Equal(t, 6, f.stockDe(p))

	cancelada, err := f.svc.CancelarVenta(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "cancelada", cancelada.Estado)

	// Stock stays where the sale left it.
	assert.Equal(t, 6, f.stockDe(p))
}

func TestCancelarVenta_YaCancelada(t *testing.T) {
	f := buildVentaSvc(t, true)
	p := f.seedStock(t, 10)

	resp, err := f.svc.RegistrarVenta(context.Background(), f.vendedorID, dto.RegistrarVentaRequest{
		MetodoPago: "otro",
		Detalles:   []dto.DetalleVentaRequest{linea(p, 1, 99)},
	})
	require.NoError(t, err)

	id := uuid.MustParse(resp.ID)
	_, err = f.svc.CancelarVenta(context.Background(), id)
	require.NoError(t, err)

	_, err = f.svc.CancelarVenta(context.Background(), id)
	assert.ErrorIs(t, err, service.ErrVentaYaCancelada)
}

func TestCancelarVenta_NoExiste(t *testing.T) {
	f := buildVentaSvc(t, true)
	_, err := f.svc.CancelarVenta(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestRegistrarVenta_CantidadCero(t *testing.T) {
	f := buildVentaSvc(t, true)
	p := f.seedStock(t, 10)

	_, err := f.svc.RegistrarVenta(context.Background(), f.vendedorID, dto.RegistrarVentaRequest{
		MetodoPago: "efectivo",
		Detalles:   []dto.DetalleVentaRequest{linea(p, 0, 50)},
	})
	assert.ErrorIs(t, err, service.ErrCantidadInvalida)
	assert.Empty(t, f.ventaRepo.ventas)
}
