//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MarcoAguilar2002/perfum/internal/config"
	"github.com/MarcoAguilar2002/perfum/internal/infra"
	"github.com/MarcoAguilar2002/perfum/internal/model"
	"github.com/MarcoAguilar2002/perfum/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Setup ────────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
	sedeID string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("perfum_test"),
		tcPostgres.WithUsername("perfum"),
		tcPostgres.WithPassword("perfum"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		CacheTTLMin:        1,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed sede + admin user
	sede := &model.Sede{Nombre: "Sede E2E", Direccion: "Calle Falsa 123", Activo: true}
	require.NoError(t, db.Create(sede).Error)

	hash, err := bcrypt.GenerateFromPassword([]byte("perfum2026"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := &model.Perfil{
		Email:        "admin@e2e.test",
		PasswordHash: string(hash),
		Rol:          "admin",
		SedeID:       &sede.ID,
		Activo:       true,
	}
	require.NoError(t, db.Create(admin).Error)

	smtpCB := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{})
	r := router.New(cfg, db, rdb, smtpCB)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"email": "admin@e2e.test", "password": "perfum2026"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken, sedeID: sede.ID.String()}
}

// crearProductoConStock creates a product plus its inventory record and
// returns (productoID, inventarioID).
func crearProductoConStock(t *testing.T, env *testEnv, nombre string, stock int) (string, string) {
	t.Helper()
	prodResp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"nombre":        nombre,
			"precio_compra": 45.0,
			"precio_venta":  89.9,
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	invResp := do(t, env.server, "POST", "/v1/inventario",
		jsonBody(t, map[string]any{
			"producto_id":  prod.ID,
			"sede_id":      env.sedeID,
			"stock_actual": stock,
			"stock_minimo": 2,
			"stock_maximo": 100,
		}), env.token)
	require.Equal(t, http.StatusCreated, invResp.StatusCode)
	var inv struct {
		ID string `json:"id"`
	}
	decodeJSON(t, invResp, &inv)
	return prod.ID, inv.ID
}

func stockActual(t *testing.T, env *testEnv, inventarioID string) int {
	t.Helper()
	resp := do(t, env.server, "GET", "/v1/inventario/"+inventarioID, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var inv struct {
		StockActual int `json:"stock_actual"`
	}
	decodeJSON(t, resp, &inv)
	return inv.StockActual
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CicloDeVentaCompleto(t *testing.T) {
	env := setupTestEnv(t)
	prodID, invID := crearProductoConStock(t, env, "Eau de Parfum 50ml", 20)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"metodo_pago": "efectivo",
			"detalles": []map[string]any{
				{"producto_id": prodID, "cantidad": 3, "precio_unitario": "89.90"},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID     string `json:"id"`
		Total  string `json:"total"`
		Estado string `json:"estado"`
	}
	decodeJSON(t, ventaResp, &venta)
	assert.Equal(t, "completada", venta.Estado)
	assert.Equal(t, "269.7", venta.Total)

	// Stock discounted at the vendedor's sede
	assert.Equal(t, 17, stockActual(t, env, invID))

	listResp := do(t, env.server, "GET", "/v1/ventas?estado=completada", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
}

func TestE2E_CancelarVentaNoReponeStock(t *testing.T) {
	env := setupTestEnv(t)
	prodID, invID := crearProductoConStock(t, env, "Eau de Toilette 100ml", 10)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"metodo_pago": "tarjeta",
			"detalles": []map[string]any{
				{"producto_id": prodID, "cantidad": 4, "precio_unitario": "120.00"},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID string `json:"id"`
	}
	decodeJSON(t, ventaResp, &venta)
	require.Equal(t, 6, stockActual(t, env, invID))

	cancelResp := do(t, env.server, "POST", "/v1/ventas/"+venta.ID+"/cancelar", nil, env.token)
	require.Equal(t, http.StatusOK, cancelResp.StatusCode)
	var cancelada struct {
		Estado string `json:"estado"`
	}
	decodeJSON(t, cancelResp, &cancelada)
	assert.Equal(t, "cancelada", cancelada.Estado)

	// Stock stays where the sale left it.
	assert.Equal(t, 6, stockActual(t, env, invID))
}

func TestE2E_RegistroInventarioDuplicado(t *testing.T) {
	env := setupTestEnv(t)
	prodID, _ := crearProductoConStock(t, env, "Extrait 30ml", 5)

	dupResp := do(t, env.server, "POST", "/v1/inventario",
		jsonBody(t, map[string]any{
			"producto_id":  prodID,
			"sede_id":      env.sedeID,
			"stock_actual": 99,
		}), env.token)
	defer dupResp.Body.Close()
	assert.Equal(t, http.StatusConflict, dupResp.StatusCode)
}

func TestE2E_AjusteManualConGuardaDeNegativo(t *testing.T) {
	env := setupTestEnv(t)
	_, invID := crearProductoConStock(t, env, "Body Mist 200ml", 5)

	// Projected result would be -2 → rejected by the handler.
	rechazo := do(t, env.server, "PATCH", "/v1/inventario/"+invID+"/ajustar",
		jsonBody(t, map[string]any{"cantidad": -7, "motivo": "merma"}), env.token)
	defer rechazo.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, rechazo.StatusCode)
	assert.Equal(t, 5, stockActual(t, env, invID))

	// A valid negative delta goes through.
	ok := do(t, env.server, "PATCH", "/v1/inventario/"+invID+"/ajustar",
		jsonBody(t, map[string]any{"cantidad": -3, "motivo": "merma"}), env.token)
	defer ok.Body.Close()
	require.Equal(t, http.StatusOK, ok.StatusCode)
	assert.Equal(t, 2, stockActual(t, env, invID))
}

func TestE2E_VentaSinDetalles(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"metodo_pago": "efectivo",
			"detalles":    []map[string]any{},
		}), env.token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	list := do(t, env.server, "GET", "/v1/ventas?estado=all", nil, env.token)
	require.Equal(t, http.StatusOK, list.StatusCode)
	var body struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, list, &body)
	assert.Zero(t, body.Total)
}

func TestE2E_ConsultaPreciosPublica(t *testing.T) {
	env := setupTestEnv(t)

	prodResp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"nombre":        "Perfume Nicho 75ml",
			"precio_compra": 200.0,
			"precio_venta":  450.0,
			"codigo_barras": "7750001000019",
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	prodResp.Body.Close()

	// No Authorization header.
	precioResp := do(t, env.server, "GET", "/v1/precio/7750001000019", nil, "")
	require.Equal(t, http.StatusOK, precioResp.StatusCode)
	var precio struct {
		Nombre      string `json:"nombre"`
		PrecioVenta string `json:"precio_venta"`
	}
	decodeJSON(t, precioResp, &precio)
	assert.Equal(t, "Perfume Nicho 75ml", precio.Nombre)
	assert.Equal(t, "450", precio.PrecioVenta)
}
