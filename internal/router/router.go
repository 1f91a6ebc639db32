package router

import (
	"time"

	"github.com/MarcoAguilar2002/perfum/internal/config"
	"github.com/MarcoAguilar2002/perfum/internal/handler"
	"github.com/MarcoAguilar2002/perfum/internal/infra"
	"github.com/MarcoAguilar2002/perfum/internal/middleware"
	"github.com/MarcoAguilar2002/perfum/internal/repository"
	"github.com/MarcoAguilar2002/perfum/internal/service"
	"github.com/MarcoAguilar2002/perfum/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	cache := infra.NewCache(rdb, time.Duration(cfg.CacheTTLMin)*time.Minute)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	perfilRepo := repository.NewPerfilRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	sedeRepo := repository.NewSedeRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(perfilRepo, cfg.JWTSecret,
		time.Duration(cfg.JWTExpirationHours)*time.Hour,
		time.Duration(cfg.JWTRefreshHours)*time.Hour)
	productoSvc := service.NewProductoService(productoRepo, cache)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	sedeSvc := service.NewSedeService(sedeRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	inventarioSvc := service.NewInventarioService(inventarioRepo, movimientoRepo, cache, dispatcher)
	ventaSvc := service.NewVentaService(ventaRepo, perfilRepo, inventarioSvc, cache, cfg.PDFStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	sedesH := handler.NewSedesHandler(sedeSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required
	r.GET("/v1/precio/:barcode", consultaH.GetPrecioPorBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: vendedor, gerente, admin — declared per-endpoint
		v1.POST("/ventas", middleware.RequireRole("vendedor", "gerente", "admin"), ventasH.Registrar)
		v1.GET("/ventas", middleware.RequireRole("vendedor", "gerente", "admin"), ventasH.Listar)
		v1.GET("/ventas/:id", middleware.RequireRole("vendedor", "gerente", "admin"), ventasH.ObtenerPorID)
		v1.GET("/ventas/:id/recibo", middleware.RequireRole("vendedor", "gerente", "admin"), ventasH.Recibo)
		v1.POST("/ventas/:id/cancelar", middleware.RequireRole("gerente", "admin"), ventasH.Cancelar)

		// Catalog reads — every authenticated role
		v1.GET("/productos", middleware.RequireRole("vendedor", "gerente", "admin"), productosH.Listar)
		v1.GET("/productos/:id", middleware.RequireRole("vendedor", "gerente", "admin"), productosH.ObtenerPorID)
		// Catalog writes — gerente or admin
		prods := v1.Group("/productos", middleware.RequireRole("gerente", "admin"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
		}

		v1.GET("/categorias", middleware.RequireRole("vendedor", "gerente", "admin"), categoriasH.Listar)
		categorias := v1.Group("/categorias", middleware.RequireRole("gerente", "admin"))
		{
			categorias.POST("", categoriasH.Crear)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Desactivar)
		}

		v1.GET("/sedes", middleware.RequireRole("vendedor", "gerente", "admin"), sedesH.Listar)
		v1.GET("/sedes/:id", middleware.RequireRole("vendedor", "gerente", "admin"), sedesH.ObtenerPorID)
		sedes := v1.Group("/sedes", middleware.RequireRole("admin"))
		{
			sedes.POST("", sedesH.Crear)
			sedes.PUT("/:id", sedesH.Actualizar)
			sedes.DELETE("/:id", sedesH.Desactivar)
		}

		clientes := v1.Group("/clientes", middleware.RequireRole("vendedor", "gerente", "admin"))
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.ObtenerPorID)
			clientes.PUT("/:id", clientesH.Actualizar)
		}
		v1.DELETE("/clientes/:id", middleware.RequireRole("gerente", "admin"), clientesH.Eliminar)

		inv := v1.Group("/inventario", middleware.RequireRole("gerente", "admin"))
		{
			inv.POST("", inventarioH.Crear)
			inv.GET("", inventarioH.Listar)
			inv.GET("/movimientos", inventarioH.ListarMovimientos)
			inv.GET("/:id", inventarioH.ObtenerPorID)
			inv.PUT("/:id", inventarioH.ActualizarUmbrales)
			inv.PATCH("/:id/ajustar", inventarioH.AjustarStock)
			inv.DELETE("/:id", inventarioH.Eliminar)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("admin"))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.ActualizarUsuario)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
			usuarios.PATCH("/:id/reactivar", authH.ReactivarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
