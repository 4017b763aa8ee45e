package router

import (
	"context"
	"time"

	"github.com/diazinho777/Ferreteria-sistema/internal/config"
	"github.com/diazinho777/Ferreteria-sistema/internal/handler"
	"github.com/diazinho777/Ferreteria-sistema/internal/infra"
	"github.com/diazinho777/Ferreteria-sistema/internal/middleware"
	"github.com/diazinho777/Ferreteria-sistema/internal/policy"
	"github.com/diazinho777/Ferreteria-sistema/internal/repository"
	"github.com/diazinho777/Ferreteria-sistema/internal/service"
	"github.com/diazinho777/Ferreteria-sistema/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil; the lookup cache and ticket emails are then disabled.
// ctx bounds the background goroutines started here (rate limiter purge).
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	apiLimiter := middleware.NewRateLimiter(1000, time.Minute, "Demasiadas solicitudes. Intente más tarde.")
	loginLimiter := middleware.LoginRateLimiter()
	apiLimiter.StartPurge(ctx)
	loginLimiter.StartPurge(ctx)

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(cfg.CORSOrigen))
	r.Use(apiLimiter.Middleware())

	// ── Infrastructure ───────────────────────────────────────────────────────
	cache := infra.NewProductoCache(rdb, time.Duration(cfg.CacheProductoTTL)*time.Second)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	historialCostoRepo := repository.NewHistorialCostoRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo, historialCostoRepo, cache, cfg.StockPermitirNegativo)
	productoSvc := service.NewProductoService(productoRepo, categoriaRepo, inventarioSvc, cache)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, clienteRepo, inventarioSvc, cache, dispatcher, service.VentaOpciones{
		ValidarTotal: cfg.VentaValidarTotal,
		Empresa:      infra.NewEmpresa(cfg),
	})
	compraSvc := service.NewCompraService(compraRepo, productoRepo, proveedorRepo, historialCostoRepo, inventarioSvc, cache)
	reporteSvc := service.NewReporteService(reporteRepo, ventaRepo, productoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	consultaH := handler.NewConsultaProductoHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc, reporteSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailer))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	gate := policy.NewGate()
	can := func(capability policy.Capability) gin.HandlerFunc {
		return middleware.RequireCapability(gate, capability)
	}

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		v1.GET("/dashboard", can(policy.ReportesVer), reportesH.Dashboard)

		v1.POST("/ventas", can(policy.VentasRegistrar), ventasH.RegistrarVenta)
		v1.GET("/ventas", can(policy.VentasVer), ventasH.ListarVentas)
		v1.GET("/ventas/:id", can(policy.VentasVer), ventasH.ObtenerVenta)
		v1.GET("/ventas/:id/ticket", can(policy.VentasVer), ventasH.Ticket)

		v1.GET("/productos", can(policy.ProductosVer), productosH.Listar)
		v1.GET("/productos/:id", can(policy.ProductosVer), productosH.ObtenerPorID)
		v1.GET("/productos/:id/consulta", can(policy.ProductosVer), consultaH.Consultar)
		v1.GET("/productos/:id/kardex", can(policy.InventarioVer), inventarioH.Kardex)
		v1.GET("/productos/:id/historial-costos", can(policy.InventarioVer), inventarioH.HistorialCostos)
		v1.POST("/productos/:id/perdida", can(policy.InventarioAjustar), inventarioH.ReportarPerdida)
		v1.POST("/productos/:id/ajuste", can(policy.InventarioAjustar), inventarioH.Ajustar)
		prods := v1.Group("/productos", can(policy.ProductosGestionar))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/activar", productosH.Activar)
		}

		inv := v1.Group("/inventario")
		{
			inv.GET("/movimientos", can(policy.InventarioVer), inventarioH.ListarMovimientos)
			inv.GET("/alertas", can(policy.InventarioVer), inventarioH.Alertas)
			inv.GET("/exportar", can(policy.ReportesVer), inventarioH.Exportar)
		}

		compras := v1.Group("/compras", can(policy.ComprasRegistrar))
		{
			compras.POST("", comprasH.RegistrarCompra)
			compras.GET("", comprasH.ListarCompras)
			compras.GET("/:id", comprasH.ObtenerCompra)
		}

		// Categorías: every reader of the catalogue can list them
		v1.GET("/categorias", can(policy.ProductosVer), categoriasH.Listar)
		categorias := v1.Group("/categorias", can(policy.CatalogoGestionar))
		{
			categorias.POST("", categoriasH.Crear)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Eliminar)
		}

		prov := v1.Group("/proveedores", can(policy.CatalogoGestionar))
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.Obtener)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Eliminar)
		}

		clientes := v1.Group("/clientes", can(policy.ClientesGestionar))
		{
			clientes.GET("/buscar", clientesH.Buscar)
			clientes.POST("/rapido", clientesH.CrearRapido)
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obtener)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Eliminar)
		}

		rep := v1.Group("/reportes", can(policy.ReportesVer))
		{
			rep.GET("/financiero", reportesH.Financiero)
			rep.GET("/top-productos", reportesH.TopProductos)
			rep.GET("/top-clientes", reportesH.TopClientes)
			rep.GET("/top-operadores", reportesH.TopOperadores)
		}

		usuarios := v1.Group("/usuarios", can(policy.UsuariosGestionar))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
