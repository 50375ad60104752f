package router

import (
	"time"

	"pudahuelpos/internal/config"
	"pudahuelpos/internal/handler"
	"pudahuelpos/internal/middleware"
	"pudahuelpos/internal/repository"
	"pudahuelpos/internal/service"
	"pudahuelpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	gastoRepo := repository.NewGastoRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, movimientoStockRepo, rdb)
	fiadoSvc := service.NewFiadoService(clienteRepo)
	turnoSvc := service.NewTurnoService(turnoRepo, ventaRepo, gastoRepo, dispatcher)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, turnoRepo, movimientoStockRepo, fiadoSvc)
	gastoSvc := service.NewGastoService(gastoRepo, turnoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductoHandler(productoSvc)
	ventasH := handler.NewVentaHandler(ventaSvc)
	turnosH := handler.NewTurnoHandler(turnoSvc)
	fiadosH := handler.NewFiadoHandler(fiadoSvc)
	gastosH := handler.NewGastoHandler(gastoSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check, no auth required
	r.GET("/v1/precio/:barcode", consultaH.GetPrecioPorBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole("vendedor", "admin")
	adminOnly := middleware.RequireRole("admin")

	v1 := r.Group("/v1", jwtMW)
	{
		ventas := v1.Group("/ventas", anyRole)
		{
			ventas.POST("", ventasH.Registrar)
			ventas.GET("", ventasH.Listar)
			ventas.GET("/:id", ventasH.Obtener)
			ventas.POST("/:id/devolucion", ventasH.Devolucion)
			ventas.PATCH("/:id/metodo-pago", ventasH.CambiarMetodoPago)
		}

		turnos := v1.Group("/turnos", anyRole)
		{
			turnos.POST("/abrir", turnosH.Abrir)
			turnos.POST("/cerrar", turnosH.Cerrar)
			turnos.GET("/actual", turnosH.Actual)
			turnos.GET("/resumen", turnosH.Resumen)
			turnos.GET("/historial", turnosH.Historial)
			turnos.GET("/:id/gastos", gastosH.ListarPorTurno)
		}

		gastos := v1.Group("/gastos", anyRole)
		{
			gastos.POST("", gastosH.Registrar)
			gastos.GET("", gastosH.ListarTurnoActual)
		}

		fiados := v1.Group("/fiados", anyRole)
		{
			fiados.POST("", fiadosH.Crear)
			fiados.GET("", fiadosH.Listar)
			fiados.GET("/:id", fiadosH.Detalle)
			fiados.POST("/:id/pagos", fiadosH.RegistrarPago)
		}
		// Authorization toggle is an admin decision
		v1.PATCH("/fiados/:id/autorizacion", adminOnly, fiadosH.SetAutorizacion)

		v1.GET("/productos", anyRole, productosH.Listar)
		v1.GET("/productos/stock-bajo", anyRole, productosH.StockBajo)
		v1.GET("/productos/:id", anyRole, productosH.Obtener)
		prods := v1.Group("/productos", adminOnly)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.PATCH("/:id/stock", productosH.AjustarStock)
			prods.DELETE("/:id", productosH.Desactivar)
		}

		usuarios := v1.Group("/usuarios", adminOnly)
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.ActualizarUsuario)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
