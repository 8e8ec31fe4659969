package router

import (
	"time"

	"restopos/internal/config"
	"restopos/internal/handler"
	"restopos/internal/infra"
	"restopos/internal/middleware"
	"restopos/internal/permission"
	"restopos/internal/repository"
	"restopos/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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
	var notifier service.DiscrepancyNotifier
	if cfg.SMTPHost != "" {
		notifier = infra.NewMailer(cfg)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	accountRepo := repository.NewAccountRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	sessionRepo := repository.NewCashSessionRepository(db)
	ticketRepo := repository.NewTicketRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(accountRepo, roleRepo, rdb, cfg)
	accountSvc := service.NewAccountService(accountRepo, roleRepo)
	roleSvc := service.NewRoleService(roleRepo, accountRepo, rdb)
	registerSvc := service.NewCashRegisterService(sessionRepo, ticketRepo, notifier)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, cfg)
	accountsH := handler.NewAccountsHandler(accountSvc)
	rolesH := handler.NewRolesHandler(roleSvc)
	registerH := handler.NewCashRegisterHandler(registerSvc, cfg.PDFStoragePath)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	r.POST("/logout", authH.Logout)
	r.POST("/accounts/bootstrap", accountsH.Bootstrap)

	// Everything below requires a valid session
	authMW := middleware.Authenticate(cfg.SessionSecret, authSvc)
	priv := r.Group("/", authMW)
	{
		register := priv.Group("/cash-register")
		{
			register.GET("", middleware.RequirePermission(permission.POSUse), registerH.Status)
			register.POST("/open", middleware.RequirePermission(permission.CashOpen), registerH.Open)
			register.POST("/close", middleware.RequirePermission(permission.CashClose), registerH.Close)
			register.GET("/sessions", middleware.RequirePermission(permission.CashClose), registerH.History)
		}

		closeout := priv.Group("/cash-close", middleware.RequirePermission(permission.CashClose))
		{
			closeout.GET("", registerH.Closeout)
			closeout.GET("/pdf", registerH.CloseoutPDF)
		}

		// Account and role administration — settings.manage (or admin)
		settings := middleware.RequirePermission(permission.SettingsManage)

		accounts := priv.Group("/accounts", settings)
		{
			accounts.POST("", accountsH.Create)
			accounts.GET("", accountsH.List)
			accounts.GET("/:id", accountsH.Get)
			accounts.PUT("/:id", accountsH.Update)
			accounts.DELETE("/:id", accountsH.Delete)
		}

		roles := priv.Group("/roles", settings)
		{
			roles.POST("", rolesH.Create)
			roles.GET("", rolesH.List)
			roles.GET("/:id", rolesH.Get)
			roles.PUT("/:id", rolesH.Update)
			roles.DELETE("/:id", rolesH.Delete)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
