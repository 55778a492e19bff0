package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/towerops/toweradmin/internal/api/handler"
	"github.com/towerops/toweradmin/internal/api/middleware"
	"github.com/towerops/toweradmin/internal/core/domain"
	"github.com/towerops/toweradmin/internal/core/service"
	"github.com/towerops/toweradmin/internal/infrastructure/config"
	mongodb "github.com/towerops/toweradmin/internal/infrastructure/db/mongo"
	redisdb "github.com/towerops/toweradmin/internal/infrastructure/db/redis"
	"github.com/towerops/toweradmin/internal/infrastructure/tower"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tower_admin"))
	e.Use(echomiddleware.CORS())

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	instanceRepo := mongodb.NewInstanceRepository(db)
	credentialRepo := mongodb.NewCredentialRepository(db)
	environmentRepo := mongodb.NewEnvironmentRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	configRepo := mongodb.NewConfigRepository(db)

	gateway := tower.NewClient(nil)
	typeCache := redisdb.NewTypeCache(rdb, log)

	auditService := service.NewAuditService(auditRepo, log)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	userService := service.NewUserService(userRepo, auditService, log)
	instanceService := service.NewInstanceService(instanceRepo, auditService, log)
	credentialService := service.NewCredentialService(credentialRepo, auditService, log)
	environmentService := service.NewEnvironmentService(environmentRepo, auditService, log)
	credTypeService := service.NewCredentialTypeService(instanceRepo, gateway, typeCache, log)
	connectionService := service.NewConnectionService(gateway, configRepo, log)

	authHandler := handler.NewAuthHandler(authService, userRepo)
	userHandler := handler.NewUserHandler(userService)
	instanceHandler := handler.NewInstanceHandler(instanceService)
	credentialHandler := handler.NewCredentialHandler(credentialService)
	environmentHandler := handler.NewEnvironmentHandler(environmentService)
	auditHandler := handler.NewAuditHandler(auditService)
	credTypeHandler := handler.NewCredentialTypeHandler(credTypeService)
	connectionHandler := handler.NewConnectionHandler(connectionService)
	configHandler := handler.NewConfigHandler(configRepo)

	authMW := middleware.Auth(cfg.JWTSecret)

	// --- Token endpoints (no auth) ---
	apiGroup := e.Group("/api")
	apiGroup.POST("/token/", authHandler.Token)
	apiGroup.POST("/token/refresh/", authHandler.Refresh)

	// --- Authenticated routes; viewers are read-only ---
	authed := apiGroup.Group("", authMW, middleware.ReadOnlyForViewer)
	authed.GET("/user-info/", authHandler.UserInfo)

	registerCRUD(authed, "/instances", instanceHandler.List, instanceHandler.Create, instanceHandler.Update, instanceHandler.Delete)
	registerCRUD(authed, "/tower", instanceHandler.List, instanceHandler.Create, instanceHandler.Update, instanceHandler.Delete)
	registerCRUD(authed, "/credentials", credentialHandler.List, credentialHandler.Create, credentialHandler.Update, credentialHandler.Delete)
	registerCRUD(authed, "/environments", environmentHandler.List, environmentHandler.Create, environmentHandler.Update, environmentHandler.Delete)

	authed.GET("/audit-logs/", auditHandler.List)
	authed.GET("/credential-type-status/", credTypeHandler.Status)
	authed.POST("/duplicate-credential-type/", credTypeHandler.Duplicate)
	authed.POST("/verify-credential-type/", credTypeHandler.Verify)
	authed.POST("/test-connection/", connectionHandler.Test)
	authed.GET("/tower-credentials/", connectionHandler.TowerCredentials)

	// --- Admin-only routes ---
	adminOnly := apiGroup.Group("", authMW, middleware.RequireRole(domain.RoleAdmin))
	registerCRUD(adminOnly, "/users", userHandler.List, userHandler.Create, userHandler.Update, userHandler.Delete)
	adminOnly.GET("/config/", configHandler.Get)
	adminOnly.POST("/config/", configHandler.Save)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

// registerCRUD wires the trailing-slash route style used by the original
// API: list/create on the collection, update/delete on /<id>/.
func registerCRUD(g *echo.Group, base string, list, create, update, del echo.HandlerFunc) {
	g.GET(base+"/", list)
	g.POST(base+"/", create)
	g.PUT(base+"/:id/", update)
	g.DELETE(base+"/:id/", del)
}
