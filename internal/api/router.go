package api

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/chismoso/checkin-api/docs"
	"github.com/chismoso/checkin-api/internal/api/handler"
	"github.com/chismoso/checkin-api/internal/api/middleware"
	"github.com/chismoso/checkin-api/internal/core/auth"
	"github.com/chismoso/checkin-api/internal/core/ports"
	"github.com/chismoso/checkin-api/internal/infrastructure/http/handlers"
	"github.com/chismoso/checkin-api/pkg/logger"
)

// Deps bundles everything the router needs, constructed in main.
type Deps struct {
	AuthService   ports.AuthService
	UserService   ports.UserService
	ReportService ports.ReportService
	AIProxy       handler.AIProxy
	Policy        *auth.Policy
	DB            *sql.DB
	Redis         *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("checkin"))
	// The browser extension calls from arbitrary origins.
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-Admin-Email"},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)
	reportHandler := handler.NewReportHandler(deps.ReportService)
	aiHandler := handler.NewAIHandler(deps.AIProxy)

	reportsAuth := middleware.Authenticate(deps.Policy, auth.SurfaceReports)
	accountsAuth := middleware.Authenticate(deps.Policy, auth.SurfaceAccounts)

	apiGroup := e.Group("/api")

	// --- Auth ---
	apiGroup.POST("/auth/register", authHandler.Register)
	apiGroup.POST("/auth/login", authHandler.Login)
	apiGroup.GET("/auth/me", authHandler.Me, reportsAuth, middleware.RequireUser)

	// --- Self-service profile ---
	apiGroup.POST("/profile", userHandler.UpdateProfile, reportsAuth, middleware.RequireUser)

	// --- Directory administration ---
	apiGroup.GET("/users", userHandler.List, reportsAuth, middleware.RequireAdmin)
	apiGroup.POST("/users", userHandler.Provision, accountsAuth, middleware.RequireAdmin)
	apiGroup.POST("/users/role", userHandler.ChangeRole, accountsAuth, middleware.RequireAdmin)
	apiGroup.POST("/users/cleanup", userHandler.Cleanup, accountsAuth, middleware.RequireAdmin)
	apiGroup.DELETE("/users", userHandler.Delete, accountsAuth, middleware.RequireAdmin)

	// --- Submissions (the extension posts these without a session) ---
	apiGroup.POST("/checkins/weekly", reportHandler.SubmitWeekly)
	apiGroup.POST("/reports/monthly", reportHandler.SubmitMonthly)

	// --- Report reads ---
	apiGroup.GET("/reports/mine", reportHandler.Mine, reportsAuth, middleware.RequireUser)
	apiGroup.GET("/reports", reportHandler.All, reportsAuth, middleware.RequireAdmin)

	// --- Model proxy ---
	apiGroup.POST("/ai/proxy", aiHandler.Proxy)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
