package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/presenca-labs/presenca/internal/api/docs"
	"github.com/presenca-labs/presenca/internal/api/handler"
	"github.com/presenca-labs/presenca/internal/api/middleware"
	"github.com/presenca-labs/presenca/internal/service"
)

type Dependencies struct {
	Service *service.AttendanceService
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Presenca API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Prometheus metrics
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Health check endpoints
	healthHandler := handler.NewHealthHandler()
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	v1 := r.app.Group("/v1")

	identityHandler := handler.NewIdentityHandler(r.deps.Service, r.logger)
	attendanceHandler := handler.NewAttendanceHandler(r.deps.Service, r.logger)

	// Enrollment routes
	v1.Post("/identities", identityHandler.Enroll)
	v1.Get("/identities", identityHandler.List)
	v1.Get("/identities/:id", identityHandler.Get)
	v1.Delete("/identities/:id", identityHandler.Delete)

	// Attendance routes
	v1.Post("/attendance/recognize", attendanceHandler.Recognize)
	v1.Get("/attendance/today", attendanceHandler.Today)
	v1.Get("/attendance/stats", attendanceHandler.Stats)
	v1.Get("/attendance/day/:day", attendanceHandler.ByDay)
	v1.Get("/attendance/history/:id", attendanceHandler.History)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}

func (r *Router) ShutdownWithTimeout(timeout time.Duration) error {
	return r.app.ShutdownWithTimeout(timeout)
}
