package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/web"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/ws"
)

type Dependencies struct {
	Service  handler.EmotionService
	Renderer *web.Renderer
	// Hub is optional; without it /ws is not mounted
	Hub *ws.Hub
}

// Options tunes the HTTP surface
type Options struct {
	// BodyLimit in bytes; zero keeps fiber's default
	BodyLimit int
	RateLimit middleware.RateLimiterConfig
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	opts        Options
	rateLimiter *middleware.RateLimiter
	cancelHub   context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies, opts Options) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Emotion Dashboard",
		BodyLimit:    opts.BodyLimit,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
		opts:   opts,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	healthHandler := handler.NewHealthHandler(r.deps.Service, r.logger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	renderer := r.deps.Renderer
	if renderer == nil {
		renderer = web.MustNewRenderer()
	}
	pageHandler := handler.NewPageHandler(r.deps.Service, renderer, r.logger)
	r.app.Get("/", pageHandler.Index)
	r.app.Get("/dashboard", pageHandler.Dashboard)

	emotionHandler := handler.NewEmotionHandler(r.deps.Service, r.logger)
	r.rateLimiter = middleware.NewRateLimiter(r.opts.RateLimit)
	r.app.Post("/analyze", r.rateLimiter.Handler(), emotionHandler.Analyze)
	r.app.Get("/api/summary", emotionHandler.Summary)

	if r.deps.Hub != nil {
		hubCtx, hubCancel := context.WithCancel(context.Background())
		r.cancelHub = hubCancel
		go r.deps.Hub.Run(hubCtx)

		r.app.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.deps.Hub))
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	if r.cancelHub != nil {
		r.cancelHub()
	}

	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
