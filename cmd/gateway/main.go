package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marlosirapuan/doc-sign-web/internal/backend"
	"github.com/marlosirapuan/doc-sign-web/internal/config"
	"github.com/marlosirapuan/doc-sign-web/internal/geo"
	"github.com/marlosirapuan/doc-sign-web/internal/http/handler"
	"github.com/marlosirapuan/doc-sign-web/internal/http/middleware"
	"github.com/marlosirapuan/doc-sign-web/internal/notify"
	"github.com/marlosirapuan/doc-sign-web/internal/otel"
	"github.com/marlosirapuan/doc-sign-web/internal/service"
	"github.com/marlosirapuan/doc-sign-web/internal/session"
	"github.com/marlosirapuan/doc-sign-web/internal/signature"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	shutdownTracing, err := otel.Init(context.Background())
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}

	sessionPath := cfg.SessionFile
	if sessionPath == "" {
		sessionPath, err = session.DefaultPath()
		if err != nil {
			log.Fatalf("failed to resolve session path: %v", err)
		}
	}
	sess := session.New(sessionPath)

	client := backend.NewHTTPClient(cfg.Backend, sess)
	notifier := notify.NewLogNotifier(os.Stdout, 20)
	composer := signature.NewComposer()
	location := geo.NewClient(cfg.Geo)
	ctrl := service.NewController(client, sess, composer, location, notifier, cfg.Geo.Timeout)

	// Metrics: per-route request counts plus a session-active gauge fed by
	// the store's change notifications.
	registry := prometheus.NewRegistry()
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	sessionActive := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "session_active",
		Help: "Whether a backend session token is currently held (1) or not (0).",
	})
	if err := registry.Register(sessionActive); err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	if sess.Active() {
		sessionActive.Set(1)
	}
	sess.Subscribe(func(token string) {
		if token != "" {
			sessionActive.Set(1)
		} else {
			sessionActive.Set(0)
		}
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: handler.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(promMiddleware.Handler())
	app.Use(otelfiber.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handler.RegisterRoutes(app, handler.Deps{
		Controller:    ctrl,
		Session:       sess,
		Notifications: notifier,
		Backend:       client,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("tracing shutdown: %v", err)
	}
}
