package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/retailku/order-admin/internal/order/events"
	"github.com/retailku/order-admin/internal/order/handler"
	"github.com/retailku/order-admin/internal/order/repository"
	"github.com/retailku/order-admin/internal/order/service"
	"github.com/retailku/order-admin/pkg/auth"
	"github.com/retailku/order-admin/pkg/config"
	"github.com/retailku/order-admin/pkg/httputil"
	"github.com/retailku/order-admin/pkg/i18n"
	"github.com/retailku/order-admin/pkg/logger"
	"github.com/retailku/order-admin/pkg/messaging"
)

const serviceName = "order-admin"

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(serviceName, cfg.Server.Environment)
	log.Info().Str("driver", cfg.Store.Driver).Msg("starting Order Admin")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the document store
	gw, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open document store")
	}
	defer gw.Close()

	// Connect to RabbitMQ when configured
	var (
		publisher    messaging.EventPublisher = messaging.NopPublisher{}
		brokerHealth                          = func() map[string]string { return map[string]string{"status": "disabled"} }
	)
	if cfg.RabbitMQ.URL != "" {
		rmq, err := messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		pub, err := messaging.NewPublisher(rmq, messaging.ExchangeOrderEvents, serviceName, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		publisher = pub
		brokerHealth = rmq.Health
	} else {
		log.Warn().Msg("rabbitmq url not set, order events are not published")
	}

	// Wire the order view
	repo := repository.NewOrderRepository(gw, cfg.Store.OrdersCollection, cfg.Store.UsersCollection)
	registry := service.NewViewRegistry(repo, events.NewOrderEventPublisher(publisher, log), log, service.RegistryConfig{
		LoadTimeout: cfg.Store.LoadTimeout,
		TTL:         cfg.Store.ViewTTL,
	})

	loc := cfg.Store.Location()
	pageHandler := handler.NewPageHandler(registry, loc, !cfg.Server.IsDevelopment(), log)
	apiHandler := handler.NewAPIHandler(registry, loc, log)

	jwtManager := auth.NewManager(&cfg.JWT)
	if !jwtManager.Enabled() {
		log.Warn().Msg("jwt secret not set, admin authentication is disabled")
	}

	// Create router
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(i18n.Middleware(cfg.Store.Locale))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  serviceName,
			"store":    repo.Health(r.Context()),
			"rabbitmq": brokerHealth(),
			"views":    registry.Len(),
		})
	})

	// Server-rendered admin page
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin(jwtManager, log, auth.MiddlewareOptions{
			AllowCookie: true,
			OnError:     handler.AuthError,
		}))
		pageHandler.Routes(r)
	})

	// JSON API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"https://*", "http://*"},
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		r.Use(middleware.Timeout(cfg.Server.WriteTimeout))
		r.Use(auth.RequireAdmin(jwtManager, log, auth.MiddlewareOptions{}))
		apiHandler.Routes(r)
	})

	// Evict idle views until shutdown
	registryDone := make(chan struct{})
	go func() {
		registry.Run(ctx)
		close(registryDone)
	}()

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Info().Msg("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	<-registryDone

	log.Info().Msg("server stopped")
}
