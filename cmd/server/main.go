package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fr0stylo/supportdeck/internal/adapters/fixture"
	"github.com/fr0stylo/supportdeck/internal/adapters/sqlite"
	"github.com/fr0stylo/supportdeck/internal/adapters/stripe"
	"github.com/fr0stylo/supportdeck/internal/app/ports"
	appservices "github.com/fr0stylo/supportdeck/internal/app/services"
	"github.com/fr0stylo/supportdeck/internal/config"
	"github.com/fr0stylo/supportdeck/internal/db"
	"github.com/fr0stylo/supportdeck/internal/observability"
	"github.com/fr0stylo/supportdeck/internal/server"
	"github.com/fr0stylo/supportdeck/internal/server/routes"
)

const latencyLogInterval = time.Minute

func main() {
	log := slog.New(observability.WrapSlogHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	var provider ports.IntentProvider = fixture.NewProvider()
	if cfg.UsesStripe() {
		provider = stripe.NewProvider(cfg.Payments.StripeSecretKey, cfg.Payments.StripeAPIURL)
	} else {
		slog.Warn("STRIPE_SECRET_KEY not set, using fixture payment provider")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.SetupOpenTelemetry(ctx, log, observability.OpenTelemetryConfig{
		Enabled:           cfg.Observability.Enabled,
		OTLPEndpoint:      cfg.Observability.OTLPEndpoint,
		OTLPTraceHeaders:  cfg.Observability.OTLPTraceHeaders,
		OTLPMetricHeaders: cfg.Observability.OTLPMetricHeaders,
		ServiceName:       cfg.Observability.ServiceName,
		ServiceVer:        cfg.Observability.ServiceVer,
		SamplingRatio:     cfg.Observability.SamplingRatio,
		MetricsConsole:    cfg.Observability.MetricsConsole,
		Environment:       cfg.Environment,
		PaymentProvider:   provider.Name(),
	})
	if err != nil {
		slog.Error("Failed to set up OpenTelemetry", "error", err)
		os.Exit(1)
	}
	flushTelemetry := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			slog.Error("Failed to flush telemetry", "error", err)
		}
	}
	defer flushTelemetry()

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		stop()
		flushTelemetry()
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()
	if cfg.Database.LogTiming {
		go logQueryLatency(ctx, database)
	}

	store := sqlite.NewStore(database)

	serviceName := ""
	if cfg.Observability.Enabled {
		serviceName = cfg.Observability.ServiceName
	}
	srv := server.New(log, server.Options{ServiceName: serviceName, CORSOrigins: cfg.Server.CORSOrigins})

	srv.RegisterRouter(routes.NewAPIRoutes(cfg.Observability.ServiceName, database))
	srv.RegisterRouter(routes.NewPaymentRoutes(appservices.NewPaymentIntentService(provider, store, log)))
	srv.RegisterRouter(routes.NewAuthRoutes(appservices.NewMembershipService(store, cfg.Membership.TokenTTL, cfg.Membership.Scope)))
	srv.RegisterRouter(routes.NewSupporterRoutes(appservices.NewTipJarService(store, cfg.TipJar.CreatorToken)))
	srv.RegisterRouter(routes.NewWebhookRoutes(appservices.NewWebhookIngestService(store)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.Server.Port, "public_url", cfg.Server.PublicURL, "provider", provider.Name(), "environment", cfg.Environment)
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Closing server", "error", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down server", "error", err)
		}
		slog.Info("Server stopped")
	}
}

func logQueryLatency(ctx context.Context, database *db.Database) {
	ticker := time.NewTicker(latencyLogInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, stat := range database.QueryLatencyStats() {
				slog.Info("Query latency", "query", stat.Name, "count", stat.Count, "p50", stat.P50, "p95", stat.P95, "max", stat.Max)
			}
		}
	}
}
