package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tableside/tableside/internal/api"
	"github.com/tableside/tableside/internal/catalog"
	"github.com/tableside/tableside/internal/order"
	"github.com/tableside/tableside/internal/ws"
	"github.com/tableside/tableside/pkg/health"
	"github.com/tableside/tableside/pkg/httpmiddleware"
)

// middlewares builds the chain installed around the server mux, outermost
// first. Every route goes through it, including the WebSocket upgrade.
func middlewares(ctx context.Context, lg *zap.Logger, cfg *Config, otelOpts ...otelhttp.Option) []httpmiddleware.Middleware {
	return []httpmiddleware.Middleware{
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cfg.CORS.Origins,
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(lg),
		func(next http.Handler) http.Handler {
			return otelhttp.NewHandler(next, "tableside-api", otelOpts...)
		},
		httpmiddleware.LogRequests(),
	}
}

// Run creates all dependencies, starts the WebSocket hub and the HTTP server,
// and handles graceful shutdown. It is the single wiring point for the
// application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// Embedded menu catalog.
	menuRepo, err := catalog.NewStaticRepository()
	if err != nil {
		return errors.Wrap(err, "load menu catalog")
	}

	// Dashboard fan-out hub + order ledger.
	hub := ws.NewHub(lg.Named("ws"), ws.Config{AllowedOrigins: cfg.WS.Origins})
	ledger := order.NewLedger(hub)

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddReadinessCheck("ws-hub", time.Second, func(context.Context) error {
		if !hub.Running() {
			return errors.New("hub not running")
		}
		return nil
	})
	healthSvc.Start(ctx, 10*time.Second)

	// HTTP handlers.
	h, err := api.NewHandler(
		api.Config{ImageBaseURL: cfg.ImageBaseURL},
		menuRepo,
		ledger,
		hub,
		m.MeterProvider().Meter("tableside"),
	)
	if err != nil {
		return errors.Wrap(err, "create api handler")
	}

	// Mux: health endpoints + API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux, middlewares(ctx, zctx.From(ctx), cfg,
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		)...),
	}

	g, ctx := errgroup.WithContext(ctx)

	// Upgraded connections are hijacked, so the server timeouts above do
	// not apply to them; the hub manages its own deadlines.
	g.Go(func() error {
		return hub.Run(ctx)
	})

	g.Go(func() error {
		healthSvc.SetReady(true)
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	g.Go(func() error {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		return nil
	})

	return g.Wait()
}
