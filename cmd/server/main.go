package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"landregistry/internal/audit"
	"landregistry/internal/ledger"
	"landregistry/internal/platform/config"
	"landregistry/internal/platform/httpserver"
	"landregistry/internal/platform/logger"
	"landregistry/internal/platform/metrics"
	"landregistry/internal/platform/middleware"
	"landregistry/internal/platform/tracing"
	"landregistry/internal/property/handler"
	"landregistry/internal/property/models"
	"landregistry/internal/property/service"
	"landregistry/internal/property/view"
	"landregistry/pkg/platform/httputil"
	"landregistry/pkg/platform/middleware/requesttime"
)

const (
	auditQueueSize  = 256
	shutdownTimeout = 10 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Log)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("landregistry stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	tp, err := tracing.NewProvider(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer shutdownWith(log, "tracing", tp.Shutdown)

	m := metrics.New()

	session := connectLedger(ctx, cfg.Ledger, log)
	if conn, ok := session.conn(); ok {
		defer conn.Close()
	}

	index, closeIndex, err := openIndex(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeIndex()

	auditSink, closeAudit, err := openAuditStore(ctx, cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer closeAudit()
	queue := audit.NewQueue(auditQueueSize, log)
	worker := audit.NewWorker(auditSink, queue)
	publisher := audit.NewPublisher(queue)

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAuditPublisher(publisher),
		service.WithTracer(tp.Tracer()),
	}
	coordinator, err := service.NewCoordinator(index, opts...)
	if err != nil {
		return err
	}
	projector, err := service.NewProjector(index, opts...)
	if err != nil {
		return err
	}
	reconciler, err := service.NewReconciler(index, opts...)
	if err != nil {
		return err
	}

	propertyHandler := handler.New(
		coordinator,
		projector,
		reconciler,
		session.Session,
		view.NewState(m),
		view.NewFeedback(cfg.Feedback.TTL),
		log,
		m,
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recover(log))
	r.Use(middleware.Latency(m))
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthHandler(session.Session))
	propertyHandler.Register(r)

	srv := httpserver.New(cfg.Server.Addr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting landregistry",
			"addr", cfg.Server.Addr,
			"index_backend", cfg.Index.Backend,
			"ledger_ready", session.Ready(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// ledgerSession is the process-wide session. Session is nil when the
// connector failed; the app still serves the index read-only.
type ledgerSession struct {
	*models.Session
	connection *ledger.Connection
}

func (s ledgerSession) conn() (*ledger.Connection, bool) {
	return s.connection, s.connection != nil
}

func connectLedger(ctx context.Context, cfg config.LedgerConfig, log *slog.Logger) ledgerSession {
	conn, err := ledger.Connect(ctx, cfg)
	if err != nil {
		log.Warn("ledger unavailable, running without a session",
			"rpc_url", cfg.RPCURL,
			"error", err,
		)
		return ledgerSession{}
	}
	log.Info("ledger session ready",
		"account", conn.Session.Account.String(),
		"balance_eth", ledger.FormatEther(conn.Session.Balance),
		"contract", conn.Contract.Address().Hex(),
	)
	return ledgerSession{Session: conn.Session, connection: conn}
}

type healthResponse struct {
	Status      string `json:"status"`
	LedgerReady bool   `json:"ledger_ready"`
}

func healthHandler(sess *models.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := healthResponse{Status: "ok", LedgerReady: sess.Ready()}
		if !resp.LedgerReady {
			resp.Status = "degraded"
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}

func shutdownWith(log *slog.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn("shutdown failed", "component", name, "error", err)
	}
}
