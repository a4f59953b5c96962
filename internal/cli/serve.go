package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	adminhttp "github.com/pribylovaa/kickoffzone-admin/internal/http"
	"github.com/pribylovaa/kickoffzone-admin/internal/lifecycle"
	"github.com/pribylovaa/kickoffzone-admin/internal/metrics"
	"github.com/pribylovaa/kickoffzone-admin/internal/store"
)

const shutdownTimeout = 10 * time.Second

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

// newServerHandler собирает mux сервера: пробы, метрики и API дашборда.
func newServerHandler(api http.Handler, ready *atomic.Bool, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if ready.Load() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.Handle("/", api)

	return mux
}

func (a *app) serve(ctx context.Context) error {
	log := a.log
	slog.SetDefault(log)
	log.Info("starting kickoffzone-admin", "env", a.cfg.Env)

	m := metrics.New(prometheus.DefaultRegisterer)

	rm, err := a.newRemote(a.cfg, log, m)
	if err != nil {
		log.Error("remote_init_failed", slog.String("err", err.Error()))
		return err
	}

	opts, err := a.controllerOptions(m)
	if err != nil {
		return err
	}
	// Подтверждение запрашивает дашборд до вызова API.
	opts = append(opts, lifecycle.WithConfirmer(lifecycle.AutoConfirm))

	ctrl := lifecycle.New(rm, store.New(), opts...)

	log.Info("controller_initialized", slog.String("remote", a.cfg.Remote.BaseURL))

	apiHandler := adminhttp.NewRouter(ctrl, adminhttp.Options{
		Logger:        log,
		Timeout:       a.cfg.Timeouts.Service,
		UploadTimeout: a.cfg.Timeouts.Upload,
	})

	var ready atomic.Bool

	httpAddr := a.cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           newServerHandler(apiHandler, &ready, prometheus.DefaultGatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		return fmt.Errorf("listen %s: %w", httpAddr, err)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	ready.Store(true)
	log.Info("admin_ready")

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown_requested")
	case serveErr = <-serveErrCh:
		if serveErr != nil {
			log.Error("http_serve_failed", slog.String("err", serveErr.Error()))
		}
	}

	ready.Store(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	log.Info("service_stopped")

	return serveErr
}
