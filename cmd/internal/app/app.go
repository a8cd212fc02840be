// Package app wires the PairUp server runtime: config, logging, HTTP routes,
// the pairing broker, and the websocket gateway.
//
// It is intentionally small and deterministic to keep behavior predictable.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"pairup/cmd/internal/pairing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App is the PairUp server runtime: it owns HTTP server wiring, the broker,
// and the websocket gateway.
type App struct {
	cfg Config
	log Logger

	broker     *pairing.Broker
	ws         *pairing.WSGateway
	metricsReg *prometheus.Registry
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := pairing.NewMetrics(reg)

	var notifier pairing.Notifier = pairing.NopNotifier{}
	if cfg.NotifyWebhookURL != "" {
		notifier = pairing.NewWebhookNotifier(log, cfg.NotifyWebhookURL, cfg.NotifyAPIKey, cfg.NotifyThreshold, cfg.NotifyCooldown)
		log.Info("notify.enabled", "threshold", cfg.NotifyThreshold, "cooldown", cfg.NotifyCooldown.String())
	} else {
		log.Info("notify.disabled")
	}

	broker := pairing.NewBroker(log, metrics, notifier)
	ws := pairing.NewWSGateway(log, broker)

	return &App{
		cfg:        cfg,
		log:        log,
		broker:     broker,
		ws:         ws,
		metricsReg: reg,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.broker, a.ws, a.metricsReg)

	// No Read/WriteTimeout: /ws connections are long-lived and manage their
	// own deadlines (heartbeats + per-write timeouts in the gateway).
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithSecurityHeaders(WithRequestLogging(mux, a.log)),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
