package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/awaketai/news-aggregator/metrics"
	"github.com/awaketai/news-aggregator/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// NewHTTPServer exposes /metrics and /healthz on addr.
func NewHTTPServer(addr string, m *metrics.Metrics, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &http.Server{
		Addr:              addr,
		Handler:           middleware.LogWrapper(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// RunHTTPServer serves until ctx is done, then shuts down.
func RunHTTPServer(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics http server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("http listenAndServe failed", zap.Error(err))
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Debug("metrics http server stopped")
	return nil
}
