package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LogWrapper 记录每个请求
func LogWrapper(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, req)
			log.Debug("receive request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("remote", req.RemoteAddr),
				zap.Int("status", rec.status),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}
