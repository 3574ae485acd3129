package middleware

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/foodshare/engine/internal/services"
	"github.com/foodshare/engine/pkg/logger"
)

type accessKey struct{}

// access is filled in by inner middleware so the access log can report who called.
type access struct {
	caller *services.Caller
}

// Logging writes one access log line per request, tagged with the request id
// and, once Auth has run, the caller.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &access{}
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), accessKey{}, rec)))

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.status),
			zap.Int("bytes", rw.bytes),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", remoteHost(r)),
		}
		if c := rec.caller; c != nil {
			fields = append(fields, zap.String("user_id", c.UserID.String()), zap.String("role", string(c.Role)))
		}
		log := logger.FromContext(r.Context())
		switch {
		case rw.status >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case rw.status >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	})
}

func noteCaller(ctx context.Context, c services.Caller) {
	if rec, ok := ctx.Value(accessKey{}).(*access); ok {
		rec.caller = &c
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) { s.status = code; s.ResponseWriter.WriteHeader(code) }

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}
