package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type loggerKey struct{}

// WithLogger returns a context carrying log
func WithLogger(ctx context.Context, log logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

// FromContext returns the request logger, or the standard logger
func FromContext(ctx context.Context) logrus.FieldLogger {
	if log, ok := ctx.Value(loggerKey{}).(logrus.FieldLogger); ok {
		return log
	}
	return logrus.StandardLogger()
}

// FromRequest returns the logger of the request
func FromRequest(r *http.Request) logrus.FieldLogger {
	return FromContext(r.Context())
}

// requestLogger attaches a per-request logger and logs each completed request
func requestLogger(base logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			log := base.WithFields(logrus.Fields{
				"request": middleware.GetReqID(r.Context()),
				"method":  r.Method,
				"path":    r.URL.Path,
				"user":    userFrom(r),
			})
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(WithLogger(r.Context(), log)))
			log.WithField("status", ww.Status()).
				WithField("latency", time.Since(start)).
				Debugln("api: request complete")
		})
	}
}
