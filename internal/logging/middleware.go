package logging

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// RequestLogger attaches a request-scoped entry to the context and logs the
// outcome of every request. It expects chi's RequestID middleware to run first.
func RequestLogger(base *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			entry := base.WithFields(logrus.Fields{
				"request_id":  middleware.GetReqID(r.Context()),
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
			})

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				fields := logrus.Fields{
					"status":   status,
					"bytes":    ww.BytesWritten(),
					"duration": time.Since(start).String(),
				}
				switch {
				case status >= 500:
					entry.WithFields(fields).Error("request completed")
				case status >= 400:
					entry.WithFields(fields).Warn("request completed")
				default:
					entry.WithFields(fields).Info("request completed")
				}
			}()

			next.ServeHTTP(ww, r.WithContext(WithEntry(r.Context(), entry)))
		})
	}
}
