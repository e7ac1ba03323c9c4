package log

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/placementdesk/backoffice/pkg/requestid"
)

// Logger returns a chi middleware that logs every request through the given
// zap logger. Requests to /health are logged at debug to keep probe noise out
// of the request log.
func Logger(l *zap.Logger, name string) func(next http.Handler) http.Handler {
	if l == nil {
		panic("log.Logger received a nil *zap.Logger")
	}

	logger := l.WithOptions(zap.AddCallerSkip(1)).Named(name)

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				fields := []zap.Field{
					zap.String("request_id", requestid.FromRequest(r)),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Int("status", status),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("latency", time.Since(start)),
					zap.String("user_agent", r.UserAgent()),
				}

				switch {
				case status >= 500:
					logger.Error(r.URL.Path, fields...)
				case status >= 400:
					logger.Warn(r.URL.Path, fields...)
				case r.Method == http.MethodGet && r.URL.Path == "/health":
					logger.Debug(r.URL.Path, fields...)
				default:
					logger.Info(r.URL.Path, fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
