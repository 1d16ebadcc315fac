package middleware

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKeyRequestID string

// RequestIDKey е ключът за корелационния идентификатор в контекста
const RequestIDKey contextKeyRequestID = "requestID"

// GetCorrelationID връща корелационния идентификатор на заявката, ако има
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}

	return ""
}

// LoggingMiddleware логва всяка HTTP заявка с корелационен идентификатор
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			correlationID := uuid.NewString()
			ctx := context.WithValue(r.Context(), RequestIDKey, correlationID)

			lrw := newLoggingResponseWriter(w)
			startTime := time.Now()

			logrus.WithFields(logrus.Fields{
				"correlation_id": correlationID,
				"remote_addr":    r.RemoteAddr,
				"method":         r.Method,
				"path":           r.URL.Path,
				"query":          r.URL.RawQuery,
			}).Info("Заявката започна")

			next.ServeHTTP(lrw, r.WithContext(ctx))

			responseTime := time.Since(startTime)

			logger := logrus.WithFields(logrus.Fields{
				"correlation_id": correlationID,
				"method":         r.Method,
				"path":           r.URL.Path,
				"duration_ms":    responseTime.Milliseconds(),
				"status_code":    lrw.statusCode,
			})

			switch {
			case lrw.statusCode >= 500:
				logger.Error("Заявката завърши с грешка")
			case lrw.statusCode >= 400:
				logger.Warn("Заявката завърши с предупреждение")
			default:
				logger.Info("Заявката завърши успешно")
			}

			if responseTime > 500*time.Millisecond {
				logger.Warnf("Бавна заявка: %s", responseTime)
			}
		})
	}
}

// loggingResponseWriter обвива http.ResponseWriter, за да запомни статус кода
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newLoggingResponseWriter(w http.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{w, http.StatusOK}
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// LogPanicMiddleware прихваща panic от handler-ите и връща 500
func LogPanicMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stack := make([]byte, 4096)
					stackSize := runtime.Stack(stack, false)

					logger := logrus.WithFields(logrus.Fields{
						"correlation_id": GetCorrelationID(r.Context()),
						"panic_error":    err,
						"method":         r.Method,
						"path":           r.URL.Path,
					})

					logger.Error("Необработена грешка в приложението")
					logger.WithField("stack_trace", string(stack[:stackSize])).Error("Stack trace")

					http.Error(w, "Вътрешна грешка на сървъра", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
