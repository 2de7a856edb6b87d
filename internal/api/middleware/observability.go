package middleware

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/slotline/booking-api/internal/infrastructure/observability"
)

// ObservabilityMiddleware traces each request and records the request
// counter and duration histogram. Spans are named after the route pattern,
// not the raw path, so booking requests aggregate under one name instead of
// one series per appointment.
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := r.Pattern
			if route == "" {
				route = r.URL.Path
			}

			ctx, span := observability.StartSpan(r.Context(), fmt.Sprintf("%s %s", r.Method, route))
			defer span.End()

			observability.SetSpanAttributes(span,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
			)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r.WithContext(ctx))

			observability.RecordRequestMetric(ctx, metrics, r.Method, route, rec.status, time.Since(start))
			observability.SetSpanAttributes(span, attribute.Int("http.status_code", rec.status))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}
