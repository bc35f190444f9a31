// Package observability registra los collectors de Prometheus del servicio.
package observability

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pet-medical-records/internal/apperr"
)

var (
	storeOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pet_records",
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Record store operations by entity, operation and outcome (ok or error kind).",
	}, []string{"entity", "op", "outcome"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pet_records",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method, route pattern and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	changefeedPublishes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pet_records",
		Subsystem: "changefeed",
		Name:      "publish_total",
		Help:      "Change feed publish attempts by driver and result.",
	}, []string{"driver", "result"})
)

func init() {
	prometheus.MustRegister(storeOps, httpDuration, changefeedPublishes)
}

// ObserveStoreOp cuenta una operación del Record Store. outcome = "ok" o el Kind en minúsculas.
func ObserveStoreOp(entity, op string, err error) {
	storeOps.WithLabelValues(entity, op, Outcome(err)).Inc()
}

func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(string(apperr.KindOf(err)))
}

func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func ObserveChangefeedPublish(driver string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	changefeedPublishes.WithLabelValues(driver, result).Inc()
}
