// metrics: прометеевские метрики сервиса галереи.
// Регистрируются в глобальном реестре через promauto и отдаются на /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты операций для лейбла result.
const (
	ResultOK      = "ok"
	ResultNoop    = "noop"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

var (
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_mutations_total",
			Help: "Total number of gallery mutations by operation and result",
		},
		[]string{"op", "result"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_uploads_total",
			Help: "Total number of accepted uploads by media kind",
		},
		[]string{"kind"},
	)

	UploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_upload_size_bytes",
			Help:    "Size of accepted uploads in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 8),
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Mutation учитывает результат мутации.
func Mutation(op, result string) {
	MutationsTotal.WithLabelValues(op, result).Inc()
}

// Upload учитывает принятую загрузку.
func Upload(kind string, size int64) {
	UploadsTotal.WithLabelValues(kind).Inc()
	UploadSizeBytes.Observe(float64(size))
}

// ObserveHTTP учитывает длительность HTTP-запроса.
func ObserveHTTP(method, route string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
