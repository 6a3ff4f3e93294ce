package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leetracker",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "leetracker",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "leetracker",
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	})

	questionsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leetracker",
		Name:      "questions_ingested_total",
		Help:      "Questions added from uploaded CSV files",
	}, []string{"company"})

	rowsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "leetracker",
		Name:      "csv_rows_dropped_total",
		Help:      "Malformed CSV rows skipped during ingestion",
	})

	uploadFiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leetracker",
		Name:      "upload_files_total",
		Help:      "Uploaded CSV files by outcome",
	}, []string{"outcome"})

	toggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leetracker",
		Name:      "question_toggles_total",
		Help:      "Completion toggles by resulting state",
	}, []string{"state"})

	currentStreak = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "leetracker",
		Name:      "current_streak_days",
		Help:      "Current consecutive-day completion streak",
	})

	snapshotRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leetracker",
		Name:      "snapshot_runs_total",
		Help:      "Scheduled snapshot exports by outcome",
	}, []string{"outcome"})
)

// RecordUpload counts one ingested file.
func RecordUpload(company string, ingested, dropped int) {
	uploadFiles.WithLabelValues("ok").Inc()
	questionsIngested.WithLabelValues(company).Add(float64(ingested))
	rowsDropped.Add(float64(dropped))
}

func RecordUploadFailure() {
	uploadFiles.WithLabelValues("failed").Inc()
}

func RecordToggle(completed bool) {
	state := "pending"
	if completed {
		state = "completed"
	}
	toggles.WithLabelValues(state).Inc()
}

func SetStreak(days int) {
	currentStreak.Set(float64(days))
}

func RecordSnapshot(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	snapshotRuns.WithLabelValues(outcome).Inc()
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := r.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, fmt.Errorf("metrics: underlying ResponseWriter does not support hijacking")
}

// Middleware records request metrics. Routes are labelled by their chi
// pattern so ids and company names don't explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"route":  route,
			"status": strconv.Itoa(rec.status),
		}
		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
