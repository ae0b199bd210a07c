package observability

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the snapshot pipeline.
type Metrics struct {
	// Walk metrics
	WalkDuration   prometheus.Histogram
	PathsWalked    prometheus.Counter
	WalkErrors     *prometheus.CounterVec

	// Chunk metrics
	ChunksCutTotal   prometheus.Counter
	ChunkSizeBytes   prometheus.Histogram
	ChunkDuration    prometheus.Histogram

	// Pack metrics
	PacksAssembledTotal prometheus.Counter
	PacksPreparedTotal  *prometheus.CounterVec
	PackAssembleDuration prometheus.Histogram
	PackPrepareDuration  prometheus.Histogram
	PackRawSizeBytes     prometheus.Histogram
	PackFinalSizeBytes   prometheus.Histogram
	PacksInFlight        prometheus.Gauge

	// Storage metrics
	PacksStoredTotal    prometheus.Counter
	StoreDuration       prometheus.Histogram
	DiskSpaceUsedBytes  prometheus.Gauge

	// Active pack-prepare workers counter (atomic for thread-safety)
	activePrepareWorkers int64
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		WalkDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quantarax_walk_duration_seconds",
				Help:    "Time to walk a snapshot root",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
		),

		PathsWalked: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quantarax_paths_walked_total",
				Help: "Total paths discovered by the walk stage",
			},
		),

		WalkErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantarax_walk_errors_total",
				Help: "Walk stage errors by cause",
			},
			[]string{"reason"},
		),

		ChunksCutTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quantarax_chunks_cut_total",
				Help: "Total chunks cut across all paths",
			},
		),

		ChunkSizeBytes: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quantarax_chunk_size_bytes",
				Help:    "Distribution of cut chunk sizes",
				Buckets: prometheus.ExponentialBuckets(1<<10, 2, 12),
			},
		),

		ChunkDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quantarax_chunk_duration_seconds",
				Help:    "Time to chunk one file",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
			},
		),

		PacksAssembledTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quantarax_packs_assembled_total",
				Help: "Total packs handed from assembly to preparation",
			},
		),

		PacksPreparedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantarax_packs_prepared_total",
				Help: "Pack preparation outcomes",
			},
			[]string{"result"},
		),

		PackAssembleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quantarax_pack_assemble_duration_seconds",
				Help:    "Time spent assembling a pack",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60},
			},
		),

		PackPrepareDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quantarax_pack_prepare_duration_seconds",
				Help:    "Time spent hashing, compressing, encrypting, and armoring a pack",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60},
			},
		),

		PackRawSizeBytes: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quantarax_pack_raw_size_bytes",
				Help:    "Pack size before compression",
				Buckets: prometheus.ExponentialBuckets(1<<20, 2, 8),
			},
		),

		PackFinalSizeBytes: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quantarax_pack_final_size_bytes",
				Help:    "Pack size after compression, encryption, and ECC armoring",
				Buckets: prometheus.ExponentialBuckets(1<<20, 2, 8),
			},
		),

		PacksInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "quantarax_packs_in_flight",
				Help: "Packs currently held by pack-prepare workers",
			},
		),

		PacksStoredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quantarax_packs_stored_total",
				Help: "Total packs handed off to the storage sink",
			},
		),

		StoreDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quantarax_store_duration_seconds",
				Help:    "Time spent writing a prepared pack to storage",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
			},
		),

		DiskSpaceUsedBytes: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "quantarax_disk_space_used_bytes",
				Help: "Disk space used by stored packs",
			},
		),
	}

	return m
}

// RecordWalk records one completed walk of a snapshot root.
func (m *Metrics) RecordWalk(pathCount int, durationSeconds float64) {
	m.PathsWalked.Add(float64(pathCount))
	m.WalkDuration.Observe(durationSeconds)
}

// RecordWalkError increments the walk error counter for reason.
func (m *Metrics) RecordWalkError(reason string) {
	m.WalkErrors.WithLabelValues(reason).Inc()
}

// RecordChunkCut records one cut chunk's size.
func (m *Metrics) RecordChunkCut(size int64) {
	m.ChunksCutTotal.Inc()
	m.ChunkSizeBytes.Observe(float64(size))
}

// RecordChunkDuration records the time spent chunking one file.
func (m *Metrics) RecordChunkDuration(durationSeconds float64) {
	m.ChunkDuration.Observe(durationSeconds)
}

// RecordPackAssembled records a pack being handed to preparation, either on
// crossing its target size or as the trailing partial pack at shutdown.
func (m *Metrics) RecordPackAssembled(durationSeconds float64) {
	m.PacksAssembledTotal.Inc()
	m.PackAssembleDuration.Observe(durationSeconds)
}

// RecordPackPrepareStart marks a pack entering a prepare worker.
func (m *Metrics) RecordPackPrepareStart() {
	atomic.AddInt64(&m.activePrepareWorkers, 1)
	m.PacksInFlight.Set(float64(atomic.LoadInt64(&m.activePrepareWorkers)))
}

// RecordPackPrepareComplete records a pack's preparation outcome.
func (m *Metrics) RecordPackPrepareComplete(success bool, rawSize, finalSize int64, durationSeconds float64) {
	atomic.AddInt64(&m.activePrepareWorkers, -1)
	m.PacksInFlight.Set(float64(atomic.LoadInt64(&m.activePrepareWorkers)))

	result := "success"
	if !success {
		result = "failure"
	}
	m.PacksPreparedTotal.WithLabelValues(result).Inc()
	m.PackPrepareDuration.Observe(durationSeconds)
	if success {
		m.PackRawSizeBytes.Observe(float64(rawSize))
		m.PackFinalSizeBytes.Observe(float64(finalSize))
	}
}

// RecordPackStored records a prepared pack being written to storage.
func (m *Metrics) RecordPackStored(size int64, durationSeconds float64) {
	m.PacksStoredTotal.Inc()
	m.StoreDuration.Observe(durationSeconds)
	m.DiskSpaceUsedBytes.Add(float64(size))
}

// Handler exposes the Prometheus metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
