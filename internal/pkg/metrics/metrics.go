package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 登録処理の総数（status: success, reactivated, closed, at_capacity, already_registered, conflict, lock_failed, error）
	RegistrationsTotal *prometheus.CounterVec

	// 出席照合の処理時間
	AttendanceReconcileDuration prometheus.Histogram

	// 出席照合による追加・削除件数（operation: add/remove）
	AttendanceChangesTotal *prometheus.CounterVec

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec

	// イベントごとの確定済み登録数
	ConfirmedRegistrations *prometheus.GaugeVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "registrations_total",
				Help: "Total number of event registration attempts",
			},
			[]string{"status"},
		),
		AttendanceReconcileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "attendance_reconcile_duration_seconds",
				Help:    "Time spent reconciling a session attendance roster",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		AttendanceChangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attendance_changes_total",
				Help: "Total number of attendance records added or removed by reconcile",
			},
			[]string{"operation"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		ConfirmedRegistrations: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "confirmed_registrations",
				Help: "Current number of confirmed registrations per event",
			},
			[]string{"event_id"},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RegistrationsTotal,
		m.AttendanceReconcileDuration,
		m.AttendanceChangesTotal,
		m.DistributedLockDuration,
		m.ConfirmedRegistrations,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
