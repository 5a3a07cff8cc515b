package httpserver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nicolas-cahorel/P3-Mission/internal/review"
)

// metrics is registered on a per-server registry so several servers can
// coexist in one process.
type metrics struct {
	registry     *prometheus.Registry
	admissions   *prometheus.CounterVec
	snapshotSize prometheus.Gauge
	version      prometheus.Gauge
}

func newMetrics(reviews *review.Store) *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &metrics{
		registry: reg,
		admissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reviews_admissions_total",
				Help: "Review submissions by admission result",
			},
			[]string{"result"},
		),
		snapshotSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "reviews_snapshot_size",
			Help: "Number of reviews in the current snapshot",
		}),
		version: factory.NewGauge(prometheus.GaugeOpts{
			Name: "reviews_snapshot_version",
			Help: "Version of the current snapshot",
		}),
	}
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "reviews_snapshot_subscribers",
		Help: "Live snapshot subscriptions, stream clients included",
	}, func() float64 {
		return float64(reviews.Subscribers())
	})
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *metrics) observeAdmission(reason review.Reason) {
	m.admissions.WithLabelValues(reason.String()).Inc()
}

// follow keeps the snapshot gauges in step with every snapshot the store
// publishes, whatever admitted it. The current snapshot is observed before
// follow returns; the rest is observed until the store is closed.
func (m *metrics) follow(reviews *review.Store) {
	reviews.CurrentSnapshot()
	sub := reviews.Subscribe()
	if snap, ok := <-sub.C(); ok {
		m.observeSnapshot(snap)
	}
	go func() {
		for snap := range sub.C() {
			m.observeSnapshot(snap)
		}
	}()
}

func (m *metrics) observeSnapshot(snap review.Snapshot) {
	m.snapshotSize.Set(float64(snap.Len()))
	m.version.Set(float64(snap.Version))
}
