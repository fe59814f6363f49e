package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sentinel "github.com/sentinel-fleet/sentinel"
)

// driverMetrics exposes the running simulation's counters over /metrics.
// The core package never imports net/http; Prometheus instrumentation is
// strictly a driver-binary concern (spec.md §6's "no wire protocol" binds
// the core, not the external collaborator that wraps it).
type driverMetrics struct {
	dispatchEvents     prometheus.Gauge
	extinguishedEvents prometheus.Gauge
	totalBurned        prometheus.Gauge
	activeIncidents    prometheus.Gauge
	userIgnitions      prometheus.Gauge
	undetectedEpisodes prometheus.Gauge
}

func newDriverMetrics() *driverMetrics {
	return &driverMetrics{
		dispatchEvents: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_dispatch_events_total",
			Help: "Number of incidents whose suppression zone has gone live.",
		}),
		extinguishedEvents: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_extinguished_events_total",
			Help: "Number of incidents that have fully extinguished.",
		}),
		totalBurned: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_total_burned_m2",
			Help: "Current burning+burned area in square meters.",
		}),
		activeIncidents: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_active_incidents",
			Help: "Number of currently active incidents.",
		}),
		userIgnitions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_user_ignitions_total",
			Help: "Number of externally triggered ignitions.",
		}),
		undetectedEpisodes: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_undetected_episodes_total",
			Help: "Number of fire episodes that burned out without ever being detected.",
		})}
}

func (m *driverMetrics) update(sim *sentinel.Simulation) {
	gm := sim.GlobalMetrics()
	live := sim.LiveMetrics()
	m.dispatchEvents.Set(float64(live.DispatchEvents))
	m.extinguishedEvents.Set(float64(live.ExtinguishedEvents))
	m.totalBurned.Set(float64(gm.TotalBurnedM2))
	m.activeIncidents.Set(float64(len(sim.IncidentCenters())))
	m.userIgnitions.Set(float64(live.UserIgnitions))
	m.undetectedEpisodes.Set(float64(live.UndetectedEpisodes))
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(addr, mux)
}
