package sentinel

// Metrics is a snapshot of the simulation's incrementally-maintained
// counters, returned by Simulation.LiveMetrics. The counters themselves live
// in the fire engine and its incident tracker, mirroring the original
// program's own bookkeeping fields (core/fire.py's dispatch/extinguished/
// undetected counters) rather than being recomputed by scanning the incident
// list every tick.
type Metrics struct {
	DispatchEvents     int
	ExtinguishedEvents int
	UserIgnitions      int
	UndetectedEpisodes int
	PerSensorDistance  []float32
}
