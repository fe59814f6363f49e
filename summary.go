package sentinel

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// IncidentReport is one incident's history, exposed as values rather than
// the internal *Incident record, per spec.md §6 ("run-end summary (values,
// not types)").
type IncidentReport struct {
	ID           int
	DetectTime   float32
	DetectAreaM2 float32
	FinalAreaM2  float32
	Extinguished bool
}

// Summary is the run-end report spec.md §6 names. A first-class type rather
// than a loose map, carrying RunID/GeneratedAt for driver-side logging
// (ambient, not a new simulated feature — see SPEC_FULL.md §4).
type Summary struct {
	RunID       string
	GeneratedAt time.Time

	SimTime float32

	FiresDetected   int
	AvgDetectTime   float32
	Incidents       []IncidentReport

	TotalBurnedM2       float32
	TotalScorchedEverM2 float32
	BiggestFinalM2      float32

	UndetectedEpisodes int
	DispatchEvents     int
	ExtinguishedEvents int
	UserIgnitions      int

	PerSensorDistance []float32
}

// BuildSummary assembles the run-end report from the fire engine's incident
// tracker and the fleet's per-sensor distance accumulators. gonum/stat backs
// the mean-detect-time aggregate (spec.md §6's avg_detect_time, and the
// "mean over N trials" framing of §8's scenario properties) rather than a
// hand-rolled running-average loop.
func (sim *Simulation) BuildSummary() Summary {
	fe := sim.fire
	incidents := fe.inc.all()

	reports := make([]IncidentReport, 0, len(incidents))
	detTimes := make([]float64, 0, len(incidents))
	var biggest float32

	for _, inc := range incidents {
		detectTime := inc.DetectedT - inc.IgnitedT
		if detectTime < 0 {
			detectTime = 0
		}
		reports = append(reports, IncidentReport{
			ID:           inc.ID,
			DetectTime:   detectTime,
			DetectAreaM2: inc.DetectAreaM2,
			FinalAreaM2:  inc.FinalAreaM2,
			Extinguished: inc.hasExtinguished,
		})
		detTimes = append(detTimes, float64(detectTime))
		if inc.FinalAreaM2 > biggest {
			biggest = inc.FinalAreaM2
		}
	}

	var avgDetect float32
	if len(detTimes) > 0 {
		avgDetect = float32(stat.Mean(detTimes, nil))
	}

	gm := fe.computeMetrics()

	return Summary{
		RunID:       sim.RunID,
		GeneratedAt: sim.generatedAt,

		SimTime: fe.simT,

		FiresDetected: len(incidents),
		AvgDetectTime: avgDetect,
		Incidents:     reports,

		TotalBurnedM2:       gm.TotalBurnedM2,
		TotalScorchedEverM2: gm.TotalScorchedEverM2,
		BiggestFinalM2:      biggest,

		UndetectedEpisodes: fe.undetectedEpisodes,
		DispatchEvents:     fe.inc.dispatchCount,
		ExtinguishedEvents: fe.inc.extinguishedCount,
		UserIgnitions:      gm.UserIgnitions,

		PerSensorDistance: sim.fleet.totalDistance(),
	}
}
