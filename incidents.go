package sentinel

import "github.com/go-gl/mathgl/mgl32"

// Incident is a detected fire event moving through
// registered -> suppressed (zone_live) -> extinguished.
type Incident struct {
	ID       int
	Center   mgl32.Vec2
	MonitorR float32

	delay    float32
	zoneLive bool
	wasActive bool

	IgnitedT      float32
	DetectedT     float32
	SuppressedT   float32
	ExtinguishedT float32
	hasExtinguished bool

	DetectAreaM2 float32
	FinalAreaM2  float32
}

// incidentTracker creates, merges, times and extinguishes incidents, and
// performs the connected-component labelling that gates spread suppression.
// Conceptually a sub-module of the fire engine (spec.md §9's "incident
// tracker is a sub-module of the fire engine, not a cycle back to it").
type incidentTracker struct {
	incidents []*Incident
	nextID    int

	// liveTag is grown on demand and indexed by incident id; true while the
	// incident's suppression zone is live. Maintained incrementally (set on
	// suppressedT, cleared on first extinguished transition) instead of
	// rebuilt by scanning every incident each tick, per spec.md §9.
	liveTag []bool

	mergeRadius2   float32
	monitorRadius  float32
	suppressRadius float32
	stopDelay      float32
	quenchBoost    float32
	metersPerPx    float32

	// Metrics mirrored from core/fire.py's own incident bookkeeping fields.
	detTimes      []float32
	detectAreasM2 []float32
	finalAreasM2  []float32
	dispatchCount int
	extinguishedCount int
}

func newIncidentTracker(cfg *Config) *incidentTracker {
	return &incidentTracker{
		mergeRadius2:   cfg.MergeRadius * cfg.MergeRadius,
		monitorRadius:  cfg.MonitorRadius,
		suppressRadius: cfg.SuppressRadius,
		stopDelay:      cfg.StopDelay,
		quenchBoost:    cfg.QuenchBoost,
		metersPerPx:    cfg.MetersPerPx,
	}
}

func (t *incidentTracker) isLive(id int) bool {
	if id <= 0 || id >= len(t.liveTag) {
		return false
	}
	return t.liveTag[id]
}

func (t *incidentTracker) setLive(id int, live bool) {
	for len(t.liveTag) <= id {
		t.liveTag = append(t.liveTag, false)
	}
	t.liveTag[id] = live
}

func (t *incidentTracker) get(id int) *Incident {
	for _, inc := range t.incidents {
		if inc.ID == id {
			return inc
		}
	}
	return nil
}

// register creates a new incident at (cx, cy) or returns the id of an
// existing active incident within merge radius. is_new reports which.
func (t *incidentTracker) register(g *grid, simT float32, cx, cy float32) (id int, isNew bool) {
	center := mgl32.Vec2{cx, cy}
	for _, inc := range t.incidents {
		if !t.incidentActive(g, simT, inc) {
			continue
		}
		// mergeRadius2 == 0 must never merge, even two detections at the
		// exact same point (distSq == 0 would otherwise satisfy "<=").
		if t.mergeRadius2 > 0 && distSq(center, inc.Center) <= t.mergeRadius2 {
			return inc.ID, false
		}
	}

	t.nextID++
	inc := &Incident{
		ID:       t.nextID,
		Center:   center,
		MonitorR: t.monitorRadius,
		delay:    t.stopDelay,
		IgnitedT: t.estimateIgnitedTimeNear(g, simT, cx, cy, t.monitorRadius),
		DetectedT: simT,
	}
	inc.DetectAreaM2 = t.footprintAreaInDisc(g, cx, cy, t.monitorRadius)
	t.incidents = append(t.incidents, inc)
	t.detTimes = append(t.detTimes, simT-inc.IgnitedT)
	t.detectAreasM2 = append(t.detectAreasM2, inc.DetectAreaM2)
	return inc.ID, true
}

// isActive reports whether id still has live fire, transitioning it to
// extinguished exactly once when it no longer does.
func (t *incidentTracker) isActive(g *grid, simT float32, id int) bool {
	inc := t.get(id)
	if inc == nil {
		return false
	}
	return t.incidentActive(g, simT, inc)
}

func (t *incidentTracker) incidentActive(g *grid, simT float32, inc *Incident) bool {
	var active bool
	if inc.zoneLive {
		active = t.anyBurningTagged(g, inc.ID)
	} else {
		active = t.anyBurningInDisc(g, inc.Center.X(), inc.Center.Y(), inc.MonitorR)
	}

	if !active && inc.wasActive && !inc.hasExtinguished {
		inc.hasExtinguished = true
		inc.ExtinguishedT = simT
		inc.FinalAreaM2 = t.tagFootprintAreaM2(g, inc.ID)
		t.finalAreasM2 = append(t.finalAreasM2, inc.FinalAreaM2)
		t.extinguishedCount++
		t.setLive(inc.ID, false)
	}
	inc.wasActive = active
	return active
}

// advance ticks suppression delays; once a delay elapses the incident's
// burning cluster is labelled and its suppression zone goes live.
func (t *incidentTracker) advance(g *grid, simT float32, dt float32) {
	for _, inc := range t.incidents {
		if inc.zoneLive {
			continue
		}
		inc.delay -= dt
		if inc.delay <= 0 {
			inc.zoneLive = true
			inc.SuppressedT = simT
			t.setLive(inc.ID, true)
			t.labelCluster(g, inc)
			t.dispatchCount++
		}
	}
}

// labelCluster performs an 8-connected BFS over BURNING cells reachable from
// the incident's seed set, tagging every reached cell with inc.ID so fire
// dynamics can refuse to spread or spot from it while the incident is live.
func (t *incidentTracker) labelCluster(g *grid, inc *Incident) {
	gx0, gx1, gy0, gy1 := g.discBounds(inc.Center.X(), inc.Center.Y(), inc.MonitorR)
	r2 := inc.MonitorR * inc.MonitorR

	var seeds []int
	for gy := gy0; gy <= gy1; gy++ {
		for gx := gx0; gx <= gx1; gx++ {
			i := g.idx(gx, gy)
			if i < 0 || g.state[i] != Burning {
				continue
			}
			c := g.centerPx(gx, gy)
			if distSq(c, inc.Center) <= r2 {
				seeds = append(seeds, i)
			}
		}
	}

	if len(seeds) == 0 {
		if nearest, ok := t.nearestBurning(g, inc.Center); ok {
			seeds = append(seeds, nearest)
		}
	}
	if len(seeds) == 0 {
		return
	}

	visited := make(map[int]bool, len(seeds)*4)
	queue := append([]int(nil), seeds...)
	for _, s := range seeds {
		visited[s] = true
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		g.tag[cur] = inc.ID
		cx, cy := g.gxgy(cur)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				ni := g.idx(cx+dx, cy+dy)
				if ni < 0 || visited[ni] || g.state[ni] != Burning {
					continue
				}
				visited[ni] = true
				queue = append(queue, ni)
			}
		}
	}
}

func (t *incidentTracker) nearestBurning(g *grid, center mgl32.Vec2) (int, bool) {
	best := -1
	bestD := float32(posInf)
	for i, st := range g.state {
		if st != Burning {
			continue
		}
		gx, gy := g.gxgy(i)
		d := distSq(g.centerPx(gx, gy), center)
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best, best >= 0
}

func (t *incidentTracker) anyBurningTagged(g *grid, id int) bool {
	for i, st := range g.state {
		if st == Burning && g.tag[i] == id {
			return true
		}
	}
	return false
}

func (t *incidentTracker) anyBurningInDisc(g *grid, cx, cy, r float32) bool {
	gx0, gx1, gy0, gy1 := g.discBounds(cx, cy, r)
	r2 := r * r
	center := mgl32.Vec2{cx, cy}
	for gy := gy0; gy <= gy1; gy++ {
		for gx := gx0; gx <= gx1; gx++ {
			i := g.idx(gx, gy)
			if i < 0 || g.state[i] != Burning {
				continue
			}
			if distSq(g.centerPx(gx, gy), center) <= r2 {
				return true
			}
		}
	}
	return false
}

func (t *incidentTracker) tagFootprintAreaM2(g *grid, id int) float32 {
	var cells float32
	for i, tag := range g.tag {
		if tag != id {
			continue
		}
		if g.state[i] == Burning || g.state[i] == Burned {
			cells++
		}
	}
	return cells * g.cellAreaM2(t.metersPerPx)
}

func (t *incidentTracker) footprintAreaInDisc(g *grid, cx, cy, r float32) float32 {
	gx0, gx1, gy0, gy1 := g.discBounds(cx, cy, r)
	r2 := r * r
	center := mgl32.Vec2{cx, cy}
	var cells float32
	for gy := gy0; gy <= gy1; gy++ {
		for gx := gx0; gx <= gx1; gx++ {
			i := g.idx(gx, gy)
			if i < 0 {
				continue
			}
			if distSq(g.centerPx(gx, gy), center) > r2 {
				continue
			}
			if g.state[i] == Burning || g.state[i] == Burned {
				cells++
			}
		}
	}
	return cells * g.cellAreaM2(t.metersPerPx)
}

func (t *incidentTracker) estimateIgnitedTimeNear(g *grid, simT, cx, cy, r float32) float32 {
	gx0, gx1, gy0, gy1 := g.discBounds(cx, cy, r)
	r2 := r * r
	center := mgl32.Vec2{cx, cy}
	earliest := float32(posInf)
	for gy := gy0; gy <= gy1; gy++ {
		for gx := gx0; gx <= gx1; gx++ {
			i := g.idx(gx, gy)
			if i < 0 || g.state[i] != Burning {
				continue
			}
			if distSq(g.centerPx(gx, gy), center) <= r2 && g.tIgnited[i] < earliest {
				earliest = g.tIgnited[i]
			}
		}
	}
	if earliest >= posInf {
		return simT
	}
	return earliest
}

// activeCenters returns the centers of every currently active incident, for
// a driver's read-only drawing accessors.
func (t *incidentTracker) activeCenters(g *grid, simT float32) []mgl32.Vec2 {
	var out []mgl32.Vec2
	for _, inc := range t.incidents {
		if t.incidentActive(g, simT, inc) {
			out = append(out, inc.Center)
		}
	}
	return out
}

func (t *incidentTracker) all() []*Incident { return t.incidents }

// snapshotFinalizeOpenIncidents closes any incident still lacking a final
// area by recording its current tag-footprint (or monitor-disc footprint if
// it was never labelled). Idempotent: calling it twice leaves final_areas
// unchanged the second time.
func (t *incidentTracker) snapshotFinalizeOpenIncidents(g *grid, simT float32) {
	for _, inc := range t.incidents {
		if inc.hasExtinguished {
			continue
		}
		inc.hasExtinguished = true
		inc.ExtinguishedT = simT
		if inc.zoneLive {
			inc.FinalAreaM2 = t.tagFootprintAreaM2(g, inc.ID)
		} else {
			inc.FinalAreaM2 = t.footprintAreaInDisc(g, inc.Center.X(), inc.Center.Y(), inc.MonitorR)
		}
		t.finalAreasM2 = append(t.finalAreasM2, inc.FinalAreaM2)
		t.extinguishedCount++
		t.setLive(inc.ID, false)
	}
}
