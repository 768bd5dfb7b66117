package core

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/plantsignal/sunbeam/model"
)

// OcclusionTester determines whether a sunbeam from a given direction
// reaches the room's plant, and through which window or against which wall.
// It holds no mutable state and is safe for concurrent use.
type OcclusionTester struct {
	room *model.Room
}

// NewOcclusionTester binds a tester to an immutable room.
func NewOcclusionTester(room *model.Room) *OcclusionTester {
	return &OcclusionTester{room: room}
}

// Test casts a ray from the plant toward the sun and reports the outcome.
//
// Windows are tried in configuration order and the first one pierced wins;
// the sun must sit on the window's outward side. When no window admits the
// beam, the nearest wall the ray exits through is reported as the blocker.
// An elevation at or below the horizon is always a miss.
func (o *OcclusionTester) Test(angles model.SolarAngles) model.HitResult {
	res := model.HitResult{Angles: angles}

	if angles.ElevationDeg <= 0 {
		res.Reason = model.ReasonBelowHorizon
		return res
	}

	dir := SunDirection(angles)
	plant := o.room.Plant()

	for _, win := range o.room.Windows() {
		// The beam can only pass if it leaves the room through this
		// wall, i.e. travels along the outward normal.
		if r3.Dot(dir, win.Normal()) <= parallelEps {
			continue
		}
		t, ok := rayPlane(plant, dir, win.Vertices[0], win.Normal())
		if !ok || t <= 0 {
			continue
		}
		p := r3.Add(plant, r3.Scale(t, dir))
		if win.Contains(p) {
			res.Hit = true
			res.WindowID = win.ID
			return res
		}
	}

	res.Reason = model.ReasonNoWindowPath

	bestT := math.Inf(1)
	for _, wall := range o.room.Walls() {
		if r3.Dot(dir, wall.Normal()) <= parallelEps {
			continue
		}
		t, ok := rayPlane(plant, dir, wall.Vertices[0], wall.Normal())
		if !ok || t <= parallelEps || t >= bestT {
			continue
		}
		p := r3.Add(plant, r3.Scale(t, dir))
		if wall.Contains(p) {
			bestT = t
			res.WallID = wall.ID
			blocked := p
			res.BlockedAt = &blocked
		}
	}

	return res
}
