package core

import (
	"time"

	"github.com/plantsignal/sunbeam/model"
)

// BuildReport assembles the externally reported attribute set from a current
// hit result and the day's exposure intervals. It is pure selection and
// formatting; no geometry runs here.
func BuildReport(now time.Time, hit model.HitResult, intervals []model.ExposureInterval) model.ExposureReport {
	rep := model.ExposureReport{
		Timestamp:         now,
		IsHit:             hit.Hit,
		SunAzimuth:        hit.Angles.AzimuthDeg,
		SunElevation:      hit.Angles.ElevationDeg,
		ExposureIntervals: intervals,
	}
	if rep.ExposureIntervals == nil {
		rep.ExposureIntervals = []model.ExposureInterval{}
	}

	switch {
	case hit.Hit:
		rep.State = model.StateDirectSun
		id := hit.WindowID
		rep.HitWindow = &id
	case hit.Reason == model.ReasonBelowHorizon:
		rep.State = model.StateBelowHorizon
	default:
		rep.State = model.StateNoWindowPath
	}
	if hit.WallID != "" {
		id := hit.WallID
		rep.HitWall = &id
	}

	for _, iv := range intervals {
		if iv.Contains(now) {
			current := iv
			rep.CurrentInterval = &current
			break
		}
	}
	return rep
}
