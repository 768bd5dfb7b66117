package core

import (
	"testing"
	"time"

	"github.com/plantsignal/sunbeam/model"
)

func TestBuildReportStates(t *testing.T) {
	now := time.Date(2024, time.June, 21, 13, 0, 0, 0, time.UTC)

	t.Run("direct sun", func(t *testing.T) {
		hit := model.HitResult{
			Hit:      true,
			WindowID: "w1",
			Angles:   model.SolarAngles{AzimuthDeg: 180, ElevationDeg: 45},
		}
		rep := BuildReport(now, hit, nil)

		if rep.State != model.StateDirectSun || !rep.IsHit {
			t.Errorf("state = %q, is_hit = %v", rep.State, rep.IsHit)
		}
		if rep.HitWindow == nil || *rep.HitWindow != "w1" {
			t.Errorf("HitWindow = %v, want w1", rep.HitWindow)
		}
		if rep.HitWall != nil {
			t.Errorf("HitWall = %v, want nil", rep.HitWall)
		}
		if rep.SunAzimuth != 180 || rep.SunElevation != 45 {
			t.Errorf("angles = (%v, %v)", rep.SunAzimuth, rep.SunElevation)
		}
		if rep.ExposureIntervals == nil {
			t.Error("ExposureIntervals is nil, want empty slice")
		}
	})

	t.Run("below horizon", func(t *testing.T) {
		hit := model.HitResult{Reason: model.ReasonBelowHorizon}
		rep := BuildReport(now, hit, nil)
		if rep.State != model.StateBelowHorizon {
			t.Errorf("state = %q, want %q", rep.State, model.StateBelowHorizon)
		}
		if rep.HitWindow != nil || rep.HitWall != nil {
			t.Error("window/wall attribution on a below-horizon report")
		}
	})

	t.Run("blocked by wall", func(t *testing.T) {
		hit := model.HitResult{Reason: model.ReasonNoWindowPath, WallID: "south"}
		rep := BuildReport(now, hit, nil)
		if rep.State != model.StateNoWindowPath {
			t.Errorf("state = %q, want %q", rep.State, model.StateNoWindowPath)
		}
		if rep.HitWall == nil || *rep.HitWall != "south" {
			t.Errorf("HitWall = %v, want south", rep.HitWall)
		}
	})
}

func TestBuildReportCurrentInterval(t *testing.T) {
	now := time.Date(2024, time.June, 21, 13, 0, 0, 0, time.UTC)
	intervals := []model.ExposureInterval{
		{Start: now.Add(-5 * time.Hour), End: now.Add(-4 * time.Hour), WindowID: "w1"},
		{Start: now.Add(-time.Hour), End: now.Add(time.Hour), WindowID: "w2"},
	}

	rep := BuildReport(now, model.HitResult{Hit: true, WindowID: "w2"}, intervals)
	if rep.CurrentInterval == nil {
		t.Fatal("CurrentInterval is nil while now falls inside an interval")
	}
	if rep.CurrentInterval.WindowID != "w2" {
		t.Errorf("CurrentInterval.WindowID = %q, want w2", rep.CurrentInterval.WindowID)
	}

	outside := BuildReport(now.Add(6*time.Hour), model.HitResult{}, intervals)
	if outside.CurrentInterval != nil {
		t.Errorf("CurrentInterval = %+v, want nil outside all intervals", outside.CurrentInterval)
	}
}
