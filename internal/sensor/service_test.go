package sensor

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/plantsignal/sunbeam/core"
	"github.com/plantsignal/sunbeam/internal/observability"
	"github.com/plantsignal/sunbeam/model"
)

// berlinScene is a south wall with a near-full-wall window, guaranteed to
// see the midday summer sun.
func berlinScene(t *testing.T) *core.Scene {
	t.Helper()
	wall := model.Wall{ID: "south", Vertices: []r3.Vec{
		{X: -10, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 8}, {X: -10, Y: 0, Z: 8},
	}}
	window := model.Window{ID: "big", WallID: "south", Vertices: []r3.Vec{
		{X: -9, Y: 0, Z: 0.2}, {X: 9, Y: 0, Z: 0.2}, {X: 9, Y: 0, Z: 7.8}, {X: -9, Y: 0, Z: 7.8},
	}}
	room, err := model.NewRoom([]model.Wall{wall}, []model.Window{window}, r3.Vec{X: 0, Y: 1.5, Z: 0.5})
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	return &core.Scene{
		Location: model.Location{Latitude: 52.52, Longitude: 13.405, Timezone: "Europe/Berlin"},
		Room:     room,
		Step:     10 * time.Minute,
	}
}

func TestReportDirectSunAtNoon(t *testing.T) {
	noon := time.Date(2024, time.June, 21, 12, 0, 0, 0, time.UTC)
	svc := New(berlinScene(t), WithClock(FixedClock(noon)))

	rep := svc.Report(context.Background())
	if rep.State != model.StateDirectSun || !rep.IsHit {
		t.Fatalf("state = %q, is_hit = %v, want direct sun", rep.State, rep.IsHit)
	}
	if rep.HitWindow == nil || *rep.HitWindow != "big" {
		t.Errorf("HitWindow = %v, want big", rep.HitWindow)
	}
	if len(rep.ExposureIntervals) == 0 {
		t.Error("no exposure intervals on the summer solstice")
	}
	if rep.CurrentInterval == nil {
		t.Error("CurrentInterval is nil while the sun is hitting")
	}
	if rep.Error != "" {
		t.Errorf("unexpected error field %q", rep.Error)
	}
	// The report carries local time.
	if got := rep.Timestamp.Location().String(); got != "Europe/Berlin" {
		t.Errorf("timestamp zone = %q, want Europe/Berlin", got)
	}
}

func TestReportBelowHorizonAtMidnight(t *testing.T) {
	midnight := time.Date(2024, time.June, 21, 0, 30, 0, 0, time.UTC)
	svc := New(berlinScene(t), WithClock(FixedClock(midnight)))

	rep := svc.Report(context.Background())
	if rep.IsHit {
		t.Fatal("hit reported at night")
	}
	if rep.State != model.StateBelowHorizon {
		t.Errorf("state = %q, want %q", rep.State, model.StateBelowHorizon)
	}
}

func TestReportNeverFails(t *testing.T) {
	scene := berlinScene(t)
	scene.Location.Latitude = 95 // invalid on purpose

	svc := New(scene)
	rep := svc.Report(context.Background())
	if rep.State != model.StateUnknown {
		t.Errorf("state = %q, want %q", rep.State, model.StateUnknown)
	}
	if rep.Error == "" {
		t.Error("unknown report carries no error description")
	}
	if rep.ExposureIntervals == nil {
		t.Error("ExposureIntervals is nil, want empty slice")
	}
}

func TestReportCachesDayScan(t *testing.T) {
	noon := time.Date(2024, time.June, 21, 12, 0, 0, 0, time.UTC)
	svc := New(berlinScene(t), WithClock(FixedClock(noon)))

	first := svc.Report(context.Background())
	second := svc.Report(context.Background())
	if !reflect.DeepEqual(first.ExposureIntervals, second.ExposureIntervals) {
		t.Error("repeated reports disagree on the day's intervals")
	}

	reg := prometheus.NewRegistry()
	collector, err := observability.NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	metered := New(berlinScene(t), WithClock(FixedClock(noon)), WithMetrics(collector))
	metered.Report(context.Background())
	metered.Report(context.Background())

	// Only the first report triggers a scan.
	if got := scanCount(t, reg); got != 1 {
		t.Errorf("scan histogram counted %d scans, want 1", got)
	}
	if got := testutil.ToFloat64(collector.Evaluations.WithLabelValues(model.StateDirectSun)); got != 2 {
		t.Errorf("evaluations{direct_sun} = %v, want 2", got)
	}
}

func scanCount(t *testing.T, g prometheus.Gatherer) uint64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() == "sunbeam_scan_duration_seconds" {
			return fam.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	t.Fatal("scan duration histogram not found")
	return 0
}

func TestClocks(t *testing.T) {
	at := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
	if got := FixedClock(at).Now(); !got.Equal(at) {
		t.Errorf("FixedClock.Now() = %v, want %v", got, at)
	}
	if d := time.Since(SystemClock().Now()); d < 0 || d > time.Minute {
		t.Errorf("SystemClock drifted by %v", d)
	}
}
