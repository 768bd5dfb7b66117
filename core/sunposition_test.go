package core

import (
	"errors"
	"testing"
	"time"

	"github.com/plantsignal/sunbeam/model"
)

var berlin = model.Location{
	Latitude:  52.52,
	Longitude: 13.405,
	Timezone:  "Europe/Berlin",
}

func TestSunPositionAtBerlinSummerNoon(t *testing.T) {
	at := time.Date(2024, time.June, 21, 12, 0, 0, 0, time.UTC)
	angles, err := SunPositionAt(berlin, at)
	if err != nil {
		t.Fatalf("SunPositionAt: %v", err)
	}
	if angles.ElevationDeg < 40 {
		t.Errorf("midday solstice elevation = %v, want > 40", angles.ElevationDeg)
	}
	// Around local solar noon the sun stands roughly south.
	if angles.AzimuthDeg < 120 || angles.AzimuthDeg > 240 {
		t.Errorf("midday azimuth = %v, want roughly south", angles.AzimuthDeg)
	}
}

func TestSunPositionAtBerlinMidnight(t *testing.T) {
	at := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)
	angles, err := SunPositionAt(berlin, at)
	if err != nil {
		t.Fatalf("SunPositionAt: %v", err)
	}
	if angles.ElevationDeg >= 0 {
		t.Errorf("midnight elevation = %v, want below horizon", angles.ElevationDeg)
	}
}

func TestSunPositionAzimuthRange(t *testing.T) {
	day := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	for hour := 0; hour < 24; hour++ {
		angles, err := SunPositionAt(berlin, day.Add(time.Duration(hour)*time.Hour))
		if err != nil {
			t.Fatalf("hour %d: %v", hour, err)
		}
		if angles.AzimuthDeg < 0 || angles.AzimuthDeg >= 360 {
			t.Errorf("hour %d: azimuth %v outside [0, 360)", hour, angles.AzimuthDeg)
		}
		if angles.ElevationDeg < -90 || angles.ElevationDeg > 90 {
			t.Errorf("hour %d: elevation %v outside [-90, 90]", hour, angles.ElevationDeg)
		}
	}
}

func TestSunPositionAtInvalidLocation(t *testing.T) {
	bad := model.Location{Latitude: 95, Longitude: 0}
	_, err := SunPositionAt(bad, time.Now())
	if !errors.Is(err, model.ErrInvalidLocation) {
		t.Errorf("got %v, want ErrInvalidLocation", err)
	}
}
