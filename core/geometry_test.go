package core

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/plantsignal/sunbeam/model"
)

const angleTol = 1e-9

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name   string
		angles model.SolarAngles
		want   r3.Vec
	}{
		{"north 45 up", model.SolarAngles{AzimuthDeg: 0, ElevationDeg: 45}, r3.Vec{X: 0, Y: math.Sqrt2 / 2, Z: math.Sqrt2 / 2}},
		{"east horizon", model.SolarAngles{AzimuthDeg: 90, ElevationDeg: 0}, r3.Vec{X: 1, Y: 0, Z: 0}},
		{"south 30 up", model.SolarAngles{AzimuthDeg: 180, ElevationDeg: 30}, r3.Vec{X: 0, Y: -math.Sqrt(3) / 2, Z: 0.5}},
		{"west horizon", model.SolarAngles{AzimuthDeg: 270, ElevationDeg: 0}, r3.Vec{X: -1, Y: 0, Z: 0}},
		{"zenith", model.SolarAngles{AzimuthDeg: 0, ElevationDeg: 90}, r3.Vec{X: 0, Y: 0, Z: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.angles)
			if !vecClose(got, tt.want, angleTol) {
				t.Errorf("SunDirection(%+v) = %v, want %v", tt.angles, got, tt.want)
			}
			if n := r3.Norm(got); math.Abs(n-1) > angleTol {
				t.Errorf("direction norm = %v, want 1", n)
			}
		})
	}
}

func TestAnglesFromDirectionRoundtrip(t *testing.T) {
	for az := 0.0; az < 360; az += 30 {
		for el := -80.0; el <= 80; el += 20 {
			in := model.SolarAngles{AzimuthDeg: az, ElevationDeg: el}
			out := AnglesFromDirection(SunDirection(in))
			if math.Abs(out.ElevationDeg-el) > 1e-9 {
				t.Errorf("elevation roundtrip %v -> %v", el, out.ElevationDeg)
			}
			dAz := math.Mod(out.AzimuthDeg-az+540, 360) - 180
			if math.Abs(dAz) > 1e-9 {
				t.Errorf("azimuth roundtrip %v -> %v", az, out.AzimuthDeg)
			}
		}
	}
}

func TestRayPlane(t *testing.T) {
	origin := r3.Vec{X: 0, Y: 2, Z: 1}
	normal := r3.Vec{X: 0, Y: -1, Z: 0}
	point := r3.Vec{X: 0, Y: 0, Z: 0}

	// Straight toward the plane.
	tHit, ok := rayPlane(origin, r3.Vec{X: 0, Y: -1, Z: 0}, point, normal)
	if !ok || math.Abs(tHit-2) > angleTol {
		t.Errorf("head-on ray: t=%v ok=%v, want t=2 ok=true", tHit, ok)
	}

	// Away from the plane: intersection lies behind the origin.
	tHit, ok = rayPlane(origin, r3.Vec{X: 0, Y: 1, Z: 0}, point, normal)
	if !ok || tHit >= 0 {
		t.Errorf("receding ray: t=%v ok=%v, want negative t", tHit, ok)
	}

	// Parallel to the plane.
	if _, ok := rayPlane(origin, r3.Vec{X: 1, Y: 0, Z: 0}, point, normal); ok {
		t.Error("parallel ray reported an intersection")
	}
}

func vecClose(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}
