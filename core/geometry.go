package core

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/plantsignal/sunbeam/model"
)

// parallelEps is the tolerance below which a ray counts as parallel to a
// plane (dot product of unit vectors). Grazing rays are non-intersecting.
const parallelEps = 1e-9

// SunDirection converts solar angles into the unit vector pointing from an
// observer toward the sun, in east-north-up coordinates (x east, y north,
// z up).
func SunDirection(a model.SolarAngles) r3.Vec {
	const degToRad = math.Pi / 180
	az := a.AzimuthDeg * degToRad
	el := a.ElevationDeg * degToRad

	cosEl := math.Cos(el)
	return r3.Vec{
		X: cosEl * math.Sin(az),
		Y: cosEl * math.Cos(az),
		Z: math.Sin(el),
	}
}

// AnglesFromDirection is the inverse of SunDirection: it recovers azimuth
// and elevation from a direction vector pointing toward the sun.
func AnglesFromDirection(dir r3.Vec) model.SolarAngles {
	const radToDeg = 180 / math.Pi
	az := math.Atan2(dir.X, dir.Y) * radToDeg
	if az < 0 {
		az += 360
	}
	return model.SolarAngles{
		AzimuthDeg:   az,
		ElevationDeg: math.Atan2(dir.Z, math.Hypot(dir.X, dir.Y)) * radToDeg,
	}
}

// rayPlane returns the parameter t at which origin + t*dir meets the plane
// through point with the given unit normal. ok is false when the ray is
// parallel (or nearly parallel) to the plane.
func rayPlane(origin, dir, point, normal r3.Vec) (t float64, ok bool) {
	denom := r3.Dot(dir, normal)
	if math.Abs(denom) < parallelEps {
		return 0, false
	}
	return r3.Dot(r3.Sub(point, origin), normal) / denom, true
}
