package core

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/plantsignal/sunbeam/model"
)

// SunPositionAt returns the sun's azimuth and elevation for the given
// location and instant. It fails with model.ErrInvalidLocation for
// out-of-range coordinates.
//
// suncalc reports angles in radians with azimuth measured from south
// (positive toward west); the result is converted to degrees clockwise from
// north, normalised to [0, 360). Pure function, safe for concurrent use.
func SunPositionAt(loc model.Location, at time.Time) (model.SolarAngles, error) {
	if err := loc.Validate(); err != nil {
		return model.SolarAngles{}, err
	}

	p := suncalc.GetPosition(at, loc.Latitude, loc.Longitude)

	const radToDeg = 180 / math.Pi
	az := math.Mod(p.Azimuth*radToDeg+180, 360)
	if az < 0 {
		az += 360
	}
	return model.SolarAngles{
		AzimuthDeg:   az,
		ElevationDeg: p.Altitude * radToDeg,
	}, nil
}
