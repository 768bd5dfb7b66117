package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidLocation reports a latitude/longitude outside the valid range or
// a timezone that cannot be resolved.
var ErrInvalidLocation = errors.New("invalid location")

// Location is a geographic location used for solar position calculations.
// It is a value type: construct it once from configuration and pass it by
// value.
type Location struct {
	Latitude   float64 // degrees, positive north
	Longitude  float64 // degrees, positive east
	ElevationM float64 // metres above sea level, informational only
	Timezone   string  // IANA identifier, e.g. "Europe/Berlin"; empty means UTC
}

// Validate checks the coordinate ranges and that the timezone resolves.
func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidLocation, l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidLocation, l.Longitude)
	}
	if l.Timezone != "" {
		if _, err := time.LoadLocation(l.Timezone); err != nil {
			return fmt.Errorf("%w: timezone %q: %v", ErrInvalidLocation, l.Timezone, err)
		}
	}
	return nil
}

// TimeLocation resolves the IANA timezone, defaulting to UTC when unset.
func (l Location) TimeLocation() (*time.Location, error) {
	if l.Timezone == "" {
		return time.UTC, nil
	}
	tz, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidLocation, l.Timezone, err)
	}
	return tz, nil
}
