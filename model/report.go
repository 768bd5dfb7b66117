package model

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Reasons attached to a HitResult when the plant receives no direct sun.
const (
	ReasonBelowHorizon = "sun_below_horizon"
	ReasonNoWindowPath = "no_window_path"
)

// Sensor states reported to the automation host.
const (
	StateDirectSun    = "direct_sun"
	StateBelowHorizon = "below_horizon"
	StateNoWindowPath = "no_window_path"
	StateUnknown      = "unknown"
)

// HitResult is the outcome of a single occlusion test. WindowID is set iff
// Hit; WallID and BlockedAt are set iff a wall blocks the beam.
type HitResult struct {
	Hit       bool
	WindowID  string
	WallID    string
	BlockedAt *r3.Vec
	Reason    string
	Angles    SolarAngles
}

// ExposureInterval is a contiguous span of local time during which direct
// sunlight reaches the plant. Start and End fall on the same civil day.
// WindowID is the window admitting the light when the interval opened;
// Samples counts the hit samples the interval was built from.
type ExposureInterval struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	WindowID string    `json:"window_id,omitempty"`
	Samples  int       `json:"samples,omitempty"`
}

// Contains reports whether t falls inside the interval, inclusive.
func (iv ExposureInterval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && !t.After(iv.End)
}

// ExposureReport is the attribute set delivered to the automation host.
type ExposureReport struct {
	Timestamp         time.Time          `json:"timestamp"`
	IsHit             bool               `json:"is_hit"`
	SunAzimuth        float64            `json:"sun_azimuth"`
	SunElevation      float64            `json:"sun_elevation"`
	HitWindow         *string            `json:"hit_window"`
	HitWall           *string            `json:"hit_wall"`
	State             string             `json:"state"`
	ExposureIntervals []ExposureInterval `json:"exposure_intervals"`
	CurrentInterval   *ExposureInterval  `json:"current_interval,omitempty"`
	Error             string             `json:"error,omitempty"`
}
