package model

// SolarAngles is the sun's position in the horizontal coordinate system.
// Azimuth is measured in degrees clockwise from true north in [0, 360);
// elevation in degrees above the horizon in [-90, 90].
type SolarAngles struct {
	AzimuthDeg   float64
	ElevationDeg float64
}
