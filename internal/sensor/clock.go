package sensor

import "time"

// Clock supplies the sensor's notion of "now". Abstracting it keeps report
// generation deterministic in tests and lets the CLI evaluate arbitrary
// instants.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

// FixedClock returns a Clock pinned to the given instant.
func FixedClock(t time.Time) Clock { return fixedClock(t) }
