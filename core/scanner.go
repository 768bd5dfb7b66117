package core

import (
	"iter"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/plantsignal/sunbeam/model"
)

// DefaultStep is the sampling step used when a Scanner has none configured.
const DefaultStep = 5 * time.Minute

// Scanner samples the occlusion test across a civil day at a fixed step and
// compresses the hit/miss samples into contiguous exposure intervals.
// Identical inputs always produce identical output.
type Scanner struct {
	Location model.Location
	Room     *model.Room
	Step     time.Duration
}

func (s *Scanner) step() time.Duration {
	if s.Step <= 0 {
		return DefaultStep
	}
	return s.Step
}

// Samples returns a lazy, finite, restartable sequence of (timestamp, hit
// result) pairs across the given civil day in the location's timezone.
// Sampling is clipped to the daylight-adjacent part of the day using
// sunrise/sunset times; that is an optimisation only, and the whole day is
// scanned when the sun never rises or sets at this latitude.
func (s *Scanner) Samples(year int, month time.Month, day int) (iter.Seq2[time.Time, model.HitResult], error) {
	if err := s.Location.Validate(); err != nil {
		return nil, err
	}
	tz, err := s.Location.TimeLocation()
	if err != nil {
		return nil, err
	}

	dayStart := time.Date(year, month, day, 0, 0, 0, 0, tz)
	dayEnd := dayStart.AddDate(0, 0, 1)
	step := s.step()
	start, end := s.scanBounds(dayStart, dayEnd, step)

	tester := NewOcclusionTester(s.Room)
	loc := s.Location
	return func(yield func(time.Time, model.HitResult) bool) {
		for t := start; t.Before(end); t = t.Add(step) {
			angles, err := SunPositionAt(loc, t)
			if err != nil {
				return
			}
			if !yield(t, tester.Test(angles)) {
				return
			}
		}
	}, nil
}

// Scan runs the day's samples and run-length-encodes them into exposure
// intervals: one opens on a miss-to-hit transition and closes on the next
// hit-to-miss transition or at end of day.
//
// Interval edges snap to the midpoint between the two samples around each
// transition, so the reported precision matches the sampling step; an
// interval that opens at the first sample or runs to the last one keeps the
// raw sample time.
func (s *Scanner) Scan(year int, month time.Month, day int) ([]model.ExposureInterval, error) {
	seq, err := s.Samples(year, month, day)
	if err != nil {
		return nil, err
	}
	return consolidate(seq), nil
}

func consolidate(samples iter.Seq2[time.Time, model.HitResult]) []model.ExposureInterval {
	intervals := []model.ExposureInterval{}

	var (
		open     bool
		current  model.ExposureInterval
		prev     time.Time
		havePrev bool
	)
	for at, hit := range samples {
		switch {
		case hit.Hit && !open:
			open = true
			current = model.ExposureInterval{Start: at, WindowID: hit.WindowID, Samples: 1}
			if havePrev {
				current.Start = midpoint(prev, at)
			}
		case hit.Hit && open:
			current.Samples++
		case !hit.Hit && open:
			// prev is the last hit sample.
			current.End = midpoint(prev, at)
			intervals = append(intervals, current)
			open = false
		}
		prev = at
		havePrev = true
	}
	if open {
		current.End = prev
		intervals = append(intervals, current)
	}
	return intervals
}

func midpoint(a, b time.Time) time.Time {
	return a.Add(b.Sub(a) / 2)
}

// scanBounds clips [dayStart, dayEnd) to sunrise..sunset padded by one step.
// The civil day can straddle two UTC dates, so both are consulted.
func (s *Scanner) scanBounds(dayStart, dayEnd time.Time, step time.Duration) (time.Time, time.Time) {
	var lo, hi time.Time
	for _, ref := range [2]time.Time{dayStart, dayEnd.Add(-time.Hour)} {
		u := ref.UTC()
		rise, set := sunrise.SunriseSunset(s.Location.Latitude, s.Location.Longitude, u.Year(), u.Month(), u.Day())
		if rise.IsZero() || set.IsZero() {
			// Polar day or night: no usable pre-filter.
			return dayStart, dayEnd
		}
		if set.Before(dayStart) || rise.After(dayEnd) {
			continue
		}
		if lo.IsZero() || rise.Before(lo) {
			lo = rise
		}
		if hi.IsZero() || set.After(hi) {
			hi = set
		}
	}
	if lo.IsZero() {
		return dayStart, dayEnd
	}

	start := lo.Add(-step).In(dayStart.Location())
	if start.Before(dayStart) {
		start = dayStart
	}
	end := hi.Add(step).In(dayStart.Location())
	if end.After(dayEnd) {
		end = dayEnd
	}
	return start, end
}
