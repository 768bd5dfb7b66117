package sensor

import (
	"context"
	"sync"
	"time"

	"github.com/plantsignal/sunbeam/core"
	"github.com/plantsignal/sunbeam/internal/logging"
	"github.com/plantsignal/sunbeam/internal/observability"
	"github.com/plantsignal/sunbeam/model"
)

// Service evaluates a scene on demand and caches the current day's exposure
// scan. Safe for concurrent use; the scene is read-only after construction.
type Service struct {
	scene   *core.Scene
	tester  *core.OcclusionTester
	scanner *core.Scanner
	clock   Clock
	log     logging.Logger
	metrics *observability.Collector

	mu             sync.RWMutex
	cacheDay       string
	cacheIntervals []model.ExposureInterval
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *observability.Collector) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a sensor service for the given scene.
func New(scene *core.Scene, opts ...Option) *Service {
	s := &Service{
		scene:   scene,
		tester:  core.NewOcclusionTester(scene.Room),
		scanner: &core.Scanner{Location: scene.Location, Room: scene.Room, Step: scene.Step},
		clock:   SystemClock(),
		log:     logging.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report computes the current exposure report. It never fails: internal
// errors are translated into a benign "unknown" report so the automation
// host always receives a well-formed state.
func (s *Service) Report(ctx context.Context) model.ExposureReport {
	now := s.clock.Now()

	tz, err := s.scene.Location.TimeLocation()
	if err != nil {
		return s.unknown(ctx, now, err)
	}
	now = now.In(tz)

	angles, err := core.SunPositionAt(s.scene.Location, now)
	if err != nil {
		return s.unknown(ctx, now, err)
	}
	hit := s.tester.Test(angles)

	intervals, err := s.intervalsFor(now)
	if err != nil {
		return s.unknown(ctx, now, err)
	}

	rep := core.BuildReport(now, hit, intervals)
	if s.metrics != nil {
		s.metrics.ObserveReport(rep)
	}
	s.log.Debug(ctx, "evaluated exposure",
		logging.Bool("is_hit", rep.IsHit),
		logging.String("state", rep.State),
		logging.Float64("azimuth", rep.SunAzimuth),
		logging.Float64("elevation", rep.SunElevation),
		logging.Int("intervals", len(rep.ExposureIntervals)),
	)
	return rep
}

// unknown translates an internal failure into the benign state reported to
// the host.
func (s *Service) unknown(ctx context.Context, now time.Time, err error) model.ExposureReport {
	s.log.Error(ctx, "sensor evaluation failed", logging.String("error", err.Error()))
	rep := model.ExposureReport{
		Timestamp:         now,
		State:             model.StateUnknown,
		Error:             err.Error(),
		ExposureIntervals: []model.ExposureInterval{},
	}
	if s.metrics != nil {
		s.metrics.ObserveReport(rep)
	}
	return rep
}

// intervalsFor returns the exposure intervals for now's civil day, scanning
// at most once per day.
func (s *Service) intervalsFor(now time.Time) ([]model.ExposureInterval, error) {
	day := now.Format(time.DateOnly)

	s.mu.RLock()
	cachedDay, cached := s.cacheDay, s.cacheIntervals
	s.mu.RUnlock()
	if cachedDay == day {
		return cached, nil
	}

	started := time.Now()
	intervals, err := s.scanner.Scan(now.Year(), now.Month(), now.Day())
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveScan(time.Since(started))
	}

	s.mu.Lock()
	s.cacheDay = day
	s.cacheIntervals = intervals
	s.mu.Unlock()
	return intervals, nil
}
