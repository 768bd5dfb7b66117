package observability

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plantsignal/sunbeam/model"
)

// Collector bundles Prometheus metrics for the sunbeam sensor surface and
// provides the handler to expose them.
type Collector struct {
	gatherer prometheus.Gatherer

	Evaluations  *prometheus.CounterVec
	ScanDuration prometheus.Histogram
	SunAzimuth   prometheus.Gauge
	SunElevation prometheus.Gauge
	DirectSun    prometheus.Gauge
}

// NewCollector registers the sensor metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil. Re-registering
// against the same registry reuses the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	evaluations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sunbeam_evaluations_total",
		Help: "Total number of sensor evaluations, labeled by reported state.",
	}, []string{"state"}), "sunbeam_evaluations_total")
	if err != nil {
		return nil, err
	}

	scanDuration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sunbeam_scan_duration_seconds",
		Help:    "Duration of full-day exposure scans in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}), "sunbeam_scan_duration_seconds")
	if err != nil {
		return nil, err
	}

	azimuth, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sunbeam_sun_azimuth_degrees",
		Help: "Solar azimuth at the last evaluation, degrees clockwise from north.",
	}), "sunbeam_sun_azimuth_degrees")
	if err != nil {
		return nil, err
	}
	elevation, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sunbeam_sun_elevation_degrees",
		Help: "Solar elevation at the last evaluation, degrees above the horizon.",
	}), "sunbeam_sun_elevation_degrees")
	if err != nil {
		return nil, err
	}
	directSun, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sunbeam_direct_sun",
		Help: "Whether direct sunlight reached the plant at the last evaluation (0 or 1).",
	}), "sunbeam_direct_sun")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:     gatherer,
		Evaluations:  evaluations,
		ScanDuration: scanDuration,
		SunAzimuth:   azimuth,
		SunElevation: elevation,
		DirectSun:    directSun,
	}, nil
}

// Handler returns the HTTP handler serving the collector's metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// ObserveReport records one sensor evaluation.
func (c *Collector) ObserveReport(rep model.ExposureReport) {
	c.Evaluations.WithLabelValues(rep.State).Inc()
	c.SunAzimuth.Set(rep.SunAzimuth)
	c.SunElevation.Set(rep.SunElevation)
	if rep.IsHit {
		c.DirectSun.Set(1)
	} else {
		c.DirectSun.Set(0)
	}
}

// ObserveScan records the duration of a full-day exposure scan.
func (c *Collector) ObserveScan(d time.Duration) {
	c.ScanDuration.Observe(d.Seconds())
}

func registerCounterVec(reg prometheus.Registerer, cv *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(cv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("metric %s already registered with a different type", name)
		}
		return nil, err
	}
	return cv, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("metric %s already registered with a different type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("metric %s already registered with a different type", name)
		}
		return nil, err
	}
	return g, nil
}
