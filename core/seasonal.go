package core

import (
	"time"

	"github.com/mooncaker816/learnmeeus/v3/julian"
	"github.com/mooncaker816/learnmeeus/v3/solstice"

	"github.com/plantsignal/sunbeam/model"
)

// Season identifies one of the four solar season boundaries.
type Season string

const (
	SeasonMarchEquinox     Season = "march_equinox"
	SeasonJuneSolstice     Season = "june_solstice"
	SeasonSeptemberEquinox Season = "september_equinox"
	SeasonDecemberSolstice Season = "december_solstice"
)

// SeasonalExposure is the exposure outlook for a single season boundary
// date.
type SeasonalExposure struct {
	Season    Season                   `json:"season"`
	Date      time.Time                `json:"date"`
	Intervals []model.ExposureInterval `json:"exposure_intervals"`
}

// SeasonalOutlook scans the year's equinox and solstice dates, giving the
// extremes of how the plant's direct-sun intervals shift across the year.
func SeasonalOutlook(year int, loc model.Location, room *model.Room, step time.Duration) ([]SeasonalExposure, error) {
	tz, err := loc.TimeLocation()
	if err != nil {
		return nil, err
	}

	scanner := &Scanner{Location: loc, Room: room, Step: step}
	boundaries := []struct {
		season Season
		jde    float64
	}{
		{SeasonMarchEquinox, solstice.March(year)},
		{SeasonJuneSolstice, solstice.June(year)},
		{SeasonSeptemberEquinox, solstice.September(year)},
		{SeasonDecemberSolstice, solstice.December(year)},
	}

	out := make([]SeasonalExposure, 0, len(boundaries))
	for _, b := range boundaries {
		y, m, d := julian.JDToCalendar(b.jde)
		intervals, err := scanner.Scan(y, time.Month(m), int(d))
		if err != nil {
			return nil, err
		}
		out = append(out, SeasonalExposure{
			Season:    b.season,
			Date:      time.Date(y, time.Month(m), int(d), 0, 0, 0, 0, tz),
			Intervals: intervals,
		})
	}
	return out, nil
}
