// Package suncalc decides whether a detection happened at night from the
// civil twilight times at the camera station.
package suncalc

import (
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sj14/astral/pkg/astral"

	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/observability/metrics"
)

const componentName = "suncalc"

// SunEventTimes holds the calculated sun event times in station local time
type SunEventTimes struct {
	CivilDawn time.Time
	Sunrise   time.Time
	Sunset    time.Time
	CivilDusk time.Time
}

// SunCalc calculates and caches sun event times for one observer
type SunCalc struct {
	observer astral.Observer
	location *time.Location
	cache    *cache.Cache // date key -> SunEventTimes
	metrics  *metrics.SunCalcMetrics
}

// NewSunCalc creates a new SunCalc for the given station. A nil location
// means UTC.
func NewSunCalc(latitude, longitude float64, location *time.Location) *SunCalc {
	if location == nil {
		location = time.UTC
	}
	return &SunCalc{
		observer: astral.Observer{Latitude: latitude, Longitude: longitude},
		location: location,
		// Sun times for a date never change; no janitor goroutine needed
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// SetMetrics attaches Prometheus collectors. Nil disables metrics.
func (sc *SunCalc) SetMetrics(m *metrics.SunCalcMetrics) {
	sc.metrics = m
}

// Location returns the station time zone
func (sc *SunCalc) Location() *time.Location {
	return sc.location
}

// GetSunEventTimes returns the sun event times for the station calendar date
// containing t, using the cache if available.
func (sc *SunCalc) GetSunEventTimes(t time.Time) (SunEventTimes, error) {
	local := t.In(sc.location)
	dateKey := local.Format(time.DateOnly)

	if cached, found := sc.cache.Get(dateKey); found {
		if sc.metrics != nil {
			sc.metrics.RecordCacheHit()
		}
		return cached.(SunEventTimes), nil
	}

	start := time.Now()
	times, err := sc.calculateSunEventTimes(local)
	if sc.metrics != nil {
		sc.metrics.RecordCacheMiss()
		status := metrics.StatusSuccess
		if err != nil {
			status = metrics.StatusError
		}
		sc.metrics.RecordCalculation(status, time.Since(start).Seconds())
	}
	if err != nil {
		return SunEventTimes{}, err
	}

	sc.cache.SetDefault(dateKey, times)
	if sc.metrics != nil {
		sc.metrics.UpdateCacheSize(sc.cache.ItemCount())
	}
	return times, nil
}

// calculateSunEventTimes runs the astral calculations for the calendar date of local
func (sc *SunCalc) calculateSunEventTimes(local time.Time) (SunEventTimes, error) {
	date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	civilDawn, err := astral.Dawn(sc.observer, date, astral.DepressionCivil)
	if err != nil {
		return SunEventTimes{}, sc.wrap(err, "civil dawn", date)
	}
	sunrise, err := astral.Sunrise(sc.observer, date)
	if err != nil {
		return SunEventTimes{}, sc.wrap(err, "sunrise", date)
	}
	sunset, err := astral.Sunset(sc.observer, date)
	if err != nil {
		return SunEventTimes{}, sc.wrap(err, "sunset", date)
	}
	civilDusk, err := astral.Dusk(sc.observer, date, astral.DepressionCivil)
	if err != nil {
		return SunEventTimes{}, sc.wrap(err, "civil dusk", date)
	}

	return SunEventTimes{
		CivilDawn: civilDawn.In(sc.location),
		Sunrise:   sunrise.In(sc.location),
		Sunset:    sunset.In(sc.location),
		CivilDusk: civilDusk.In(sc.location),
	}, nil
}

func (sc *SunCalc) wrap(err error, event string, date time.Time) error {
	return errors.Newf("failed to calculate %s: %w", event, err).
		Component(componentName).
		Category(errors.CategoryProcessing).
		Context("date", date.Format(time.DateOnly)).
		Build()
}

// IsNight reports whether t falls before civil dawn or after civil dusk of
// its calendar date at the station. An error is returned where the sun does
// not cross the civil twilight angle that day, e.g. polar summer.
func (sc *SunCalc) IsNight(t time.Time) (bool, error) {
	times, err := sc.GetSunEventTimes(t)
	if err != nil {
		return false, err
	}
	return t.Before(times.CivilDawn) || t.After(times.CivilDusk), nil
}
