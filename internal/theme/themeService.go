package theme

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nathan-osman/go-sunrise"
)

const (
	Light = "light"
	Dark  = "dark"
	Auto  = "auto"
)

type ThemeService struct {
	logger   *log.Logger
	mode     string
	lat, lng float64
	hasGeo   bool
}

// NewThemeService takes the configured theme and a "lat,lng" location used
// when the theme is auto.
func NewThemeService(logger *log.Logger, mode string, geoLocation string) *ThemeService {
	s := &ThemeService{logger: logger, mode: strings.ToLower(strings.TrimSpace(mode))}

	latLng := strings.Split(geoLocation, ",")
	if len(latLng) == 2 {
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(latLng[0]), 64)
		lng, errLng := strconv.ParseFloat(strings.TrimSpace(latLng[1]), 64)
		if errLat == nil && errLng == nil {
			s.lat, s.lng, s.hasGeo = lat, lng, true
		}
	}
	if s.mode == Auto && !s.hasGeo {
		logger.Warn("invalid geo location, auto theme will stay light", "geoLocation", geoLocation)
	}

	return s
}

func (s *ThemeService) CalculateSunriseSunset(baseDate time.Time) (time.Time, time.Time) {
	return sunrise.SunriseSunset(
		s.lat, s.lng,
		baseDate.Year(), baseDate.Month(), baseDate.Day(),
	)
}

// ThemeAt returns the theme to render at time t.
func (s *ThemeService) ThemeAt(t time.Time) string {
	switch s.mode {
	case Light, Dark:
		return s.mode
	}
	if !s.hasGeo {
		return Light
	}

	rise, set := s.CalculateSunriseSunset(t.UTC())
	// polar day/night returns zero times
	if rise.IsZero() || set.IsZero() {
		return Light
	}
	if t.Before(rise) || t.After(set) {
		return Dark
	}
	return Light
}
