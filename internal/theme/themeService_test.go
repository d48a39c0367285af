package theme_test

import (
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/wheelibin/yadom/internal/theme"
)

func Test_ThemeAt(t *testing.T) {
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})

	t.Run("should honour a fixed theme", func(t *testing.T) {
		s := theme.NewThemeService(logger, "dark", "55.75,37.62")

		assert.Equal(t, theme.Dark, s.ThemeAt(time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)))
	})

	t.Run("should be light at midday and dark at midnight", func(t *testing.T) {
		// London, close to the prime meridian so UTC is local solar time
		s := theme.NewThemeService(logger, "auto", "51.5,0")

		assert.Equal(t, theme.Light, s.ThemeAt(time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)))
		assert.Equal(t, theme.Dark, s.ThemeAt(time.Date(2024, 3, 20, 23, 30, 0, 0, time.UTC)))
		assert.Equal(t, theme.Dark, s.ThemeAt(time.Date(2024, 3, 20, 2, 0, 0, 0, time.UTC)))
	})

	t.Run("should fall back to light without a location", func(t *testing.T) {
		s := theme.NewThemeService(logger, "auto", "nowhere")

		assert.Equal(t, theme.Light, s.ThemeAt(time.Date(2024, 3, 20, 23, 30, 0, 0, time.UTC)))
	})

}
