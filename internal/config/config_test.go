package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/yadom/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func Test_InitialiseConfig(t *testing.T) {

	t.Run("should apply defaults for missing keys", func(t *testing.T) {
		// arrange
		path := writeConfig(t, "oauth:\n  client_id: abc\n")

		// act
		cfg, err := config.InitialiseConfig(path)

		// assert
		require.NoError(t, err)
		assert.Equal(t, "abc", cfg.OAuth.ClientID)
		assert.True(t, cfg.API.UseProxy)
		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Relay.GetTimeout)
		assert.Equal(t, 60*time.Second, cfg.Relay.PostTimeout)
		assert.Equal(t, 45*time.Second, cfg.Camera.StreamTimeout)
		assert.Equal(t, time.Duration(0), cfg.Dashboard.RefreshInterval)
	})

	t.Run("should parse durations and nested keys", func(t *testing.T) {
		path := writeConfig(t, "api:\n  use_proxy: false\ndashboard:\n  refresh_interval: 2m\nui:\n  theme: dark\n")

		cfg, err := config.InitialiseConfig(path)

		require.NoError(t, err)
		assert.False(t, cfg.API.UseProxy)
		assert.Equal(t, 2*time.Minute, cfg.Dashboard.RefreshInterval)
		assert.Equal(t, "dark", cfg.UI.Theme)
	})

	t.Run("should let the environment override the file", func(t *testing.T) {
		path := writeConfig(t, "oauth:\n  client_id: from-file\n")
		t.Setenv("YADOM_OAUTH_CLIENT_ID", "from-env")

		cfg, err := config.InitialiseConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.OAuth.ClientID)
	})

	t.Run("should fail when an explicit config file is missing", func(t *testing.T) {
		_, err := config.InitialiseConfig(filepath.Join(t.TempDir(), "nope.yaml"))

		assert.Error(t, err)
	})

}

func Test_URLs(t *testing.T) {

	t.Run("should route through the relay when the proxy is enabled", func(t *testing.T) {
		cfg := config.Config{
			API:    config.APIConfig{UseProxy: true, Upstream: "https://api.iot.yandex.net", Version: "/v1.0"},
			Server: config.ServerConfig{PublicURL: "http://home.local:8080/"},
		}

		assert.Equal(t, "http://home.local:8080/api/v1.0", cfg.APIBaseURL())
		assert.Equal(t, "http://home.local:8080/auth/callback", cfg.RedirectURI())

		cfg.API.UseProxy = false
		cfg.OAuth.RedirectURI = "https://example.com/cb"
		assert.Equal(t, "https://api.iot.yandex.net/v1.0", cfg.APIBaseURL())
		assert.Equal(t, "https://example.com/cb", cfg.RedirectURI())
	})

}
