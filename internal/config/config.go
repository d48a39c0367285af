package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/wheelibin/yadom/internal/auth"
	"github.com/wheelibin/yadom/internal/constants"
)

type OAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	RedirectURI  string `mapstructure:"redirect_uri"`
	AuthorizeURL string `mapstructure:"authorize_url"`
}

type APIConfig struct {
	// route api calls through this server's relay rather than straight upstream
	UseProxy bool   `mapstructure:"use_proxy"`
	Upstream string `mapstructure:"upstream"`
	Version  string `mapstructure:"version"`
}

type ServerConfig struct {
	Listen    string `mapstructure:"listen"`
	PublicURL string `mapstructure:"public_url"`
}

type RelayConfig struct {
	GetTimeout    time.Duration `mapstructure:"get_timeout"`
	PostTimeout   time.Duration `mapstructure:"post_timeout"`
	StreamTimeout time.Duration `mapstructure:"stream_timeout"`
	UserAgent     string        `mapstructure:"user_agent"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

type DashboardConfig struct {
	// zero disables background refreshes
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type CameraConfig struct {
	StreamTimeout   time.Duration `mapstructure:"stream_timeout"`
	PlaybackTimeout time.Duration `mapstructure:"playback_timeout"`
}

type UIConfig struct {
	Theme       string `mapstructure:"theme"`
	GeoLocation string `mapstructure:"geo_location"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type Config struct {
	OAuth     OAuthConfig     `mapstructure:"oauth"`
	API       APIConfig       `mapstructure:"api"`
	Server    ServerConfig    `mapstructure:"server"`
	Relay     RelayConfig     `mapstructure:"relay"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Camera    CameraConfig    `mapstructure:"camera"`
	UI        UIConfig        `mapstructure:"ui"`
	Log       LogConfig       `mapstructure:"log"`
}

func setDefaults() {
	viper.SetDefault("oauth.client_id", "")
	viper.SetDefault("oauth.redirect_uri", "")
	viper.SetDefault("oauth.authorize_url", auth.DefaultAuthorizeURL)
	viper.SetDefault("api.use_proxy", true)
	viper.SetDefault("api.upstream", "https://api.iot.yandex.net")
	viper.SetDefault("api.version", "/v1.0")
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.public_url", "http://localhost:8080")
	viper.SetDefault("relay.get_timeout", constants.RelayGetTimeout)
	viper.SetDefault("relay.post_timeout", constants.RelayPostTimeout)
	viper.SetDefault("relay.stream_timeout", constants.RelayPostTimeout)
	viper.SetDefault("relay.user_agent", "Mozilla/5.0 (iPad; CPU OS 9_3_5 like Mac OS X) AppleWebKit/601.1.46 (KHTML, like Gecko) Mobile/13G36")
	viper.SetDefault("storage.db_path", "yadom.db")
	viper.SetDefault("dashboard.refresh_interval", constants.DefaultRefreshInterval)
	viper.SetDefault("camera.stream_timeout", constants.CameraStreamTimeout)
	viper.SetDefault("camera.playback_timeout", constants.CameraPlaybackTimeout)
	viper.SetDefault("ui.theme", "auto")
	viper.SetDefault("ui.geo_location", "55.75,37.62")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")
}

// InitialiseConfig reads config.yaml from the usual places (or configFile when
// given), applies YADOM_* environment overrides and returns the result.
func InitialiseConfig(configFile string) (*Config, error) {
	viper.Reset()
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")               // name of config file (without extension)
		viper.SetConfigType("yaml")                 // REQUIRED if the config file does not have the extension in the name
		viper.AddConfigPath("/etc/yadom/")          // path to look for the config file in
		viper.AddConfigPath("$HOME/.config/yadom/") // call multiple times to add many search paths
		viper.AddConfigPath(".")                    // optionally look for config in the working directory
	}

	viper.SetEnvPrefix("yadom")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// no config file is fine, defaults and env still apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	return &cfg, nil
}

// APIBaseURL is where the api client sends requests: the local relay when
// the proxy is enabled, otherwise the upstream service.
func (c *Config) APIBaseURL() string {
	if c.API.UseProxy {
		return strings.TrimRight(c.Server.PublicURL, "/") + "/api" + c.API.Version
	}
	return strings.TrimRight(c.API.Upstream, "/") + c.API.Version
}

func (c *Config) RedirectURI() string {
	if c.OAuth.RedirectURI != "" {
		return c.OAuth.RedirectURI
	}
	return strings.TrimRight(c.Server.PublicURL, "/") + "/auth/callback"
}
