package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override file settings,
// e.g. MAPSEXPLORER_SEARCH_BASE_URL.
const EnvPrefix = "MAPSEXPLORER"

// Config represents the application configuration
type Config struct {
	Search SearchSettings `mapstructure:"search" toml:"search"`
	Map    MapSettings    `mapstructure:"map" toml:"map"`
	Log    LogSettings    `mapstructure:"log" toml:"log"`
}

// SearchSettings configures the geocoding client
type SearchSettings struct {
	BaseURL       string   `mapstructure:"base_url" toml:"base_url" validate:"required,url"`
	UserAgent     string   `mapstructure:"user_agent" toml:"user_agent" validate:"required"`
	Language      string   `mapstructure:"language" toml:"language"`
	Limit         int      `mapstructure:"limit" toml:"limit" validate:"min=1,max=50"`
	Timeout       Duration `mapstructure:"timeout" toml:"timeout"`
	RatePerSecond float64  `mapstructure:"rate_per_second" toml:"rate_per_second" validate:"gt=0"`
}

// MapSettings configures the map view
type MapSettings struct {
	TileURL     string   `mapstructure:"tile_url" toml:"tile_url" validate:"required,tiletemplate"`
	StartLat    float64  `mapstructure:"start_lat" toml:"start_lat" validate:"min=-90,max=90"`
	StartLon    float64  `mapstructure:"start_lon" toml:"start_lon" validate:"min=-180,max=180"`
	StartZoom   int      `mapstructure:"start_zoom" toml:"start_zoom" validate:"min=0,max=19"`
	FlyZoom     int      `mapstructure:"fly_zoom" toml:"fly_zoom" validate:"min=0,max=19"`
	FlyDuration Duration `mapstructure:"fly_duration" toml:"fly_duration"`
}

// LogSettings configures the log file
type LogSettings struct {
	Level string `mapstructure:"level" toml:"level" validate:"oneof=trace debug info warn error disabled"`
	File  string `mapstructure:"file" toml:"file"`
}

// Duration is a time.Duration that reads and writes as text ("1.5s")
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service backed by the user config directory
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceAt creates a config service backed by a specific file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// DefaultPath returns ~/.config/mapsexplorer/config.toml (or the platform equivalent)
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "mapsexplorer", "config.toml")
}

// Path returns the file this service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration. A missing file is not an error: defaults and
// environment overrides still apply.
func (cs *configService) Load() (*Config, error) {
	return load(cs.filePath, true)
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. The file must exist.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	return load(path, false)
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := Validate(config); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func load(path string, allowMissing bool) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) || !allowMissing {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("search.base_url", d.Search.BaseURL)
	v.SetDefault("search.user_agent", d.Search.UserAgent)
	v.SetDefault("search.language", d.Search.Language)
	v.SetDefault("search.limit", d.Search.Limit)
	v.SetDefault("search.timeout", d.Search.Timeout.String())
	v.SetDefault("search.rate_per_second", d.Search.RatePerSecond)
	v.SetDefault("map.tile_url", d.Map.TileURL)
	v.SetDefault("map.start_lat", d.Map.StartLat)
	v.SetDefault("map.start_lon", d.Map.StartLon)
	v.SetDefault("map.start_zoom", d.Map.StartZoom)
	v.SetDefault("map.fly_zoom", d.Map.FlyZoom)
	v.SetDefault("map.fly_duration", d.Map.FlyDuration.String())
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Search: SearchSettings{
			BaseURL:       "https://nominatim.openstreetmap.org",
			UserAgent:     "mapsexplorer/1.0",
			Limit:         10,
			Timeout:       Duration{10 * time.Second},
			RatePerSecond: 1,
		},
		Map: MapSettings{
			TileURL:     "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			StartLat:    40.7,
			StartLon:    -74.0,
			StartZoom:   12,
			FlyZoom:     12,
			FlyDuration: Duration{1500 * time.Millisecond},
		},
		Log: LogSettings{
			Level: "info",
			File:  "mapsexplorer.log",
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("tiletemplate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return strings.Contains(s, "{z}") && strings.Contains(s, "{x}") && strings.Contains(s, "{y}")
	})
	return v
}

// Validate checks a configuration for values the application cannot run with
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Search.Timeout.Duration <= 0 {
		return fmt.Errorf("invalid config: search.timeout must be positive")
	}
	if cfg.Map.FlyDuration.Duration <= 0 {
		return fmt.Errorf("invalid config: map.fly_duration must be positive")
	}
	return nil
}
