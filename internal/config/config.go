// Package config loads the settings of the fuel price tracker.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rubiojr/prixcarburant/pkg/api"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxKm        = 15
	DefaultScanInterval = 4
	DefaultDBPath       = "prix_carburant.db"
	DefaultListen       = "127.0.0.1:8080"
	DefaultLogLevel     = "info"
)

type Config struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	// MaxKm is the radius used when no station list is given.
	MaxKm float64 `yaml:"max_km"`
	// Stations, when set, selects list mode instead of radius mode.
	Stations []int64 `yaml:"stations"`
	// ScanInterval is the refresh period, in hours.
	ScanInterval          int             `yaml:"scan_interval"`
	Fuels                 map[string]bool `yaml:"fuels"`
	DisplayEntityPictures bool            `yaml:"display_entity_pictures"`
	TimeZone              string          `yaml:"time_zone"`
	RequestTimeout        time.Duration   `yaml:"request_timeout"`
	DBPath                string          `yaml:"db"`
	Listen                string          `yaml:"listen"`
	NamesFile             string          `yaml:"names_file"`
	LogLevel              string          `yaml:"log_level"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		MaxKm:                 DefaultMaxKm,
		ScanInterval:          DefaultScanInterval,
		Fuels:                 map[string]bool{},
		DisplayEntityPictures: true,
		TimeZone:              api.DefaultTimeZone,
		RequestTimeout:        api.DefaultTimeout,
		DBPath:                DefaultDBPath,
		Listen:                DefaultListen,
		LogLevel:              DefaultLogLevel,
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	if err := cfg.decode(f); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if c.Fuels == nil {
		c.Fuels = map[string]bool{}
	}
	return nil
}

// Validate checks ranges and fuel names.
func (c *Config) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", c.Longitude)
	}
	if len(c.Stations) == 0 && c.MaxKm <= 0 {
		return errors.New("max_km must be positive when no stations are listed")
	}
	if c.ScanInterval <= 0 {
		return errors.New("scan_interval must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}
	for name := range c.Fuels {
		if _, err := api.ParseFuelType(name); err != nil {
			return err
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// ListMode reports whether stations are followed by id.
func (c *Config) ListMode() bool {
	return len(c.Stations) > 0
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.ScanInterval) * time.Hour
}

// EnabledFuels maps every fuel to whether its sensors are built.
// Fuels not mentioned in the file are enabled.
func (c *Config) EnabledFuels() map[api.FuelType]bool {
	enabled := make(map[api.FuelType]bool, len(api.FuelTypes))
	for _, f := range api.FuelTypes {
		enabled[f] = true
	}
	for name, on := range c.Fuels {
		if f, err := api.ParseFuelType(name); err == nil {
			enabled[f] = on
		}
	}
	return enabled
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Logger builds the text logger used by every component.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
