// Package config loads signscribe settings from a yaml file, a .env file and
// SIGNSCRIBE_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/signscribe/internal/capture"
	"github.com/ayusman/signscribe/internal/detector"
	"github.com/ayusman/signscribe/internal/logging"
	"github.com/ayusman/signscribe/internal/sign"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "SIGNSCRIBE_"

// DataDirName is the per-user directory holding the database, sinks and web assets.
const DataDirName = ".signscribe"

type Server struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

type Store struct {
	// Path of the sqlite database. Empty disables persistence.
	Path string `yaml:"path"`
}

type Camera struct {
	Enabled        bool `yaml:"enabled"`
	capture.Config `yaml:",inline"`
}

type Classifier struct {
	Thresholds sign.Thresholds `yaml:"thresholds"`
}

type Sinks struct {
	Dir     string        `yaml:"dir"`
	Timeout time.Duration `yaml:"timeout"`
}

// Config is the root of the configuration tree.
type Config struct {
	Server     Server              `yaml:"server"`
	Store      Store               `yaml:"store"`
	Log        logging.Config      `yaml:"log"`
	Camera     Camera              `yaml:"camera"`
	Detector   detector.Config     `yaml:"detector"`
	Classifier Classifier          `yaml:"classifier"`
	Debounce   sign.DebounceConfig `yaml:"debounce"`
	Sinks      Sinks               `yaml:"sinks"`
}

// DataDir returns ~/.signscribe, or the relative DataDirName if the home
// directory cannot be resolved.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DataDirName
	}
	return filepath.Join(home, DataDirName)
}

// Default returns the built-in configuration.
func Default() *Config {
	dir := DataDir()
	return &Config{
		Server:   Server{Addr: ":8080"},
		Store:    Store{Path: filepath.Join(dir, "signscribe.db")},
		Log:      logging.DefaultConfig(),
		Camera:   Camera{Config: capture.DefaultConfig()},
		Detector: detector.DefaultConfig(),
		Classifier: Classifier{
			Thresholds: sign.DefaultThresholds(),
		},
		Debounce: sign.DefaultDebounceConfig(),
		Sinks: Sinks{
			Dir:     filepath.Join(dir, "sinks"),
			Timeout: 5 * time.Second,
		},
	}
}

// Load builds the configuration. An empty path looks for ./signscribe.yaml and
// then ~/.signscribe/config.yaml; neither has to exist. An explicit path must.
// A .env file in the working directory is read if present.
func Load(path string) (*Config, error) {
	return load(path, ".env", os.LookupEnv)
}

func load(path, envFile string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	} else {
		for _, p := range []string{"signscribe.yaml", filepath.Join(DataDir(), "config.yaml")} {
			err := cfg.readFile(p)
			if err == nil {
				break
			}
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	env := func(key string) (string, bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			return v, true
		}
		v, ok := dotenv[EnvPrefix+key]
		return v, ok
	}
	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(env func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := env(key); ok {
			*dst = v
		}
	}
	str("ADDR", &c.Server.Addr)
	str("STATIC_DIR", &c.Server.StaticDir)
	str("DB", &c.Store.Path)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FILE", &c.Log.File)
	str("SINKS_DIR", &c.Sinks.Dir)

	if v, ok := env("CAMERA_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sCAMERA_ENABLED: %w", EnvPrefix, err)
		}
		c.Camera.Enabled = b
	}

	ints := map[string]*int{
		"CAMERA_DEVICE":           &c.Camera.Device,
		"CAMERA_FPS":              &c.Camera.FPS,
		"DEBOUNCE_MIN_DETECTIONS": &c.Debounce.MinDetections,
	}
	for key, dst := range ints {
		if v, ok := env(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
			}
			*dst = n
		}
	}

	durations := map[string]*time.Duration{
		"DEBOUNCE_COOLDOWN":    &c.Debounce.Cooldown,
		"DEBOUNCE_FORCE_AFTER": &c.Debounce.ForceAfter,
		"SINK_TIMEOUT":         &c.Sinks.Timeout,
	}
	for key, dst := range durations {
		if v, ok := env(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
			}
			*dst = d
		}
	}

	return nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("config: server.addr is required")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if c.Camera.FPS < 0 {
		return errors.New("config: camera.fps must not be negative")
	}
	if c.Detector.MaxHands < 1 {
		return errors.New("config: detector.max_hands must be at least 1")
	}
	if err := c.Classifier.Thresholds.Validate(); err != nil {
		return fmt.Errorf("config: classifier.thresholds: %w", err)
	}
	if err := c.Debounce.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Sinks.Timeout <= 0 {
		return errors.New("config: sinks.timeout must be positive")
	}
	return nil
}
