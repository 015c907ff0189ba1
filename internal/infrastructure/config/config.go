package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"imagescraper/internal/application/port/output"
	"imagescraper/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment key, e.g. IMAGESCRAPER_COUNT.
const EnvPrefix = "IMAGESCRAPER_"

// DefaultFiles are tried in order when no config path is given.
var DefaultFiles = []string{"imagescraper.yaml", "imagescraper.yml"}

type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Output  OutputConfig  `yaml:"output"`
	Batch   BatchConfig   `yaml:"batch"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Browser BrowserConfig `yaml:"browser"`
	Timings TimingsConfig `yaml:"timings"`
	Logging LoggingConfig `yaml:"logging"`
}

type SearchConfig struct {
	Engine        string            `yaml:"engine"`
	Count         int               `yaml:"count"`
	MaxMissed     int               `yaml:"max_missed"`
	Headless      bool              `yaml:"headless"`
	MinResolution entity.Resolution `yaml:"min_resolution"`
	MaxResolution entity.Resolution `yaml:"max_resolution"`
}

type OutputConfig struct {
	Root          string `yaml:"root"`
	Prefix        string `yaml:"prefix"`
	KeepFilenames bool   `yaml:"keep_filenames"`
	Format        string `yaml:"format"`
}

type BatchConfig struct {
	// Workers bounds how many terms run at once. Zero means no bound.
	Workers int `yaml:"workers"`
}

type FetchConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	MaxSize int64         `yaml:"max_size"`
}

type BrowserConfig struct {
	Bin        string        `yaml:"bin"`
	Timeout    time.Duration `yaml:"timeout"`
	SlowMotion time.Duration `yaml:"slow_motion"`
	NoSandbox  bool          `yaml:"no_sandbox"`
}

type TimingsConfig struct {
	Wait          time.Duration `yaml:"wait"`
	Click         time.Duration `yaml:"click"`
	Attribute     time.Duration `yaml:"attribute"`
	LoadMorePause time.Duration `yaml:"load_more_pause"`
	SettlePause   time.Duration `yaml:"settle_pause"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	// Dir receives a JSON log per run when set.
	Dir              string `yaml:"dir"`
	DebugScreenshots bool   `yaml:"debug_screenshots"`
}

func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Engine:        "google",
			Count:         10,
			MaxMissed:     10,
			Headless:      true,
			MinResolution: entity.Resolution{Width: 0, Height: 0},
			MaxResolution: entity.Resolution{Width: 9999, Height: 9999},
		},
		Output: OutputConfig{
			Root:   "photos",
			Format: "jpg",
		},
		Fetch: FetchConfig{
			Timeout: 5 * time.Second,
			MaxSize: 50 << 20,
		},
		Browser: BrowserConfig{
			Timeout:   30 * time.Second,
			NoSandbox: true,
		},
		Timings: TimingsConfig{
			Wait:          10 * time.Second,
			Click:         10 * time.Second,
			Attribute:     time.Second,
			LoadMorePause: 3 * time.Second,
			SettlePause:   time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromFile overlays a YAML file. An empty path tries DefaultFiles and is
// not an error when none exists.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func findConfigFile() string {
	for _, loc := range DefaultFiles {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// LoadFromEnv overlays values found in env. Unset or malformed values keep
// the current setting.
func (c *Config) LoadFromEnv(env output.ConfigPort) error {
	c.Search.Engine = env.GetWithDefault("ENGINE", c.Search.Engine)
	c.Search.Count = env.GetInt("COUNT", c.Search.Count)
	c.Search.MaxMissed = env.GetInt("MAX_MISSED", c.Search.MaxMissed)
	c.Search.Headless = env.GetBool("HEADLESS", c.Search.Headless)

	var errs []error
	if v := env.Get("MIN_RESOLUTION"); v != "" {
		res, err := entity.ParseResolution(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMIN_RESOLUTION: %w", EnvPrefix, err))
		} else {
			c.Search.MinResolution = res
		}
	}
	if v := env.Get("MAX_RESOLUTION"); v != "" {
		res, err := entity.ParseResolution(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_RESOLUTION: %w", EnvPrefix, err))
		} else {
			c.Search.MaxResolution = res
		}
	}

	c.Output.Root = env.GetWithDefault("OUTPUT_DIR", c.Output.Root)
	c.Output.Prefix = env.GetWithDefault("PREFIX", c.Output.Prefix)
	c.Output.KeepFilenames = env.GetBool("KEEP_FILENAMES", c.Output.KeepFilenames)
	c.Output.Format = env.GetWithDefault("FORMAT", c.Output.Format)

	c.Batch.Workers = env.GetInt("WORKERS", c.Batch.Workers)

	c.Fetch.Timeout = env.GetDuration("FETCH_TIMEOUT", c.Fetch.Timeout)
	c.Browser.Bin = env.GetWithDefault("BROWSER_BIN", c.Browser.Bin)
	c.Browser.Timeout = env.GetDuration("BROWSER_TIMEOUT", c.Browser.Timeout)
	c.Browser.NoSandbox = env.GetBool("NO_SANDBOX", c.Browser.NoSandbox)

	c.Logging.Level = env.GetWithDefault("LOG_LEVEL", c.Logging.Level)
	c.Logging.Dir = env.GetWithDefault("LOG_DIR", c.Logging.Dir)
	c.Logging.DebugScreenshots = env.GetBool("DEBUG_SCREENSHOTS", c.Logging.DebugScreenshots)

	return errors.Join(errs...)
}

func (c *Config) Validate() error {
	var errs []error

	if c.Search.Count < 1 {
		errs = append(errs, errors.New("image count must be positive"))
	}
	if c.Search.MaxMissed < 1 {
		errs = append(errs, errors.New("max missed must be positive"))
	}
	minRes, maxRes := c.Search.MinResolution, c.Search.MaxResolution
	if minRes.Width < 0 || minRes.Height < 0 {
		errs = append(errs, errors.New("min resolution cannot be negative"))
	}
	if minRes.Width > maxRes.Width || minRes.Height > maxRes.Height {
		errs = append(errs, fmt.Errorf("min resolution %s exceeds max resolution %s", minRes, maxRes))
	}
	if strings.TrimSpace(c.Search.Engine) == "" {
		errs = append(errs, errors.New("search engine is required"))
	}

	if c.Output.Root == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Batch.Workers < 0 {
		errs = append(errs, errors.New("workers cannot be negative"))
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, errors.New("fetch timeout must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// QueryTemplate returns the per-run query settings. Term, OutputDir and the
// prefix fallback are filled per term by the batch runner.
func (c *Config) QueryTemplate() entity.SearchQuery {
	return entity.SearchQuery{
		Target:        c.Search.Count,
		FailureBudget: c.Search.MaxMissed,
		Headless:      c.Search.Headless,
		Bounds: entity.ResolutionBounds{
			Min: c.Search.MinResolution,
			Max: c.Search.MaxResolution,
		},
		OutputDir:     c.Output.Root,
		FilePrefix:    c.Output.Prefix,
		KeepFilenames: c.Output.KeepFilenames,
		SaveFormat:    strings.ToLower(c.Output.Format),
	}
}

// Load applies defaults, then the config file, then env.
func Load(path string, env output.ConfigPort) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if err := cfg.LoadFromEnv(env); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	return cfg, nil
}
