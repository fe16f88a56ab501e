package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/rule"
)

// Render formats accepted by the output commands.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatText = "text"
)

// Config is the contents of the configuration file.
type Config struct {
	Verbose   bool         `toml:"verbose"`
	Minimise  bool         `toml:"minimise"`
	Reuse     string       `toml:"reuse"`
	Injective bool         `toml:"injective"`
	Render    RenderConfig `toml:"render"`
}

// RenderConfig holds the defaults for rendered output.
type RenderConfig struct {
	Format string `toml:"format"`
	// Cache keeps rendered SVG between runs.
	Cache bool `toml:"cache"`
	// CacheTTL bounds the age of cached renders, e.g. "24h"; zero keeps them forever.
	CacheTTL time.Duration `toml:"cache_ttl"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Minimise:  true,
		Reuse:     rule.ReuseEvents.String(),
		Injective: true,
		Render:    RenderConfig{Format: FormatDOT, Cache: true},
	}
}

// ReuseMode returns the configured event reuse mode.
func (c Config) ReuseMode() rule.ReuseMode {
	m, _ := rule.ParseReuseMode(c.Reuse)
	return m
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	if _, ok := rule.ParseReuseMode(c.Reuse); !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "reuse must be 'none' or 'events', got %q", c.Reuse)
	}
	if c.Render.Format != FormatDOT && c.Render.Format != FormatSVG {
		return errors.New(errors.ErrCodeInvalidConfig, "render.format must be 'dot' or 'svg', got %q", c.Render.Format)
	}
	if c.Render.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.cache_ttl must not be negative, got %s", c.Render.CacheTTL)
	}
	return nil
}

// loadConfig reads the configuration at path on top of the defaults. An
// empty path selects the default location, where a missing file is not an
// error.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}
