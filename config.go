package coinhist

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"gopkg.in/yaml.v3"
)

// Default settings, matching the CoinGecko free tier.
const (
	DefaultDataDir           = "assets/historic"
	DefaultCurrency          = "usd"
	DefaultMaxDays           = 365 // free API lookback limit
	DefaultRequestsPerMinute = 25
	DefaultTimeout           = 30 * time.Second
)

// Config holds the settings of an Archive and its provider.
type Config struct {
	DataDir  string `yaml:"data_dir"`
	Currency string `yaml:"currency"`
	MaxDays  int    `yaml:"max_days"`

	// Provider settings.
	APIKey            string        `yaml:"api_key"`
	Pro               bool          `yaml:"pro"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Timeout           time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		DataDir:           DefaultDataDir,
		Currency:          DefaultCurrency,
		MaxDays:           DefaultMaxDays,
		RequestsPerMinute: DefaultRequestsPerMinute,
		Timeout:           DefaultTimeout,
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
// Keys missing from the file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that cfg can be used.
func (c Config) Validate() error {
	var errs error
	if strings.TrimSpace(c.DataDir) == "" {
		errs = errors.Join(errs, errors.New("data directory is not set"))
	}
	if money.GetCurrency(strings.ToUpper(c.Currency)) == nil {
		errs = errors.Join(errs, fmt.Errorf("unknown quote currency %q", c.Currency))
	}
	if c.MaxDays <= 0 {
		errs = errors.Join(errs, fmt.Errorf("max days must be positive, got %d", c.MaxDays))
	}
	if c.RequestsPerMinute < 0 {
		errs = errors.Join(errs, fmt.Errorf("requests per minute cannot be negative, got %d", c.RequestsPerMinute))
	}
	return errs
}
