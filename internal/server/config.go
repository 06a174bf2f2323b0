package server

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/home-affordability/internal/config"
	"github.com/iwvelando/home-affordability/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address        string               `yaml:"address"`
	MaxRequestSize ByteSize             `yaml:"maxRequestSize"`
	Timeouts       Timeouts             `yaml:"timeouts"`
	Logging        config.LoggingConfig `yaml:"logging"`

	// Calculator is the path of the calculator configuration. Empty means
	// built-in defaults.
	Calculator string `yaml:"calculator"`
}

// Timeouts are written as Go durations ("10s", "1m").
type Timeouts struct {
	Read     time.Duration `yaml:"read"`
	Write    time.Duration `yaml:"write"`
	Idle     time.Duration `yaml:"idle"`
	Shutdown time.Duration `yaml:"shutdown"`
}

// ByteSize is a byte count written as a plain integer or with a B, K, M or G
// suffix (binary multiples).
type ByteSize int64

// UnmarshalYAML parses the scalar with ParseSize.
func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: size must be a scalar", node.Line)
	}
	n, err := ParseSize(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*b = ByteSize(n)
	return nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads the server configuration from YAML. A missing file or an
// empty path yields the defaults; keys left out of the file keep their
// defaults too.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.MaxRequestSize <= 0 {
		c.MaxRequestSize = ByteSize(constants.DefaultMaxRequestSizeBytes)
	}
	for _, d := range []struct {
		value    *time.Duration
		fallback time.Duration
	}{
		{&c.Timeouts.Read, constants.DefaultReadTimeout},
		{&c.Timeouts.Write, constants.DefaultWriteTimeout},
		{&c.Timeouts.Idle, constants.DefaultIdleTimeout},
		{&c.Timeouts.Shutdown, constants.DefaultShutdownTimeout},
	} {
		if *d.value <= 0 {
			*d.value = d.fallback
		}
	}
}

// RequestSizeBytes returns the request body limit in bytes.
func (c *Config) RequestSizeBytes() int64 {
	return int64(c.MaxRequestSize)
}

// HTTPServer wraps handler in an http.Server listening on the configured
// address with the configured timeouts.
func (c *Config) HTTPServer(handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         c.Address,
		Handler:      handler,
		ReadTimeout:  c.Timeouts.Read,
		WriteTimeout: c.Timeouts.Write,
		IdleTimeout:  c.Timeouts.Idle,
	}
}

// LoadCalculatorConfig loads and validates the calculator configuration the
// server points at, or the defaults (with environment overrides) when none
// is set.
func (c *Config) LoadCalculatorConfig() (*config.Configuration, error) {
	source := strings.TrimSpace(c.Calculator)
	var (
		conf *config.Configuration
		err  error
	)
	if source == "" {
		source = "defaults"
		conf, err = config.LoadDefaults()
	} else {
		conf, err = config.LoadConfiguration(source)
	}
	if err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid calculator configuration %s: %w", source, err)
	}
	return conf, nil
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into
// bytes. Units are case-insensitive; an empty string is the default limit.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxRequestSizeBytes, nil
	}

	digits := strings.TrimRightFunc(trimmed, unicode.IsLetter)
	unit := strings.ToUpper(trimmed[len(digits):])
	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", unit)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(digits), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("size must not be negative, got %s", value)
	}
	if n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
