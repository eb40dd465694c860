package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/property-valuation/internal/config"
	"github.com/iwvelando/property-valuation/internal/valuation"
	"github.com/iwvelando/property-valuation/pkg/constants"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address        string               `yaml:"address"`
	MaxBodySize    string               `yaml:"maxBodySize"`
	PriceTable     string               `yaml:"priceTable"`
	Factors        string               `yaml:"factors"`
	AllowedOrigins []string             `yaml:"allowedOrigins"`
	RateLimit      int                  `yaml:"rateLimit"` // requests per minute per client IP, 0 disables
	Locale         string               `yaml:"locale"`    // digit grouping of display amounts
	Logging        config.LoggingConfig `yaml:"logging"`
	bodySizeBytes  int64
	localeTag      language.Tag
	baseDir        string
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:       constants.DefaultServerAddress,
		MaxBodySize:   fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes),
		PriceTable:    constants.DefaultPriceTableFile,
		Locale:        constants.DefaultOutputLocale,
		Logging:       config.LoggingConfig{},
		bodySizeBytes: constants.DefaultMaxBodySizeBytes,
		localeTag:     language.English,
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	cfg.baseDir = filepath.Dir(path)

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BodySizeBytes returns the configured request body limit in bytes.
func (c *Config) BodySizeBytes() int64 {
	return c.bodySizeBytes
}

// SetBodySizeBytes overrides the configured request body limit.
func (c *Config) SetBodySizeBytes(size int64) {
	if size > 0 {
		c.bodySizeBytes = size
		c.MaxBodySize = fmt.Sprintf("%d", size)
	}
}

// LocaleTag returns the parsed display locale.
func (c *Config) LocaleTag() language.Tag {
	return c.localeTag
}

// PriceTablePath returns the price table location, resolved against the
// server config's directory when relative.
func (c *Config) PriceTablePath() string {
	return c.resolve(c.PriceTable)
}

// LoadFactors returns the default factors with the overrides from the
// configured factors file applied. No file means defaults.
func (c *Config) LoadFactors() (valuation.Factors, error) {
	factors := valuation.DefaultFactors()
	if strings.TrimSpace(c.Factors) == "" {
		return factors, nil
	}

	path := c.resolve(c.Factors)
	data, err := os.ReadFile(path)
	if err != nil {
		return factors, fmt.Errorf("failed to read factors file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &factors); err != nil {
		return factors, fmt.Errorf("failed to parse factors file %s: %w", path, err)
	}
	return factors, nil
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.baseDir == "" {
		return path
	}
	return filepath.Join(c.baseDir, path)
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.PriceTable == "" {
		c.PriceTable = constants.DefaultPriceTableFile
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rateLimit cannot be negative: %d", c.RateLimit)
	}

	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = constants.DefaultOutputLocale
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	c.localeTag = tag

	sizeStr := strings.TrimSpace(c.MaxBodySize)
	if sizeStr == "" {
		c.bodySizeBytes = constants.DefaultMaxBodySizeBytes
		c.MaxBodySize = fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxBodySizeBytes
	}
	c.bodySizeBytes = bytes
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "1M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 || (n != 0 && result/multiplier != n) {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
