// Package config defines the data structures related to configuration and
// includes functions for loading and checking the config.
package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/iwvelando/property-valuation/internal/valuation"
	"github.com/iwvelando/property-valuation/pkg/constants"
	"github.com/iwvelando/property-valuation/pkg/pricetable"
	"github.com/iwvelando/property-valuation/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for property-valuation.
type Configuration struct {
	PriceTable string            `yaml:"priceTable,omitempty"`
	Factors    valuation.Factors `yaml:"factors,omitempty"`
	Properties []PropertyRequest `yaml:"properties,omitempty"`
	Logging    LoggingConfig     `yaml:"logging,omitempty"`
	Output     OutputConfig      `yaml:"output,omitempty"`

	// baseDir is the directory of the config file; relative paths resolve
	// against it.
	baseDir string
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
	Locale string `yaml:"locale,omitempty"` // BCP 47 tag used for digit grouping
}

// PropertyRequest is one property to value, as written in the config file.
type PropertyRequest struct {
	Name        string  `yaml:"name"`
	District    string  `yaml:"district"`
	Zone        string  `yaml:"zone"`
	Type        string  `yaml:"type"`
	CoveredArea float64 `yaml:"coveredArea"`
	FreeArea    float64 `yaml:"freeArea"`
	Bedrooms    int     `yaml:"bedrooms"`
	Bathrooms   int     `yaml:"bathrooms"`
	Floor       int     `yaml:"floor"`
	Elevator    bool    `yaml:"elevator"`
	AgeYears    int     `yaml:"ageYears"`
	Currency    string  `yaml:"currency"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Factors not present in the file keep their defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	configuration, err := decode(v)
	if err != nil {
		return nil, err
	}
	configuration.baseDir = filepath.Dir(configPath)
	return configuration, nil
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
// Relative price table paths resolve against the working directory.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Environment overrides only reach keys viper knows about.
	defaults := valuation.DefaultFactors()
	v.SetDefault("priceTable", constants.DefaultPriceTableFile)
	v.SetDefault("factors.band", defaults.Band)
	v.SetDefault("factors.exchangeRate", defaults.ExchangeRate)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("output.format", "")
	v.SetDefault("output.locale", "")
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	configuration := Configuration{Factors: valuation.DefaultFactors()}
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// PriceTablePath returns the price table location, resolved against the
// config file's directory when relative.
func (c *Configuration) PriceTablePath() string {
	path := c.PriceTable
	if path == "" {
		path = constants.DefaultPriceTableFile
	}
	if filepath.IsAbs(path) || c.baseDir == "" {
		return path
	}
	return filepath.Join(c.baseDir, path)
}

// LoadPriceTable reads the configured price table.
func (c *Configuration) LoadPriceTable() (pricetable.Table, error) {
	return pricetable.Load(c.PriceTablePath())
}

// ValidateConfiguration performs general validation of the configuration
// against the price table and returns warnings. A nil table skips the
// district and zone checks.
func (c *Configuration) ValidateConfiguration(prices pricetable.Table) []string {
	requests := make([]validation.RequestInfo, 0, len(c.Properties))
	for _, property := range c.Properties {
		requests = append(requests, validation.RequestInfo{
			Name:     property.Name,
			District: property.District,
			Zone:     property.Zone,
			Type:     property.Type,
		})
	}

	checker := validation.RequestValidator{Requests: requests}
	if prices != nil {
		checker.Prices = prices
	}
	return checker.ValidateAll()
}
