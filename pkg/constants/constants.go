// Package constants provides shared constants for the property-valuation application.
package constants

// Currency constants
const (
	// LocalCurrencyCode is the ISO code of the currency the price table is quoted in.
	LocalCurrencyCode = "PEN"

	// LocalCurrencyLabel is the label shown next to local currency amounts.
	LocalCurrencyLabel = "S/"

	// ForeignCurrencyCode is the ISO code of the conversion currency.
	ForeignCurrencyCode = "USD"

	// ForeignCurrencyLabel is the label shown next to foreign currency amounts.
	ForeignCurrencyLabel = "USD"

	// DefaultExchangeRate is the number of local currency units per foreign unit.
	DefaultExchangeRate = 3.75

	// DefaultVariationBand is the +/- fraction applied around the point estimate.
	DefaultVariationBand = 0.12
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// DefaultOutputLocale is the locale used for digit grouping in pretty output
	DefaultOutputLocale = "en"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultPriceTableFile is the default price table file name
	DefaultPriceTableFile = "prices.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "VALUATION"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// RequestIDHeader carries the per-request identifier
	RequestIDHeader = "X-Request-ID"
)
