package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/iwvelando/property-valuation/internal/config"
	"github.com/iwvelando/property-valuation/internal/logging"
	"github.com/iwvelando/property-valuation/internal/valuation"
	"github.com/iwvelando/property-valuation/pkg/adapters"
	"github.com/iwvelando/property-valuation/pkg/constants"
	"github.com/iwvelando/property-valuation/pkg/output"
	"github.com/iwvelando/property-valuation/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	envFile := flag.String("env-file", ".env", "optional file of environment overrides")
	flag.Parse()

	if err := logging.LoadDotEnv(*envFile); err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load environment file\", \"error\": \"%v\"}\n", err)
		return
	}

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}

	if err := run(logger, conf, outputFormat); err != nil {
		logger.Fatal("valuation run failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// run values every configured property and prints the report.
func run(logger *zap.Logger, conf *config.Configuration, outputFormat string) error {
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	tag, err := validation.ParseLocale(conf.Output.Locale)
	if err != nil {
		return err
	}

	prices, err := conf.LoadPriceTable()
	if err != nil {
		return fmt.Errorf("failed to load price table: %w", err)
	}
	logger.Debug("price table loaded",
		zap.String("op", "run"),
		zap.String("path", conf.PriceTablePath()),
		zap.Int("districts", len(prices.Districts())),
		zap.Int("zones", prices.Len()),
	)

	for _, warning := range conf.ValidateConfiguration(prices) {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "run"),
		)
	}

	engine, err := valuation.NewEngine(prices, conf.Factors)
	if err != nil {
		return fmt.Errorf("failed to build valuation engine: %w", err)
	}

	if len(conf.Properties) == 0 {
		return errors.New("no properties configured")
	}

	output.Print(valueProperties(logger, engine, conf.Properties), outputFormat, tag)
	return nil
}

// valueProperties estimates each request in order. A failed estimate is
// logged and kept in the report rather than stopping the run.
func valueProperties(logger *zap.Logger, engine *valuation.Engine, requests []config.PropertyRequest) []output.Entry {
	inputs := adapters.InputsFromRequests(requests)
	entries := make([]output.Entry, 0, len(inputs))
	for i, input := range inputs {
		name := requests[i].Name
		if name == "" {
			name = fmt.Sprintf("property #%d", i+1)
		}

		entry := output.Entry{Name: name, Input: input}

		result, err := engine.Estimate(input)
		if err != nil {
			logger.Error("failed to value property",
				zap.String("op", "valueProperties"),
				zap.String("property", name),
				zap.String("error", errorDetail(err)),
			)
			entry.Err = err
		} else {
			logger.Debug("property valued",
				zap.String("op", "valueProperties"),
				zap.String("property", name),
				zap.Float64("mid", result.Mid),
				zap.String("currency", result.Currency.Code()),
			)
			entry.Result = &result
		}
		entries = append(entries, entry)
	}
	return entries
}

// errorDetail expands lookup failures with the district and zone involved.
func errorDetail(err error) string {
	var lookupErr *valuation.LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Detail()
	}
	return err.Error()
}
