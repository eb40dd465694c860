// Package server exposes the valuation engine over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/iwvelando/property-valuation/internal/valuation"
	"github.com/iwvelando/property-valuation/pkg/adapters"
	"github.com/iwvelando/property-valuation/pkg/constants"
	"github.com/iwvelando/property-valuation/pkg/format"
	"github.com/iwvelando/property-valuation/pkg/pricetable"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Options configures NewHandler. Engine and Prices are required.
type Options struct {
	Logger         *zap.Logger
	Engine         *valuation.Engine
	Prices         pricetable.Table
	MaxBodySize    int64
	Version        string
	AllowedOrigins []string
	RateLimit      int
	Locale         language.Tag
}

type handler struct {
	logger      *zap.Logger
	engine      *valuation.Engine
	prices      pricetable.Table
	maxBodySize int64
	version     string
	locale      language.Tag
}

// NewHandler constructs the HTTP handler that serves the valuation API.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Engine == nil {
		return nil, errors.New("server requires a valuation engine")
	}
	if opts.Prices == nil {
		return nil, errors.New("server requires a price table")
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	locale := opts.Locale
	if locale == language.Und {
		locale = language.English
	}

	h := &handler{
		logger:      logger,
		engine:      opts.Engine,
		prices:      opts.Prices,
		maxBodySize: maxBodySize,
		version:     version,
		locale:      locale,
	}

	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", constants.RequestIDHeader},
			ExposedHeaders: []string{constants.RequestIDHeader},
			MaxAge:         300,
		}))
	}
	if opts.RateLimit > 0 {
		r.Use(httprate.LimitByIP(opts.RateLimit, time.Minute))
	}
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Get("/districts", h.handleDistricts)
		r.Get("/districts/{district}/zones", h.handleZones)
		r.Post("/valuations", h.handleValuation)
	})

	return r, nil
}

type displayAmounts struct {
	Low  string `json:"low"`
	Mid  string `json:"mid"`
	High string `json:"high"`
}

type valuationResponse struct {
	Summary  string            `json:"summary"`
	Result   *valuation.Result `json:"result"`
	Display  displayAmounts    `json:"display"`
	Warnings []string          `json:"warnings,omitempty"`
}

type errorResponse struct {
	Error      string   `json:"error"`
	Detail     string   `json:"detail,omitempty"`
	Violations []string `json:"violations,omitempty"`
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleDistricts(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string][]string{
		"districts": h.prices.Districts(),
	})
}

func (h *handler) handleZones(w http.ResponseWriter, r *http.Request) {
	district := chi.URLParam(r, "district")
	zones, ok := h.prices.Zones(district)
	if !ok {
		h.respondError(w, r, http.StatusNotFound,
			errorResponse{Error: fmt.Sprintf("unknown district %q", district)}, "server.handleZones")
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"district": district,
		"zones":    zones,
	})
}

func (h *handler) handleValuation(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleValuation"

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	input, err := h.decodeInput(r)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				errorResponse{Error: fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize)}, op)
			return
		}
		h.respondError(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()}, op)
		return
	}

	result, err := h.engine.Estimate(input)
	if err != nil {
		var validationErr *valuation.ValidationError
		var lookupErr *valuation.LookupError
		var rangeErr *valuation.RangeError
		switch {
		case errors.As(err, &validationErr):
			h.respondError(w, r, http.StatusUnprocessableEntity,
				errorResponse{Error: validationErr.Error(), Violations: validationErr.Violations}, op)
		case errors.As(err, &lookupErr):
			h.respondError(w, r, http.StatusNotFound,
				errorResponse{Error: lookupErr.Error(), Detail: lookupErr.Detail()}, op)
		case errors.As(err, &rangeErr):
			h.respondError(w, r, http.StatusUnprocessableEntity, errorResponse{Error: rangeErr.Error()}, op)
		default:
			h.respondError(w, r, http.StatusInternalServerError,
				errorResponse{Error: fmt.Sprintf("failed to compute valuation: %v", err)}, op)
		}
		return
	}

	response := valuationResponse{
		Summary: format.Summary(input.PropertyType, input.Zone, input.District),
		Result:  &result,
		Display: displayAmounts{
			Low:  format.LocalizedAmount(h.locale, result.Low, result.CurrencyLabel),
			Mid:  format.LocalizedAmount(h.locale, result.Mid, result.CurrencyLabel),
			High: format.LocalizedAmount(h.locale, result.High, result.CurrencyLabel),
		},
	}
	if !result.Breakdown.TypeRecognized {
		response.Warnings = append(response.Warnings,
			fmt.Sprintf("property type %q not recognised, valued as %s", input.PropertyType, result.Breakdown.PropertyType))
	}

	loggerFrom(r.Context(), h.logger).Info("valuation computed",
		zap.String("op", op),
		zap.String("district", input.District),
		zap.String("zone", input.Zone),
		zap.String("type", string(result.Breakdown.PropertyType)),
		zap.Float64("mid", result.Mid),
		zap.String("currency", result.Currency.Code()),
	)

	h.writeJSON(w, r, http.StatusOK, response)
}

// decodeInput reads a JSON object or form fields into a PropertyInput. Both
// go through the same text coercion so that "80" and 80 behave alike.
func (h *handler) decodeInput(r *http.Request) (valuation.PropertyInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		decoder := json.NewDecoder(r.Body)
		decoder.UseNumber()
		var payload map[string]interface{}
		if err := decoder.Decode(&payload); err != nil {
			return valuation.PropertyInput{}, fmt.Errorf("failed to decode request: %w", err)
		}
		return adapters.InputFromForm(func(key string) string {
			return stringify(payload[key])
		}), nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(h.maxBodySize); err != nil {
			return valuation.PropertyInput{}, fmt.Errorf("failed to parse form: %w", err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return valuation.PropertyInput{}, fmt.Errorf("failed to parse form: %w", err)
		}
	}
	return adapters.InputFromForm(r.PostForm.Get), nil
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, payload errorResponse, op string) {
	logger := loggerFrom(r.Context(), h.logger)
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", payload.Error),
	}
	if payload.Detail != "" {
		fields = append(fields, zap.String("detail", payload.Detail))
	}
	if status >= http.StatusInternalServerError {
		logger.Error("valuation request failed", fields...)
	} else {
		logger.Warn("valuation request rejected", fields...)
	}

	h.writeJSON(w, r, status, payload)
}

func (h *handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	render.Status(r, status)
	render.JSON(w, r, payload)
}
