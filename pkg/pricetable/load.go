package pricetable

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a price table document.
type Format string

const (
	// FormatYAML is the YAML document encoding.
	FormatYAML Format = "yaml"
	// FormatJSON is the JSON document encoding.
	FormatJSON Format = "json"
)

//go:embed schema.json
var schemaSource string

var documentSchema = jsonschema.MustCompileString("pricetable.schema.json", schemaSource)

// district is the on-disk shape of one district entry.
type district struct {
	Zones map[string]float64 `json:"zones"`
}

// FormatFromPath picks the document format from a file extension. Anything
// other than .json is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads and parses the price table at path.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read price table: %w", err)
	}
	table, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("price table %s: %w", path, err)
	}
	return table, nil
}

// Parse decodes a price table document of the form
//
//	<district>:
//	  zones:
//	    <zone>: <unit price>
//
// and checks it against the embedded schema before building the Table.
func Parse(data []byte, format Format) (Table, error) {
	var jsonBytes []byte
	switch format {
	case FormatJSON:
		jsonBytes = data
	case FormatYAML:
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
		encoded, err := json.Marshal(normalizeKeys(doc))
		if err != nil {
			return nil, fmt.Errorf("failed to convert yaml document: %w", err)
		}
		jsonBytes = encoded
	default:
		return nil, fmt.Errorf("unsupported price table format %q", format)
	}

	var generic interface{}
	if err := json.Unmarshal(jsonBytes, &generic); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}
	if err := documentSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("price table does not match schema: %w", err)
	}

	var doc map[string]district
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode price table: %w", err)
	}

	prices := make(map[string]map[string]float64, len(doc))
	for name, entry := range doc {
		prices[name] = entry.Zones
	}
	return New(prices), nil
}

// normalizeKeys rewrites YAML mappings with non-string keys (a zone called
// 1, say) into string-keyed maps so the document can be re-encoded as JSON.
func normalizeKeys(v interface{}) interface{} {
	switch node := v.(type) {
	case map[string]interface{}:
		for key, value := range node {
			node[key] = normalizeKeys(value)
		}
		return node
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(node))
		for key, value := range node {
			out[fmt.Sprint(key)] = normalizeKeys(value)
		}
		return out
	case []interface{}:
		for i, value := range node {
			node[i] = normalizeKeys(value)
		}
		return node
	default:
		return v
	}
}
