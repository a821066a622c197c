// Package report renders pipeline results as text tables, JSON, YAML or an
// HTML chart page.
package report

import (
	"encoding/json"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/logger"
)

const componentName = "report"

func getLog() logger.Logger {
	return logger.Global().Module(componentName)
}

// Format selects an output encoding
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts table, json, yaml and yml in any case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table", "text":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.InvalidParameter(componentName, "format", s,
			"unknown output format %q, expected table, json or yaml", s)
	}
}

// Encode writes v as indented JSON or YAML
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return encodeError(err, format)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return encodeError(err, format)
		}
		if err := enc.Close(); err != nil {
			return encodeError(err, format)
		}
		return nil
	default:
		return errors.InvalidParameter(componentName, "format", format,
			"format %q cannot encode structured data", format)
	}
}

func encodeError(err error, format Format) error {
	return errors.Newf("failed to encode %s output: %w", format, err).
		Component(componentName).
		Category(errors.CategoryProcessing).
		Build()
}
