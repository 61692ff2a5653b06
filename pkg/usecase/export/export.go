package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", goerr.New("unsupported export format", goerr.V("format", s))
	}
}

// FileName returns the download name of an exported collection, dated in UTC
func FileName(collection string, format Format, now time.Time) string {
	return fmt.Sprintf("edumentor-%s-%s.%s", collection, now.UTC().Format("2006-01-02"), format)
}

// Write serializes v to w in the given format
func Write(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return goerr.Wrap(err, "failed to encode JSON")
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return goerr.Wrap(err, "failed to encode YAML")
		}
		if err := enc.Close(); err != nil {
			return goerr.Wrap(err, "failed to flush YAML")
		}
		return nil

	default:
		return goerr.New("unsupported export format", goerr.V("format", format))
	}
}
