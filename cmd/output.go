package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// output writes v to w as YAML or JSON.
func output(w io.Writer, v any, format string) error {
	switch format {
	case formatYAML, "":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("format output: %w", err)
		}
		_, err = w.Write(data)
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
