package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// writeResult writes v as YAML or JSON. JSON cannot carry NaN or infinities, so those
// become null.
func writeResult(w io.Writer, v any, format string) error {
	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}

		return enc.Close()
	case "json":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		out, err := json.MarshalIndent(finite(generic), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))

		return err
	default:
		return fmt.Errorf("unknown output format %q (yaml|json)", format)
	}
}

// finite replaces non-finite floats with nil throughout a decoded document.
func finite(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
	case map[string]any:
		for k, e := range t {
			t[k] = finite(e)
		}
	case []any:
		for i, e := range t {
			t[i] = finite(e)
		}
	}

	return v
}
