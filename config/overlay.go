package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/goccy/go-yaml"
)

// Overlay returns a copy of c with patch applied. A patch that is a JSON
// array is an RFC 6902 operation list; anything else is read as YAML (JSON
// included) and merged as an RFC 7386 merge patch, so
//
//	workers: 4
//	oracle: {kind: sqlite, path: wn.db}
//
// are both valid overlays.
func (c *Config) Overlay(patch []byte) (*Config, error) {
	doc, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(patch)
	var out []byte
	switch {
	case len(trimmed) == 0:
		out = doc
	case trimmed[0] == '[':
		ops, err := jsonpatch.DecodePatch(trimmed)
		if err != nil {
			return nil, fmt.Errorf("error decoding config patch: %w", err)
		}
		out, err = ops.Apply(doc)
		if err != nil {
			return nil, fmt.Errorf("error applying config patch: %w", err)
		}
	default:
		j, err := yaml.YAMLToJSON(trimmed)
		if err != nil {
			return nil, fmt.Errorf("error decoding config overlay: %w", err)
		}
		out, err = jsonpatch.MergePatch(doc, j)
		if err != nil {
			return nil, fmt.Errorf("error merging config overlay: %w", err)
		}
	}
	res := &Config{}
	if err := json.Unmarshal(out, res); err != nil {
		return nil, fmt.Errorf("overlay gave an invalid config: %w", err)
	}
	return res, nil
}

// OverlayFile applies the overlay stored in path.
func (c *Config) OverlayFile(path string) (*Config, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, err := c.Overlay(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}
