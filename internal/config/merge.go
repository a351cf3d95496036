package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyServer  = "server"
	keyCatalog = "catalog"
	keyData    = "data"
	keyTables  = "tables"
	keyLogging = "logging"
)

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Each section present in the overlay is decoded over the
// target's current section, so keys it omits keep their values. A section
// that fails to decode leaves the target section untouched. Unknown keys are
// ignored.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}
	if err := ShallowMergeYAMLBytes(target, data); err != nil {
		return fmt.Errorf("overlay %s: %w", overlayPath, err)
	}
	return nil
}

// ShallowMergeYAMLBytes is ShallowMergeYAML for an in-memory document.
func ShallowMergeYAMLBytes(target *Config, data []byte) error {
	var overlay map[string]yaml.Node
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML: %w", err)
	}

	for key, node := range overlay {
		if err := decodeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

func decodeSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyServer:
		return decodeOnto(node, &target.Server)
	case keyCatalog:
		return decodeOnto(node, &target.Catalog)
	case keyData:
		return decodeOnto(node, &target.Data)
	case keyTables:
		return decodeOnto(node, &target.Tables)
	case keyLogging:
		return decodeOnto(node, &target.Logging)
	}
	return nil
}

// decodeOnto decodes node over a copy of *dst and stores it on success.
func decodeOnto[T any](node *yaml.Node, dst *T) error {
	v := *dst
	if err := node.Decode(&v); err != nil {
		return err
	}
	*dst = v
	return nil
}
