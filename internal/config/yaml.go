package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// parseYAML decodes data onto f. Keys absent from data leave f untouched.
func parseYAML(data []byte, f *File) error {
	// Strict decoding catches typos like "lattice:" vs "lattice_size:".
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(f); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("config file is empty")
		}
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// temperatureFields has TemperatureSpec's layout without its decode methods.
type temperatureFields TemperatureSpec

var temperatureKeys = map[string]bool{"values": true, "start": true, "stop": true, "count": true}

// UnmarshalYAML replaces the spec instead of merging into it, so a file's
// values never combine with the default range.
func (s *TemperatureSpec) UnmarshalYAML(value *yaml.Node) error {
	// Node.Decode is not strict, so unknown keys are checked here.
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i]
			if !temperatureKeys[key.Value] {
				return fmt.Errorf("line %d: field %s not found in temperatures", key.Line, key.Value)
			}
		}
	}

	var fields temperatureFields
	if err := value.Decode(&fields); err != nil {
		return err
	}
	*s = TemperatureSpec(fields)
	return nil
}
