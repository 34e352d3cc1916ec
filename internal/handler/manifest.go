package handler

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the optional handlers.yaml file that filters the built-in
// handler set: entries may disable a handler or register it under an
// additional alias. An absent file means the full built-in set.
type Manifest struct {
	Disabled []string          `yaml:"disabled,omitempty"`
	Aliases  map[string]string `yaml:"aliases,omitempty"` // alias -> command name
}

// LoadManifest reads a handlers.yaml file. A missing file yields an
// empty manifest, not an error.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	if path == "" {
		return m, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, fmt.Errorf("read handlers manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse handlers manifest: %w", err)
	}
	return m, nil
}

// Apply filters and expands descriptors per the manifest: disabled
// handlers are dropped, aliases append a copy of the target descriptor
// under the alias name. Aliases naming an unknown command are ignored.
func (m Manifest) Apply(descs []Descriptor) []Descriptor {
	disabled := make(map[string]bool, len(m.Disabled))
	for _, name := range m.Disabled {
		disabled[strings.TrimSpace(name)] = true
	}

	out := make([]Descriptor, 0, len(descs)+len(m.Aliases))
	byName := make(map[string]Descriptor, len(descs))
	for _, d := range descs {
		if disabled[d.Name] {
			continue
		}
		out = append(out, d)
		if d.Kind != KindEvent {
			byName[d.Name] = d
		}
	}

	for alias, target := range m.Aliases {
		alias = strings.TrimSpace(alias)
		d, ok := byName[strings.TrimSpace(target)]
		if !ok || alias == "" {
			continue
		}
		d.Name = alias
		out = append(out, d)
	}
	return out
}
