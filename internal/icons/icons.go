// Package icons maps weather condition keywords to display icons.
package icons

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTable []byte

// Icon identifies how a condition is drawn.
type Icon struct {
	Name  string `yaml:"name" json:"name"`
	Glyph string `yaml:"glyph" json:"glyph"`
}

// Table is an immutable keyword to icon lookup with a fallback.
type Table struct {
	Default Icon            `yaml:"default"`
	Icons   map[string]Icon `yaml:"icons"`
}

// Default returns the built-in table.
func Default() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("icons: embedded table is invalid: %v", err))
	}
	return t
}

// LoadFile reads a table from a YAML file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML table. A default icon name is required so that
// every lookup resolves.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse icon table: %w", err)
	}
	if strings.TrimSpace(t.Default.Name) == "" {
		return nil, errors.New("icon table has no default icon")
	}
	if t.Default.Glyph == "" {
		t.Default.Glyph = "?"
	}
	for k, icon := range t.Icons {
		if icon.Glyph == "" {
			icon.Glyph = t.Default.Glyph
			t.Icons[k] = icon
		}
	}
	return &t, nil
}

// Lookup returns the icon for keyword, or the default when it is unmapped.
func (t *Table) Lookup(keyword string) Icon {
	if icon, ok := t.Icons[keyword]; ok && icon.Name != "" {
		return icon
	}
	return t.Default
}
