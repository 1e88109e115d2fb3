// Package messages resolves message codes into human-readable text.
package messages

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultBundle []byte

// Source looks up message templates by code.
type Source struct {
	templates map[string]string
}

// Default returns the embedded bundle.
func Default() *Source {
	s, err := Parse(defaultBundle)
	if err != nil {
		panic(fmt.Sprintf("embedded messages.yaml is invalid: %v", err))
	}
	return s
}

// Parse reads a flat YAML map of code -> template.
func Parse(data []byte) (*Source, error) {
	templates := make(map[string]string)
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parse message bundle: %w", err)
	}
	return &Source{templates: templates}, nil
}

// Get returns the text for code, or code itself when unknown.
func (s *Source) Get(code string) string {
	if t, ok := s.templates[code]; ok {
		return t
	}
	return code
}

// Field renders a field-level template with {field} and {param} substituted.
func (s *Source) Field(code, field, param string) string {
	r := strings.NewReplacer("{field}", field, "{param}", param)
	return r.Replace(s.Get(code))
}
