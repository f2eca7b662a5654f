package types

import (
	"fmt"
	"strings"
)

// TextField is the reserved field name of free text search facets.
const TextField = "text"

type FacetOption struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// FacetChoice describes a searchable field. A nil Options slice means the
// field accepts free form values.
type FacetChoice struct {
	Name      string        `json:"name" yaml:"name"`
	Label     string        `json:"label" yaml:"label"`
	Singleton bool          `json:"singleton,omitempty" yaml:"singleton,omitempty"`
	Options   []FacetOption `json:"options,omitempty" yaml:"options,omitempty"`
}

func (c *FacetChoice) HasOptions() bool {
	return c.Options != nil
}

func (c *FacetChoice) Clone() FacetChoice {
	ret := *c
	if c.Options != nil {
		ret.Options = make([]FacetOption, len(c.Options))
		copy(ret.Options, c.Options)
	}
	return ret
}

func (c *FacetChoice) FindOption(key string) (FacetOption, bool) {
	for _, o := range c.Options {
		if o.Key == key {
			return o, true
		}
	}
	return FacetOption{}, false
}

// Facet is an active search term. Name has the form "field=value" and Label
// holds the field and value display labels.
type Facet struct {
	Name  string    `json:"name"`
	Label [2]string `json:"label"`
}

func (f Facet) Field() string {
	field, _, _ := strings.Cut(f.Name, "=")
	return field
}

func (f Facet) Value() string {
	_, value, _ := strings.Cut(f.Name, "=")
	return value
}

func (f Facet) IsText() bool {
	return f.Field() == TextField
}

// SearchTerm is a parsed "type=value" term. HasValue is false when the raw
// term carried no '='.
type SearchTerm struct {
	Type     string `json:"type"`
	Value    string `json:"value,omitempty"`
	HasValue bool   `json:"hasValue"`
}

func ValidateChoices(choices []FacetChoice) error {
	names := make(map[string]struct{}, len(choices))
	for _, c := range choices {
		if c.Name == "" {
			return fmt.Errorf("facet choice with label %q has no name", c.Label)
		}
		if _, found := names[c.Name]; found {
			return fmt.Errorf("duplicate facet choice %q", c.Name)
		}
		names[c.Name] = struct{}{}
		keys := make(map[string]struct{}, len(c.Options))
		for _, o := range c.Options {
			if _, found := keys[o.Key]; found {
				return fmt.Errorf("facet choice %q has duplicate option %q", c.Name, o.Key)
			}
			keys[o.Key] = struct{}{}
		}
	}
	return nil
}
