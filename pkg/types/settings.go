package types

// Strings holds the user facing texts of a search bar.
type Strings struct {
	// Prompt is shown in the empty search bar.
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	// Remove is the hint on the remove button of a facet.
	Remove string `json:"remove,omitempty" yaml:"remove,omitempty"`
	// Cancel is the hint on the clear all button.
	Cancel string `json:"cancel,omitempty" yaml:"cancel,omitempty"`
	// Text is the field label used for free text facets.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

type Settings struct {
	Strings Strings `json:"strings" yaml:"strings"`
	// MenuLimit caps the number of displayed menu entries, 0 shows all.
	MenuLimit int `json:"menuLimit,omitempty" yaml:"menuLimit,omitempty"`
}

const (
	DefaultPrompt = "Click here for filters or full text search."
	DefaultRemove = "Remove"
	DefaultCancel = "Cancel"
	DefaultText   = "Text"
)

func DefaultSettings() Settings {
	return Settings{
		Strings: Strings{
			Prompt: DefaultPrompt,
			Remove: DefaultRemove,
			Cancel: DefaultCancel,
			Text:   DefaultText,
		},
	}
}

func override(current *string, value string) {
	if value != "" {
		*current = value
	}
}

// Merge returns a copy of s where every non zero field of o replaces the
// value in s.
func (s Settings) Merge(o Settings) Settings {
	ret := s
	override(&ret.Strings.Prompt, o.Strings.Prompt)
	override(&ret.Strings.Remove, o.Strings.Remove)
	override(&ret.Strings.Cancel, o.Strings.Cancel)
	override(&ret.Strings.Text, o.Strings.Text)
	if o.MenuLimit > 0 {
		ret.MenuLimit = o.MenuLimit
	}
	return ret
}

// FacetDocument is the stored form of a search bar definition.
type FacetDocument struct {
	Settings `yaml:",inline"`
	Facets   []FacetChoice `json:"facets" yaml:"facets"`
}

func (d *FacetDocument) Validate() error {
	return ValidateChoices(d.Facets)
}
