package facet

import (
	"strings"

	"github.com/matst80/magic-search/pkg/types"
)

// ParseQueryString splits a "a=1&b=2" query, with or without a leading '?',
// into its raw terms. Blank terms are dropped so an empty query yields no
// terms.
func ParseQueryString(query string) []string {
	query = strings.TrimPrefix(query, "?")
	ret := make([]string, 0, strings.Count(query, "&")+1)
	for _, term := range strings.Split(query, "&") {
		if strings.TrimSpace(term) == "" {
			continue
		}
		ret = append(ret, term)
	}
	return ret
}

// ParseSearchTerm splits a term on its first '='. Values are not unescaped,
// so a value may contain '=' but never '&'.
func ParseSearchTerm(term string) types.SearchTerm {
	field, value, found := strings.Cut(term, "=")
	return types.SearchTerm{
		Type:     field,
		Value:    value,
		HasValue: found,
	}
}

func ParseSearchTerms(terms []string) []types.SearchTerm {
	ret := make([]types.SearchTerm, len(terms))
	for i, term := range terms {
		ret[i] = ParseSearchTerm(term)
	}
	return ret
}

func SerializeFacet(field, value, fieldLabel, valueLabel string) types.Facet {
	return types.Facet{
		Name:  field + "=" + value,
		Label: [2]string{fieldLabel, valueLabel},
	}
}

func SerializeTextFacet(text, label string) types.Facet {
	return SerializeFacet(types.TextField, text, label, text)
}

// BuildQueryPattern joins the facet names with '&'. Text facets are left out
// since the text search is local to the session.
func BuildQueryPattern(facets []types.Facet) string {
	parts := make([]string, 0, len(facets))
	for _, f := range facets {
		if f.IsText() {
			continue
		}
		parts = append(parts, f.Name)
	}
	return strings.Join(parts, "&")
}

func FacetNames(facets []types.Facet) []string {
	ret := make([]string, len(facets))
	for i, f := range facets {
		ret[i] = f.Name
	}
	return ret
}
