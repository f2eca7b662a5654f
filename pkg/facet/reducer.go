package facet

import (
	"slices"

	"github.com/matst80/magic-search/pkg/types"
)

// CloneChoices deep copies choices so that reductions never touch the
// definitions they were derived from.
func CloneChoices(choices []types.FacetChoice) []types.FacetChoice {
	if choices == nil {
		return nil
	}
	ret := make([]types.FacetChoice, len(choices))
	for i := range choices {
		ret[i] = choices[i].Clone()
	}
	return ret
}

// ComputeUnused returns a copy of choices without everything the terms
// already consume. Open choices and singletons are removed once used, other
// choices only lose the used option and are removed when no option remains.
// Terms without a value never match.
func ComputeUnused(choices []types.FacetChoice, terms []types.SearchTerm) []types.FacetChoice {
	ret := CloneChoices(choices)
	if ret == nil {
		ret = []types.FacetChoice{}
	}
	for _, term := range terms {
		if !term.HasValue {
			continue
		}
		ret = reduceTerm(ret, term)
	}
	return ret
}

func reduceTerm(list []types.FacetChoice, term types.SearchTerm) []types.FacetChoice {
	ret := list[:0]
	for _, c := range list {
		if c.Name != term.Type {
			ret = append(ret, c)
			continue
		}
		if !c.HasOptions() {
			continue
		}
		if _, found := c.FindOption(term.Value); !found {
			ret = append(ret, c)
			continue
		}
		if c.Singleton {
			continue
		}
		c.Options = removeOption(c.Options, term.Value)
		if len(c.Options) > 0 {
			ret = append(ret, c)
		}
	}
	return ret
}

func removeOption(options []types.FacetOption, key string) []types.FacetOption {
	return slices.DeleteFunc(options, func(o types.FacetOption) bool {
		return o.Key == key
	})
}

// RemoveFacetChoice drops every choice called name. The backing array of
// list is reused.
func RemoveFacetChoice(name string, list []types.FacetChoice) []types.FacetChoice {
	return slices.DeleteFunc(list, func(c types.FacetChoice) bool {
		return c.Name == name
	})
}

// RemoveOptionChoice drops the option matching the term from every choice
// of that type, and the choice itself when its options run out.
func RemoveOptionChoice(term types.SearchTerm, list []types.FacetChoice) []types.FacetChoice {
	if !term.HasValue {
		return list
	}
	ret := list[:0]
	for _, c := range list {
		if c.Name == term.Type && c.HasOptions() {
			c.Options = removeOption(c.Options, term.Value)
			if len(c.Options) == 0 {
				continue
			}
		}
		ret = append(ret, c)
	}
	return ret
}
