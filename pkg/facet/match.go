package facet

import (
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/matst80/magic-search/pkg/types"
)

var initAlgo sync.Once

// MatchLabel reports whether label fuzzily matches the typed input, case
// insensitive. An empty input matches everything.
func MatchLabel(label string, input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return true
	}
	initAlgo.Do(func() {
		algo.Init("default")
	})
	pattern := []rune(strings.ToLower(input))
	chars := util.ToChars([]byte(label))
	res, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, nil)
	return res.Start >= 0 && res.Score > 0
}

// FilterChoices keeps the choices whose label matches input, in their
// original order.
func FilterChoices(choices []types.FacetChoice, input string, limit int) []types.FacetChoice {
	ret := make([]types.FacetChoice, 0, len(choices))
	for i := range choices {
		if limit > 0 && len(ret) >= limit {
			break
		}
		if MatchLabel(choices[i].Label, input) {
			ret = append(ret, choices[i].Clone())
		}
	}
	return ret
}

func FilterOptions(options []types.FacetOption, input string, limit int) []types.FacetOption {
	ret := make([]types.FacetOption, 0, len(options))
	for _, o := range options {
		if limit > 0 && len(ret) >= limit {
			break
		}
		if MatchLabel(o.Label, input) {
			ret = append(ret, o)
		}
	}
	return ret
}
