package cli

import (
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/nathoo/risingwaters/engine/state"
	"github.com/nathoo/risingwaters/types"
)

// Match is the result of resolving typed input against the action pool.
type Match struct {
	ID         string   // chosen action, empty when nothing matched
	Candidates []string // close ids when the input was ambiguous
}

type scored struct {
	id    string
	score float64
}

// MatchAction resolves player input to one of the offered actions. It takes a
// 1-based number, an id or a title in the given locale. Typos are tolerated
// with an edit-distance limit that grows with the input length.
func MatchAction(input string, pool []types.ActionDef, locale string) Match {
	token := normalize(input)
	if token == "" {
		return Match{}
	}
	if n, err := strconv.Atoi(token); err == nil {
		if n >= 1 && n <= len(pool) {
			return Match{ID: pool[n-1].ID}
		}
		return Match{}
	}

	var hits []scored
	for _, a := range pool {
		best := 0.0
		for _, cand := range names(a, locale) {
			if s := matchScore(token, cand); s > best {
				best = s
			}
		}
		if best > 0 {
			hits = append(hits, scored{a.ID, best})
		}
	}
	if len(hits) == 0 {
		return Match{}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) == 1 || hits[0].score > hits[1].score {
		return Match{ID: hits[0].id}
	}
	var ids []string
	for _, h := range hits {
		if h.score == hits[0].score {
			ids = append(ids, h.id)
		}
	}
	return Match{Candidates: ids}
}

// names lists what a player might type for an action.
func names(a types.ActionDef, locale string) []string {
	out := []string{normalize(a.ID)}
	if t := normalize(state.Localize(a.Title, locale)); t != "" {
		out = append(out, t)
	}
	if locale != state.DefaultLocale {
		if t := normalize(state.Localize(a.Title, state.DefaultLocale)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func matchScore(token, cand string) float64 {
	if token == cand {
		return 1.0
	}
	if len(token) >= 2 && strings.HasPrefix(cand, token) {
		return 0.9
	}
	dist := levenshtein.ComputeDistance(token, cand)
	if dist > levenshteinLimit(token) {
		return 0
	}
	return 0.72 - float64(dist)*0.08
}

func levenshteinLimit(token string) int {
	n := len([]rune(token))
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
