// Package selector decides what confronts the player each round: the next
// event from a reshuffling deck and the pool of actions offered against it.
package selector

import (
	"errors"
	"fmt"

	"github.com/nathoo/risingwaters/types"
)

// PoolSize is the number of actions offered each round, risk action included.
const PoolSize = 4

// varietyPicks is the number of non-risk actions in a pool.
const varietyPicks = PoolSize - 1

// Source is the randomness the selector needs. Intn returns a value in [0, n).
type Source interface {
	Intn(n int) int
}

// Shuffle returns a uniformly random permutation of items. The input is not modified.
func Shuffle[T any](items []T, src Source) []T {
	out := append([]T(nil), items...)
	for i := len(out) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Deck draws events without replacement and refills itself from the full
// event set when it runs out.
type Deck struct {
	all       []types.EventDef
	pile      []types.EventDef
	src       Source
	reshuffle int
}

// NewDeck creates a deck holding a shuffled copy of events.
func NewDeck(events []types.EventDef, src Source) *Deck {
	d := &Deck{all: append([]types.EventDef(nil), events...), src: src}
	d.pile = Shuffle(d.all, src)
	return d
}

// Draw pops the next event. The second result is true when the deck had to
// be refilled for this draw. Draw on a deck built from no events panics.
func (d *Deck) Draw() (types.EventDef, bool) {
	refilled := false
	if len(d.pile) == 0 {
		if len(d.all) == 0 {
			panic("selector: draw from empty event set")
		}
		d.pile = Shuffle(d.all, d.src)
		d.reshuffle++
		refilled = true
	}
	ev := d.pile[len(d.pile)-1]
	d.pile = d.pile[:len(d.pile)-1]
	return ev, refilled
}

// Remaining returns the number of events left before the next refill.
func (d *Deck) Remaining() int {
	return len(d.pile)
}

// Reshuffles returns how many times the deck has been refilled.
func (d *Deck) Reshuffles() int {
	return d.reshuffle
}

// Policy selects how the three variety actions are chosen.
type Policy string

const (
	// PolicyRelevance guarantees one action matching the event's preferred
	// categories when one exists.
	PolicyRelevance Policy = "relevance"
	// PolicyUniform ignores the event entirely.
	PolicyUniform Policy = "uniform"
)

// ParsePolicy accepts the policy names used in configuration.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyRelevance, "":
		return PolicyRelevance, nil
	case PolicyUniform:
		return PolicyUniform, nil
	}
	return "", fmt.Errorf("unknown action pool policy %q (want relevance or uniform)", s)
}

// ErrPoolConfig means the scenario cannot fill an action pool.
var ErrPoolConfig = errors.New("action pool needs at least 3 non-risk actions and one risk action")

// Relevance reports whether a category responds to an event and lists the
// event's preferred categories.
type Relevance interface {
	RelevantCategories(eventID string) []types.Category
	IsRelevant(eventID string, c types.Category) bool
}

// PoolResult describes a built pool for diagnostics.
type PoolResult struct {
	Actions    []types.ActionDef
	Categories []types.Category // preferred categories of the event, nil if none
	Relevant   string           // ID of the guaranteed relevant action, "" if none
}

// BuildPool assembles the actions offered against event: three variety
// actions chosen by policy plus the risk action, in random order.
func BuildPool(event types.EventDef, actions []types.ActionDef, rel Relevance, policy Policy, src Source) (PoolResult, error) {
	var risk *types.ActionDef
	var others []types.ActionDef
	for i := range actions {
		if actions[i].Category == types.CategoryRisk {
			if risk == nil {
				risk = &actions[i]
			}
			continue
		}
		others = append(others, actions[i])
	}
	if risk == nil || len(others) < varietyPicks {
		return PoolResult{}, ErrPoolConfig
	}

	var res PoolResult
	var picked []types.ActionDef

	if policy == PolicyRelevance && rel != nil {
		res.Categories = rel.RelevantCategories(event.ID)
		var relevant []types.ActionDef
		if len(res.Categories) > 0 {
			for _, a := range others {
				if rel.IsRelevant(event.ID, a.Category) {
					relevant = append(relevant, a)
				}
			}
		}
		if len(relevant) > 0 {
			first := relevant[src.Intn(len(relevant))]
			remaining := make([]types.ActionDef, 0, len(others)-1)
			for _, a := range others {
				if a.ID != first.ID {
					remaining = append(remaining, a)
				}
			}
			// Duplicate IDs could leave too few; fall through to the uniform pick.
			if len(remaining) >= varietyPicks-1 {
				res.Relevant = first.ID
				picked = append(picked, first)
				picked = append(picked, Shuffle(remaining, src)[:varietyPicks-1]...)
			}
		}
	}
	if picked == nil {
		picked = Shuffle(others, src)[:varietyPicks]
	}

	picked = append(picked, *risk)
	pool := Shuffle(picked, src)
	if len(pool) > PoolSize {
		pool = pool[:PoolSize]
	}
	res.Actions = pool
	return res, nil
}
