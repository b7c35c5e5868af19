// Package policy decides which rows of a table may be selected, dragged or
// dropped onto. Each capability is a whitelist/blacklist pair of predicates;
// a row has the capability iff it matches the whitelist and does not match
// the blacklist.
package policy

import (
	"fmt"
	"strings"
)

// DynamicState names a state a row enters and leaves while the user works
// with the table. It is never part of a row's static tags.
type DynamicState string

const (
	StateSelected DynamicState = "selected"
	StateDragging DynamicState = "dragging"
)

// Subject is the view of a row a predicate evaluates.
type Subject interface {
	HasTag(tag string) bool
	InState(state DynamicState) bool
}

// Predicate reports whether a row matches.
type Predicate func(Subject) bool

// Any matches every row.
func Any() Predicate { return func(Subject) bool { return true } }

// Nothing matches no row.
func Nothing() Predicate { return func(Subject) bool { return false } }

// Tag matches rows carrying the static tag.
func Tag(tag string) Predicate {
	return func(s Subject) bool { return s.HasTag(tag) }
}

// State matches rows currently in the dynamic state.
func State(state DynamicState) Predicate {
	return func(s Subject) bool { return s.InState(state) }
}

// AnyOf matches rows matched by at least one of preds.
func AnyOf(preds ...Predicate) Predicate {
	switch len(preds) {
	case 0:
		return Nothing()
	case 1:
		return preds[0]
	}
	return func(s Subject) bool {
		for _, p := range preds {
			if p(s) {
				return true
			}
		}
		return false
	}
}

// ParseSelector turns one configuration token into a predicate.
//
//	"*"          every row
//	""           no row
//	"@selected"  rows in a dynamic state
//	"nodrag"     rows carrying that tag
func ParseSelector(token string) (Predicate, error) {
	token = strings.TrimSpace(token)
	switch {
	case token == "":
		return Nothing(), nil
	case token == "*":
		return Any(), nil
	case strings.HasPrefix(token, "@"):
		state := DynamicState(strings.ToLower(strings.TrimPrefix(token, "@")))
		switch state {
		case StateSelected, StateDragging:
			return State(state), nil
		}
		return nil, fmt.Errorf("unknown row state %q", token)
	case strings.ContainsAny(token, " \t,:*@"):
		return nil, fmt.Errorf("invalid tag selector %q", token)
	}
	return Tag(token), nil
}

// ParseSelectors combines tokens into a single predicate matching any of them.
func ParseSelectors(tokens []string) (Predicate, error) {
	preds := make([]Predicate, 0, len(tokens))
	for _, tok := range tokens {
		p, err := ParseSelector(tok)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return AnyOf(preds...), nil
}

// Pair is the whitelist/blacklist for one capability. A nil Match admits
// every row and a nil NotMatch excludes none.
type Pair struct {
	Match    Predicate
	NotMatch Predicate
}

// Allows reports whether s has the capability.
func (p Pair) Allows(s Subject) bool {
	if p.Match != nil && !p.Match(s) {
		return false
	}
	if p.NotMatch != nil && p.NotMatch(s) {
		return false
	}
	return true
}

// NewPair parses whitelist and blacklist tokens.
func NewPair(match, notMatch []string) (Pair, error) {
	m, err := ParseSelectors(match)
	if err != nil {
		return Pair{}, fmt.Errorf("match: %w", err)
	}
	n, err := ParseSelectors(notMatch)
	if err != nil {
		return Pair{}, fmt.Errorf("not match: %w", err)
	}
	return Pair{Match: m, NotMatch: n}, nil
}

// Filters holds the three capability pairs of a table.
type Filters struct {
	Selectable Pair
	Draggable  Pair
	Droppable  Pair
}

// Classes is the classification of one row.
type Classes struct {
	Selectable bool
	Draggable  bool
	Droppable  bool
}

// Classify evaluates every capability for s.
func (f Filters) Classify(s Subject) Classes {
	return Classes{
		Selectable: f.Selectable.Allows(s),
		Draggable:  f.Draggable.Allows(s),
		Droppable:  f.Droppable.Allows(s),
	}
}

// DefaultFilters admits every row except those tagged noselect, nodrag or
// nodrop for the matching capability.
func DefaultFilters() Filters {
	return Filters{
		Selectable: Pair{Match: Any(), NotMatch: Tag("noselect")},
		Draggable:  Pair{Match: Any(), NotMatch: Tag("nodrag")},
		Droppable:  Pair{Match: Any(), NotMatch: Tag("nodrop")},
	}
}
