// Package classify assigns auction categories to normalized player rows.
package classify

import (
	"fmt"
	"strings"
)

// Category names produced by the built-in strategies.
const (
	CategoryMarquee       = "Marquee"
	CategoryBatters       = "Batters"
	CategoryAllRounders   = "All-Rounders"
	CategoryWicketKeepers = "Wicket-Keepers"
	CategoryFastBowlers   = "Fast Bowlers"
	CategorySpinBowlers   = "Spin Bowlers"
	CategoryUncapped      = "Uncapped"
	CategoryOther         = "Other"
)

// Strategy names a classification policy.
type Strategy string

const (
	StrategyLookup    Strategy = "lookup"
	StrategyHeuristic Strategy = "heuristic"
	StrategyAuto      Strategy = "auto"
)

// Input carries the row attributes a classifier may inspect.
type Input struct {
	Set          string
	Role         string
	BowlingStyle string
	Capped       bool
}

// Classifier decides a category. ok is false when it has no opinion.
type Classifier interface {
	Classify(in Input) (category string, ok bool)
}

// Lookup maps set codes to categories.
type Lookup struct {
	table map[string]string
}

// NewLookup copies table; a nil table selects DefaultLookupTable.
func NewLookup(table map[string]string) *Lookup {
	if table == nil {
		table = DefaultLookupTable()
	}
	copied := make(map[string]string, len(table))
	for code, category := range table {
		copied[strings.TrimSpace(code)] = category
	}
	return &Lookup{table: copied}
}

// Classify looks the set code up exactly (codes are case-sensitive, e.g. "UFA10").
func (l *Lookup) Classify(in Input) (string, bool) {
	category, ok := l.table[strings.TrimSpace(in.Set)]
	return category, ok
}

// Heuristic classifies by capped status, role and bowling style.
type Heuristic struct{}

// Classify always decides; rules are ordered and the first match wins.
func (Heuristic) Classify(in Input) (string, bool) {
	if !in.Capped {
		return CategoryUncapped, true
	}
	role := strings.ToUpper(in.Role)
	switch {
	case strings.Contains(role, "ALL-ROUNDER"):
		return CategoryAllRounders, true
	case strings.Contains(role, "BATTER"), strings.Contains(role, "BATSMAN"):
		return CategoryBatters, true
	case strings.Contains(role, "WICKETKEEPER"):
		return CategoryWicketKeepers, true
	case strings.Contains(role, "BOWLER"):
		if strings.Contains(strings.ToUpper(in.BowlingStyle), "SPIN") {
			return CategorySpinBowlers, true
		}
		return CategoryFastBowlers, true
	default:
		return CategoryOther, true
	}
}

// Chain asks each classifier in order and returns the first decision.
type Chain []Classifier

func (c Chain) Classify(in Input) (string, bool) {
	for _, cl := range c {
		if cl == nil {
			continue
		}
		if category, ok := cl.Classify(in); ok {
			return category, true
		}
	}
	return "", false
}

// New builds the classifier for a strategy.
func New(strategy Strategy, table map[string]string) (Classifier, error) {
	switch strategy {
	case StrategyLookup:
		return NewLookup(table), nil
	case StrategyHeuristic:
		return Heuristic{}, nil
	case StrategyAuto, "":
		return Chain{NewLookup(table), Heuristic{}}, nil
	default:
		return nil, fmt.Errorf("unknown classification strategy %q", strategy)
	}
}
