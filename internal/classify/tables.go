package classify

import (
	"fmt"

	"github.com/preston-bernstein/auction-roster/internal/domain/players"
)

type setGroup struct {
	id       string
	name     string
	category string
	prefix   string
	count    int
}

// Auction set groups in list order. Marquee's display name differs from its category.
var setGroups = []setGroup{
	{"marquee", "Marquee Players", CategoryMarquee, "M", 2},
	{"batters", "Batters", CategoryBatters, "BA", 5},
	{"allrounders", "All-Rounders", CategoryAllRounders, "AL", 10},
	{"wicketkeepers", "Wicket-Keepers", CategoryWicketKeepers, "WK", 4},
	{"fast_bowlers", "Fast Bowlers", CategoryFastBowlers, "FA", 10},
	{"spinners", "Spin Bowlers", CategorySpinBowlers, "SP", 3},
	{"uncapped_batters", "Uncapped Batters", "Uncapped Batters", "UBA", 9},
	{"uncapped_allrounders", "Uncapped All-Rounders", "Uncapped All-Rounders", "UAL", 15},
	{"uncapped_wicketkeepers", "Uncapped Wicket-Keepers", "Uncapped Wicket-Keepers", "UWK", 6},
	{"uncapped_fast_bowlers", "Uncapped Fast Bowlers", "Uncapped Fast Bowlers", "UFA", 10},
	{"uncapped_spinners", "Uncapped Spinners", "Uncapped Spinners", "USP", 5},
}

func (g setGroup) sets() []string {
	out := make([]string, 0, g.count)
	for i := 1; i <= g.count; i++ {
		out = append(out, fmt.Sprintf("%s%d", g.prefix, i))
	}
	return out
}

// DefaultLookupTable returns a fresh set-code to category map for the 2025 list.
func DefaultLookupTable() map[string]string {
	table := make(map[string]string)
	for _, g := range setGroups {
		for _, code := range g.sets() {
			table[code] = g.category
		}
	}
	return table
}

// DefaultCategories returns the category metadata emitted alongside converted players.
func DefaultCategories() []players.Category {
	out := make([]players.Category, 0, len(setGroups))
	for _, g := range setGroups {
		out = append(out, players.Category{ID: g.id, Name: g.name, Sets: g.sets()})
	}
	return out
}
