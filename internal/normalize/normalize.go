// Package normalize maps located auction rows to player records.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/preston-bernstein/auction-roster/internal/classify"
	"github.com/preston-bernstein/auction-roster/internal/domain/players"
	"github.com/preston-bernstein/auction-roster/internal/sheet"
)

// Column positions in the auction list export.
const (
	colSerial       = 0
	colSet          = 2
	colFirstName    = 3
	colSurname      = 4
	colCountry      = 5
	colAge          = 8
	colRole         = 9
	colBattingStyle = 10
	colBowlingStyle = 11
	colPreviousTeam = 17
	colStatus       = 19
	colPrice        = 20
)

const (
	lakh = 100_000

	// DefaultBasePrice is used when no policy price is configured.
	DefaultBasePrice = int64(20 * lakh)

	homeCountry = "India"
	// Header text that leaks into the previous-team column of some rows.
	previousTeamBleed = "Team"
)

// Policy selects the variant behaviors of the pipeline.
type Policy struct {
	Classifier       classify.Classifier
	Strict           bool
	IDFormatter      IDFormatter
	DefaultBasePrice int64
	RequireLastName  bool
}

// Normalizer converts rows under a fixed policy.
type Normalizer struct {
	policy Policy
}

// New fills unset policy fields with defaults (auto classification, padded ids).
func New(p Policy) *Normalizer {
	if p.Classifier == nil {
		p.Classifier = classify.Chain{classify.NewLookup(nil), classify.Heuristic{}}
	}
	if p.IDFormatter == nil {
		p.IDFormatter = PaddedID
	}
	if p.DefaultBasePrice <= 0 {
		p.DefaultBasePrice = DefaultBasePrice
	}
	return &Normalizer{policy: p}
}

// Normalize maps one row. It never fails; unusable rows come back skipped.
func (n *Normalizer) Normalize(row sheet.Row) Result {
	serial := row.Field(colSerial)
	first := row.Field(colFirstName)
	last := row.Field(colSurname)

	if first == "" {
		return skip(row.Line, serial, SkipMissingName, "first name empty")
	}
	if n.policy.RequireLastName && last == "" {
		return skip(row.Line, serial, SkipMissingName, "surname empty")
	}

	set := row.Field(colSet)
	role := strings.ToUpper(row.Field(colRole))
	bowling := row.Field(colBowlingStyle)
	capped := strings.EqualFold(row.Field(colStatus), "capped")

	category, ok := n.policy.Classifier.Classify(classify.Input{
		Set:          set,
		Role:         role,
		BowlingStyle: bowling,
		Capped:       capped,
	})
	if !ok {
		if n.policy.Strict {
			return skip(row.Line, serial, SkipUnknownSet, "set code "+strconv.Quote(set)+" not in lookup table")
		}
		category = classify.CategoryOther
	}

	country := row.Field(colCountry)
	player := players.Player{
		ID:           n.policy.IDFormatter(serial),
		Name:         strings.TrimSpace(first + " " + last),
		Country:      country,
		Role:         role,
		BattingStyle: players.OptionalString(row.Field(colBattingStyle)),
		BowlingStyle: players.OptionalString(bowling),
		BasePrice:    n.basePrice(row.Field(colPrice)),
		IsOverseas:   IsOverseas(country),
		PreviousTeam: previousTeam(row.Field(colPreviousTeam)),
		Category:     category,
		Set:          set,
		Age:          parseAge(row.Field(colAge)),
		IsCapped:     capped,
	}
	return Result{Line: row.Line, Serial: serial, Player: &player}
}

// IsOverseas compares case-insensitively against the home nation.
// A blank country counts as domestic.
func IsOverseas(country string) bool {
	country = strings.TrimSpace(country)
	if country == "" {
		return false
	}
	return !strings.EqualFold(country, homeCountry)
}

// ParseLakhs reads a lakh amount such as "1,50" or "200" and returns rupees.
func ParseLakhs(raw string) (int64, bool) {
	cleaned := strings.NewReplacer(",", "", " ", "").Replace(raw)
	lakhs, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || lakhs < 0 || lakhs > math.MaxInt64/lakh {
		return 0, false
	}
	return lakhs * lakh, true
}

func (n *Normalizer) basePrice(raw string) int64 {
	if rupees, ok := ParseLakhs(raw); ok {
		return rupees
	}
	return n.policy.DefaultBasePrice
}

func parseAge(raw string) int {
	if raw == "" {
		return 0
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0
		}
	}
	age, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return age
}

func previousTeam(raw string) *string {
	if raw == previousTeamBleed {
		return nil
	}
	return players.OptionalString(raw)
}
