package players

import "strings"

// Player is the canonical auction record written to the roster dataset.
// Optional text fields are pointers so empty cells serialize as null rather than
// dropping the key.
type Player struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Country      string  `json:"country"`
	Role         string  `json:"role"`
	BattingStyle *string `json:"battingStyle"`
	BowlingStyle *string `json:"bowlingStyle"`
	BasePrice    int64   `json:"basePrice"`
	IsOverseas   bool    `json:"isOverseas"`
	PreviousTeam *string `json:"previousTeam"`
	Category     string  `json:"category"`
	Set          string  `json:"set"`
	Age          int     `json:"age"`
	IsCapped     bool    `json:"isCapped"`

	// Extra holds keys read from disk that are not modelled above. They are
	// written back after the known keys.
	Extra map[string]any `json:"-"`
}

// Category groups auction set codes under a display name.
type Category struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Sets []string `json:"sets"`
}

// Dataset is the document shape shared by the convert and merge jobs.
type Dataset struct {
	Categories []Category `json:"categories,omitempty"`
	Players    []Player   `json:"players"`

	Extra map[string]any `json:"-"`
}

// NameKey returns the dedup key for a player name.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Key is NameKey applied to the player's name.
func (p Player) Key() string {
	return NameKey(p.Name)
}

// OptionalString returns nil for blank values so they encode as null.
func OptionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
