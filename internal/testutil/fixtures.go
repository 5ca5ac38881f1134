package testutil

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/preston-bernstein/auction-roster/internal/domain/players"
)

// AuctionRow describes the cells of one auction list row that the pipeline reads.
type AuctionRow struct {
	Serial       string
	Set          string
	FirstName    string
	Surname      string
	Country      string
	Age          string
	Role         string
	BattingStyle string
	BowlingStyle string
	PreviousTeam string
	Status       string
	PriceLakhs   string
}

// Fields lays the row out in the 21-column export shape.
func (r AuctionRow) Fields() []string {
	fields := make([]string, 21)
	fields[0] = r.Serial
	fields[1] = r.Serial
	fields[2] = r.Set
	fields[3] = r.FirstName
	fields[4] = r.Surname
	fields[5] = r.Country
	fields[8] = r.Age
	fields[9] = r.Role
	fields[10] = r.BattingStyle
	fields[11] = r.BowlingStyle
	fields[17] = r.PreviousTeam
	fields[19] = r.Status
	fields[20] = r.PriceLakhs
	return fields
}

// CappedBowler returns a capped Indian bowler row with the given bowling style.
func CappedBowler(serial, first, last, style string) AuctionRow {
	return AuctionRow{
		Serial:       serial,
		Set:          "FA1",
		FirstName:    first,
		Surname:      last,
		Country:      "India",
		Age:          "29",
		Role:         "BOWLER",
		BattingStyle: "RHB",
		BowlingStyle: style,
		PreviousTeam: "MI",
		Status:       "Capped",
		PriceLakhs:   "200",
	}
}

// HeaderFields mimics the auction list column header row.
func HeaderFields() []string {
	return []string{
		"List Sr.No.", "Set No.", "2025 Set", "First Name", "Surname", "Country",
		"State Association", "DOB", "Age", "Specialism", "Batting", "Bowling",
		"Test caps", "ODI caps", "T20 caps", "IPL", "Previous IPL Team(s)", "2024 Team",
		"2024 IPL", "C/U/A", "Reserve Price Rs Lakh",
	}
}

// AuctionCSV renders a full export: banner rows, header, then the given rows.
func AuctionCSV(rows ...AuctionRow) string {
	records := [][]string{
		{"TATA IPL 2025 Auction List"},
		{"", "", ""},
		HeaderFields(),
	}
	for _, r := range rows {
		records = append(records, r.Fields())
	}
	return RenderCSV(records)
}

// RenderCSV encodes raw records as comma-separated text.
func RenderCSV(records [][]string) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.WriteAll(records)
	return buf.String()
}

// WriteFile writes content under a fresh temp dir and returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// SamplePlayer returns a fully populated player record.
func SamplePlayer(id, name string) players.Player {
	return players.Player{
		ID:           id,
		Name:         name,
		Country:      "India",
		Role:         "BATTER",
		BattingStyle: players.OptionalString("RHB"),
		BasePrice:    2_000_000,
		Category:     "Batters",
		Set:          "BA1",
		Age:          30,
		IsCapped:     true,
	}
}
