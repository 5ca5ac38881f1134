package normalize

import "github.com/preston-bernstein/auction-roster/internal/domain/players"

// SkipReason tags why a row produced no record.
type SkipReason string

const (
	SkipMissingName   SkipReason = "missing_name"
	SkipUnknownSet    SkipReason = "unknown_set"
	SkipDuplicateName SkipReason = "duplicate_name"
	SkipDuplicateID   SkipReason = "duplicate_id"
)

// Result is the outcome of normalizing one row: a player or a skip reason.
type Result struct {
	Line   int
	Serial string
	Player *players.Player
	Skip   SkipReason
	Detail string
}

// Skipped reports whether the row was rejected.
func (r Result) Skipped() bool {
	return r.Player == nil
}

func skip(line int, serial string, reason SkipReason, detail string) Result {
	return Result{Line: line, Serial: serial, Skip: reason, Detail: detail}
}
