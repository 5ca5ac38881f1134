// Package merge appends newly seen players to an existing roster without duplicating names.
package merge

import (
	"fmt"

	"github.com/preston-bernstein/auction-roster/internal/domain/players"
	"github.com/preston-bernstein/auction-roster/internal/normalize"
	"github.com/preston-bernstein/auction-roster/internal/store"
)

// Rejection records a candidate that was not appended. Index points into the candidates slice.
type Rejection struct {
	Index  int
	Player players.Player
	Reason normalize.SkipReason
}

// Reassignment records a candidate accepted under a new id because its own was taken.
type Reassignment struct {
	Index int
	Name  string
	From  string
	To    string
}

// Outcome is the merged roster plus what happened to each candidate.
type Outcome struct {
	Players    []players.Player
	Added      []players.Player
	Rejected   []Rejection
	Reassigned []Reassignment
}

// Merge returns existing (unchanged, in order) followed by candidates whose
// name key is new. Names accepted earlier in the same batch count as known.
// A new name whose id is already used is accepted under the first free
// "<id>-<n>" id, n >= 2.
func Merge(existing, candidates []players.Player) Outcome {
	index := store.NewMemoryStore()
	index.SetPlayers(existing)

	var out Outcome
	for i, c := range candidates {
		if index.HasName(c.Name) {
			out.Rejected = append(out.Rejected, Rejection{Index: i, Player: c, Reason: normalize.SkipDuplicateName})
			continue
		}
		if index.HasID(c.ID) {
			free := freeID(index, c.ID)
			out.Reassigned = append(out.Reassigned, Reassignment{Index: i, Name: c.Name, From: c.ID, To: free})
			c.ID = free
		}
		index.AddPlayer(c)
		out.Added = append(out.Added, c)
	}
	out.Players = index.ListPlayers()
	return out
}

func freeID(index *store.MemoryStore, id string) string {
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", id, n)
		if !index.HasID(candidate) {
			return candidate
		}
	}
}
