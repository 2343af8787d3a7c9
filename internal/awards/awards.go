// Package awards ranks a round and hands out the special awards from a
// snapshot of player stats. It is pure: no I/O, no hidden state.
package awards

import (
	"sort"

	"github.com/robalobadob/szokereso/internal/players"
)

// Awards is the end-of-round standings. Every slice holds player ids sorted
// ascending; a tie puts several ids into one place.
type Awards struct {
	First           []string `json:"first"`
	Second          []string `json:"second"`
	Third           []string `json:"third"`
	BestBeginner    []string `json:"bestBeginner"`
	Newcomers       []string `json:"newcomers"`
	MostSolvedHints []string `json:"mostSolvedHints"`
}

// Group is the set of players sharing one found-word count.
type Group struct {
	Count int
	IDs   []string
}

// Rank groups players by round found-word count, highest first. Players who
// found nothing are left out.
func Rank(stats map[string]players.Stat) []Group {
	byCount := map[int][]string{}
	for id, s := range stats {
		if n := len(s.FoundWords); n > 0 {
			byCount[n] = append(byCount[n], id)
		}
	}
	out := make([]Group, 0, len(byCount))
	for n, ids := range byCount {
		sort.Strings(ids)
		out = append(out, Group{Count: n, IDs: ids})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Compute builds the standings.
//
// The newcomer check compares the round count with the all-time count, so the
// snapshot must be taken before any all-time increment of a later round.
func Compute(stats map[string]players.Stat) Awards {
	groups := Rank(stats)
	a := Awards{
		First:           []string{},
		Second:          []string{},
		Third:           []string{},
		BestBeginner:    []string{},
		Newcomers:       []string{},
		MostSolvedHints: []string{},
	}
	places := []*[]string{&a.First, &a.Second, &a.Third}
	for i, g := range groups {
		if i < len(places) {
			*places[i] = append([]string{}, g.IDs...)
		}
	}

	for _, g := range groups {
		for _, id := range g.IDs {
			if stats[id].Role == players.RoleBeginner {
				a.BestBeginner = append(a.BestBeginner, id)
			}
		}
		if len(a.BestBeginner) > 0 {
			break
		}
	}

	best := 0
	for _, g := range groups {
		for _, id := range g.IDs {
			s := stats[id]
			if len(s.FoundWords) == s.AllTimeFound {
				a.Newcomers = append(a.Newcomers, id)
			}
			best = max(best, s.SolvedHints())
		}
	}
	if best > 0 {
		for _, g := range groups {
			for _, id := range g.IDs {
				if stats[id].SolvedHints() == best {
					a.MostSolvedHints = append(a.MostSolvedHints, id)
				}
			}
		}
	}
	sort.Strings(a.Newcomers)
	sort.Strings(a.MostSolvedHints)
	return a
}
