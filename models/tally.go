// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "sort"

// RankedChoice is a choice result with its share of the vote and rank.
type RankedChoice struct {
	ChoiceResult
	Percent float64 `json:"percent"`
	Rank    int     `json:"rank"` // 1-indexed, ties share a rank
}

// Tally ranks choices by vote count, descending. Ties keep their input order
// and share the same rank. Percentages are 0 when nobody has voted.
func Tally(results []ChoiceResult) ([]RankedChoice, int) {
	total := 0
	for _, r := range results {
		total += r.Votes
	}

	ranked := make([]RankedChoice, len(results))
	for i, r := range results {
		ranked[i] = RankedChoice{ChoiceResult: r}
		if total > 0 {
			ranked[i].Percent = float64(r.Votes) * 100 / float64(total)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})

	for i := range ranked {
		if i > 0 && ranked[i].Votes == ranked[i-1].Votes {
			ranked[i].Rank = ranked[i-1].Rank
		} else {
			ranked[i].Rank = i + 1
		}
	}

	return ranked, total
}
