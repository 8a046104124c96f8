package friendship

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SortField selects the sort key for the accepted-friends view.
type SortField string

const (
	SortDefault        SortField = "default"
	SortName           SortField = "name"
	SortNickname       SortField = "nickname"
	SortFriendshipDate SortField = "friendshipDate"
)

// SortDirection toggles ascending/descending for the non-default fields.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const (
	// Queries shorter than this return the collection unfiltered.
	minQueryLength = 2

	displayNameWeight = 0.6
	nicknameWeight    = 0.4
)

// Filter applies a weighted fuzzy match over the denormalized display name
// and nickname. Matching is normalized and case-folded subsequence matching,
// deliberately looser than a substring test. The input slice is never
// mutated; blank or too-short queries return it unchanged.
func Filter(edges []Friendship, query string) []Friendship {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLength {
		return edges
	}

	type scored struct {
		edge  Friendship
		score float64
	}

	matches := make([]scored, 0, len(edges))
	for _, e := range edges {
		score, ok := matchScore(query, e.Friend)
		if !ok {
			continue
		}
		matches = append(matches, scored{edge: e, score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score < matches[j].score
	})

	out := make([]Friendship, len(matches))
	for i, m := range matches {
		out[i] = m.edge
	}
	return out
}

// matchScore returns the best weighted rank across the two profile fields.
// Lower is better; a higher field weight shrinks its rank.
func matchScore(query string, p Profile) (float64, bool) {
	best := 0.0
	found := false

	if rank := fuzzy.RankMatchNormalizedFold(query, p.DisplayName); rank >= 0 {
		best = float64(rank+1) / displayNameWeight
		found = true
	}
	if rank := fuzzy.RankMatchNormalizedFold(query, p.Nickname); rank >= 0 {
		s := float64(rank+1) / nicknameWeight
		if !found || s < best {
			best = s
		}
		found = true
	}

	return best, found
}

// SortEdges orders a copy of the collection by the selected field. The
// default field is a composite key (friendship date falling back to creation
// date) and is always descending; the other fields honor the direction
// toggle. String comparisons are case-insensitive, date comparisons use
// millisecond epochs.
func SortEdges(edges []Friendship, field SortField, dir SortDirection) []Friendship {
	out := make([]Friendship, len(edges))
	copy(out, edges)

	switch field {
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return orderedStrings(
				strings.ToLower(out[i].Friend.DisplayName),
				strings.ToLower(out[j].Friend.DisplayName),
				dir,
			)
		})
	case SortNickname:
		sort.SliceStable(out, func(i, j int) bool {
			return orderedStrings(
				strings.ToLower(out[i].Friend.Nickname),
				strings.ToLower(out[j].Friend.Nickname),
				dir,
			)
		})
	case SortFriendshipDate:
		sort.SliceStable(out, func(i, j int) bool {
			return orderedMillis(
				out[i].EffectiveDate().UnixMilli(),
				out[j].EffectiveDate().UnixMilli(),
				dir,
			)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].EffectiveDate().UnixMilli() > out[j].EffectiveDate().UnixMilli()
		})
	}

	return out
}

// SortByCreatedDesc is the fixed ordering for the pending-request views:
// newest first, regardless of the user's sort selection.
func SortByCreatedDesc(edges []Friendship) []Friendship {
	out := make([]Friendship, len(edges))
	copy(out, edges)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.UnixMilli() > out[j].CreatedAt.UnixMilli()
	})
	return out
}

func orderedStrings(a, b string, dir SortDirection) bool {
	if dir == SortDesc {
		return a > b
	}
	return a < b
}

func orderedMillis(a, b int64, dir SortDirection) bool {
	if dir == SortDesc {
		return a > b
	}
	return a < b
}
