package rank

import (
	"sort"

	"minoj/internal/model"
)

// breakTie orders one equal-total-score group and assigns ranks.
// start is the number of users ranked ahead of this group; rank
// numbering across groups is dense by position regardless of how the
// breaker ranks within the group.
func breakTie(group []row, start int, breaker model.TieBreaker, nameOf func(uint64) string) []model.UserRank {
	sorted := make([]row, len(group))
	copy(sorted, group)

	switch breaker {
	case model.TieBySubmissionTime:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].time.Before(sorted[j].time.Time)
		})
		return distinctRanks(sorted, start, nameOf)

	case model.TieBySubmissionCount:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].count < sorted[j].count
		})
		return countRanks(sorted, start, nameOf)

	case model.TieByUserID:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].userID < sorted[j].userID
		})
		return distinctRanks(sorted, start, nameOf)

	default:
		// no breaker: the whole group shares the first position's rank
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].userID < sorted[j].userID
		})
		ranks := make([]model.UserRank, 0, len(sorted))
		for _, r := range sorted {
			ranks = append(ranks, toRank(r, uint64(start+1), nameOf))
		}
		return ranks
	}
}

// distinctRanks gives each member its own position-based rank
func distinctRanks(sorted []row, start int, nameOf func(uint64) string) []model.UserRank {
	ranks := make([]model.UserRank, 0, len(sorted))
	for i, r := range sorted {
		ranks = append(ranks, toRank(r, uint64(start+i+1), nameOf))
	}
	return ranks
}

// countRanks shares a rank among members with equal submission counts;
// the rank of each run is its first member's position. Within a run
// users are ordered by id.
func countRanks(sorted []row, start int, nameOf func(uint64) string) []model.UserRank {
	ranks := make([]model.UserRank, 0, len(sorted))
	i := 0
	for i < len(sorted) {
		j := i
		for j < len(sorted) && sorted[j].count == sorted[i].count {
			j++
		}
		run := make([]row, j-i)
		copy(run, sorted[i:j])
		sort.SliceStable(run, func(a, b int) bool { return run[a].userID < run[b].userID })
		for _, r := range run {
			ranks = append(ranks, toRank(r, uint64(start+i+1), nameOf))
		}
		i = j
	}
	return ranks
}

func toRank(r row, rank uint64, nameOf func(uint64) string) model.UserRank {
	id := r.userID
	name := ""
	if nameOf != nil {
		name = nameOf(r.userID)
	}
	return model.UserRank{
		User:   model.User{ID: &id, Name: name},
		Rank:   rank,
		Scores: r.scores,
	}
}
