package stats

import (
	"sort"

	"github.com/mkurata/slack-pulse/pkg/models"
)

// userAccumulator collects the three partial aggregates for one user.
type userAccumulator struct {
	days             map[string]bool
	totalPosts       int
	postsWithReplies int
}

// UserActivity computes the per-user activity report. Aggregation is keyed
// by user id; display names are resolved only at the end, so two distinct
// unresolved ids stay distinct rows even though both render as "Unknown".
//
// activeDays and totalPosts come from the parents-only records, while
// postsWithReplies comes from the parents+replies records. The three
// partials are outer-joined: a user present in only one of them still gets
// a row, with zero for the missing metrics. Rows are sorted by activeDays
// descending; ties keep first-seen (fetch) order.
func UserActivity(parents, all []Record, dir models.Directory) []models.UserStat {
	acc := make(map[string]*userAccumulator)
	var order []string

	get := func(userID string) *userAccumulator {
		a, ok := acc[userID]
		if !ok {
			a = &userAccumulator{days: make(map[string]bool)}
			acc[userID] = a
			order = append(order, userID)
		}
		return a
	}

	for _, r := range parents {
		a := get(r.UserID)
		a.days[r.Date.Format("2006-01-02")] = true
		a.totalPosts++
	}
	for _, r := range all {
		get(r.UserID).postsWithReplies++
	}

	stats := make([]models.UserStat, 0, len(order))
	for _, id := range order {
		a := acc[id]
		stats = append(stats, models.UserStat{
			UserID:           id,
			DisplayName:      dir.DisplayName(id),
			ActiveDays:       len(a.days),
			TotalPosts:       a.totalPosts,
			PostsWithReplies: a.postsWithReplies,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].ActiveDays > stats[j].ActiveDays
	})

	return stats
}

// TopPosters ranks users by record count, resolving display names at the
// end. Ties keep first-seen order.
func TopPosters(records []Record, dir models.Directory, topN int) []models.PostCount {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if _, ok := counts[r.UserID]; !ok {
			order = append(order, r.UserID)
		}
		counts[r.UserID]++
	}

	rows := make([]models.PostCount, 0, len(order))
	for _, id := range order {
		rows = append(rows, models.PostCount{Name: dir.DisplayName(id), Count: counts[id]})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return truncateCounts(rows, topN)
}

// TopChannels ranks channels by record count. Ties keep first-seen order.
func TopChannels(records []Record, topN int) []models.PostCount {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if _, ok := counts[r.ChannelName]; !ok {
			order = append(order, r.ChannelName)
		}
		counts[r.ChannelName]++
	}

	rows := make([]models.PostCount, 0, len(order))
	for _, name := range order {
		rows = append(rows, models.PostCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return truncateCounts(rows, topN)
}

func truncateCounts(rows []models.PostCount, topN int) []models.PostCount {
	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}
	return rows
}
