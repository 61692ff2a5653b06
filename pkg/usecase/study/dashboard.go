package study

import (
	"strings"
	"time"

	"github.com/m-mizutani/edumentor/pkg/model"
)

// WeeklyGoal is the number of study sessions targeted per week
const WeeklyGoal = 5

// DashboardStats is an overview of study activity
type DashboardStats struct {
	TotalEntries      int
	TopicsStudied     int
	SavedTopics       int
	EntriesToday      int
	StudyStreak       int
	SessionsThisWeek  int
	WeeklyGoal        int
	RemainingSessions int
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Dashboard computes activity statistics from history. A session is a
// calendar day with at least one history entry. The streak counts
// consecutive such days ending today, or yesterday when nothing has been
// studied yet today. The week starts on Monday.
func Dashboard(history []*model.HistoryEntry, saved []*model.SavedTopic, now time.Time, loc *time.Location) *DashboardStats {
	if loc == nil {
		loc = time.Local
	}

	today := dayOf(now, loc)
	weekday := (int(today.Weekday()) + 6) % 7
	weekStart := today.AddDate(0, 0, -weekday)

	stats := &DashboardStats{
		TotalEntries: len(history),
		SavedTopics:  len(saved),
		WeeklyGoal:   WeeklyGoal,
	}

	topics := map[string]struct{}{}
	days := map[time.Time]struct{}{}
	for _, e := range history {
		topics[strings.ToLower(strings.TrimSpace(e.Query))] = struct{}{}

		day := dayOf(e.Timestamp, loc)
		days[day] = struct{}{}
		if day.Equal(today) {
			stats.EntriesToday++
		}
	}
	stats.TopicsStudied = len(topics)

	for day := range days {
		if !day.Before(weekStart) && !day.After(today) {
			stats.SessionsThisWeek++
		}
	}
	stats.RemainingSessions = max(0, WeeklyGoal-stats.SessionsThisWeek)

	cursor := today
	if _, ok := days[cursor]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for {
		if _, ok := days[cursor]; !ok {
			break
		}
		stats.StudyStreak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return stats
}
