// Package stats derives totals, time-bucketed breakdowns, insights and the
// productivity prediction from one user's study sessions. Every function is
// pure: same input slice in the same order, same output.
//
// Where a statistic picks a maximum, ties go to the value encountered first
// while walking the input slice. Callers pass sessions in list order (most
// recent first).
package stats

import (
	"sort"
	"time"

	"github.com/dukerupert/studytracker/internal/model"
)

// SubjectTotal is the per-subject aggregate shown on the dashboard.
type SubjectTotal struct {
	Subject   string
	Hours     float64
	AvgRating float64
	Count     int
}

// SubjectTotals groups by subject, ordered by total hours descending.
func SubjectTotals(sessions []model.StudySession) []SubjectTotal {
	index := make(map[string]int)
	var totals []SubjectTotal
	ratingSums := make([]int, 0)

	for _, s := range sessions {
		i, ok := index[s.Subject]
		if !ok {
			i = len(totals)
			index[s.Subject] = i
			totals = append(totals, SubjectTotal{Subject: s.Subject})
			ratingSums = append(ratingSums, 0)
		}
		totals[i].Hours += s.DurationHours
		totals[i].Count++
		ratingSums[i] += s.ProductivityRating
	}
	for i := range totals {
		totals[i].AvgRating = float64(ratingSums[i]) / float64(totals[i].Count)
	}

	sort.SliceStable(totals, func(a, b int) bool {
		return totals[a].Hours > totals[b].Hours
	})
	return totals
}

// DailyTotal is the hours studied on one local calendar date.
type DailyTotal struct {
	Date  time.Time
	Hours float64
}

// DailyTotals sums durations per local calendar date, oldest first.
func DailyTotals(sessions []model.StudySession, loc *time.Location) []DailyTotal {
	byDate := make(map[time.Time]float64)
	for _, s := range sessions {
		local := s.StartedAt.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		byDate[day] += s.DurationHours
	}

	out := make([]DailyTotal, 0, len(byDate))
	for day, hours := range byDate {
		out = append(out, DailyTotal{Date: day, Hours: hours})
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].Date.Before(out[b].Date)
	})
	return out
}

// Summary holds the dashboard headline numbers.
type Summary struct {
	TotalSessions int
	TotalHours    float64
}

// Summarize counts the sessions and adds up their hours.
func Summarize(sessions []model.StudySession) Summary {
	var sum Summary
	for _, s := range sessions {
		sum.TotalSessions++
		sum.TotalHours += s.DurationHours
	}
	return sum
}
