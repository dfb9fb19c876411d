package stats

import (
	"sort"
	"time"

	"github.com/dukerupert/studytracker/internal/model"
)

// MatrixDays is the row order of the activity matrix.
var MatrixDays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Matrix is the weekly activity heatmap: Cells[row][col] holds the hours
// studied on MatrixDays[row] during week Weeks[col]. Absent combinations
// are zero.
type Matrix struct {
	Weeks []int
	Days  []time.Weekday
	Cells [][]float64
}

// Max returns the largest cell value.
func (m Matrix) Max() float64 {
	var peak float64
	for _, row := range m.Cells {
		for _, v := range row {
			if v > peak {
				peak = v
			}
		}
	}
	return peak
}

// WeekOfYear numbers weeks with Sunday as the first day. Days before the
// first Sunday of the year fall in week 0, so the range is 0 to 53.
func WeekOfYear(t time.Time) int {
	return (t.YearDay() - 1 + 7 - int(t.Weekday())) / 7
}

// WeeklyMatrix builds the weekday by week-of-year matrix. Week numbers from
// different years share a column.
func WeeklyMatrix(sessions []model.StudySession, loc *time.Location) Matrix {
	type key struct {
		day  time.Weekday
		week int
	}
	sums := make(map[key]float64)
	weekSet := make(map[int]struct{})
	for _, s := range sessions {
		local := s.StartedAt.In(loc)
		k := key{day: local.Weekday(), week: WeekOfYear(local)}
		sums[k] += s.DurationHours
		weekSet[k.week] = struct{}{}
	}

	weeks := make([]int, 0, len(weekSet))
	for w := range weekSet {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	cells := make([][]float64, len(MatrixDays))
	for row, day := range MatrixDays {
		cells[row] = make([]float64, len(weeks))
		for col, week := range weeks {
			cells[row][col] = sums[key{day: day, week: week}]
		}
	}
	return Matrix{Weeks: weeks, Days: MatrixDays, Cells: cells}
}
