package stats

import (
	"testing"
	"time"

	"github.com/dukerupert/studytracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsightsEmpty(t *testing.T) {
	assert.Equal(t, []string{EmptyInsight}, Insights(nil, time.UTC))
}

func TestInsightsMostStudied(t *testing.T) {
	sessions := []model.StudySession{
		session("Math", at(monday, 9), 3, 3),
		session("Math", at(monday, 10), 1, 3),
		session("Physics", at(monday, 11), 2, 3),
	}
	insights := Insights(sessions, time.UTC)
	require.NotEmpty(t, insights)
	assert.Equal(t, "You study Math the most.", insights[0])
}

func TestInsightsBestDayTieGoesToFirstSeen(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)
	sessions := []model.StudySession{
		session("Math", at(monday, 9), 1, 5),
		session("Math", at(monday, 10), 1, 3),
		session("Math", at(tuesday, 9), 1, 4),
	}
	insights := Insights(sessions, time.UTC)
	require.GreaterOrEqual(t, len(insights), 2)
	assert.Equal(t, "Your highest productivity is on Mondays.", insights[1])

	// Same ratings, Tuesday encountered first.
	reordered := []model.StudySession{sessions[2], sessions[0], sessions[1]}
	insights = Insights(reordered, time.UTC)
	assert.Equal(t, "Your highest productivity is on Tuesdays.", insights[1])
}

func TestInsightsBestDayUsesLocalWeekday(t *testing.T) {
	// Sunday 23:00 UTC is Monday 01:00 at UTC+2.
	loc := time.FixedZone("UTC+2", 2*60*60)
	sunday := monday.AddDate(0, 0, -1)
	sessions := []model.StudySession{session("Math", at(sunday, 23), 1, 5)}

	insights := Insights(sessions, loc)
	assert.Contains(t, insights, "Your highest productivity is on Mondays.")
	assert.Contains(t, insights, "You study Math most often in the night.")
}

func TestInsightsTimeOfDayPerSubject(t *testing.T) {
	sessions := []model.StudySession{
		session("Physics", at(monday, 19), 1, 3),
		session("Math", at(monday, 8), 1, 3),
		session("Math", at(monday, 9), 1, 3),
		session("Math", at(monday, 13), 1, 3),
		session("Physics", at(monday, 0), 1, 3),
	}
	insights := Insights(sessions, time.UTC)

	// Physics is seen first; its night/evening tie goes to the earlier bucket.
	assert.Equal(t, []string{
		"You study Physics most often in the night.",
		"You study Math most often in the morning.",
	}, insights[2:4])
}

func TestInsightsSessionLength(t *testing.T) {
	longWins := []model.StudySession{
		session("Math", at(monday, 9), 2.0, 5),
		session("Math", at(monday, 12), 1.0, 2),
	}
	insights := Insights(longWins, time.UTC)
	assert.Equal(t, longSessionsInsight, insights[len(insights)-1])

	shortWins := []model.StudySession{
		session("Math", at(monday, 9), 3.0, 2),
		session("Math", at(monday, 12), 0.5, 5),
	}
	insights = Insights(shortWins, time.UTC)
	assert.Equal(t, shortSessionsInsight, insights[len(insights)-1])

	equal := []model.StudySession{
		session("Math", at(monday, 9), 3.0, 4),
		session("Math", at(monday, 12), 0.5, 4),
	}
	insights = Insights(equal, time.UTC)
	assert.Equal(t, shortSessionsInsight, insights[len(insights)-1])
}

func TestInsightsSessionLengthOmittedWhenGroupEmpty(t *testing.T) {
	onlyShort := []model.StudySession{
		session("Math", at(monday, 9), 1.0, 5),
		session("Math", at(monday, 12), 1.5, 2),
	}
	insights := Insights(onlyShort, time.UTC)
	assert.NotContains(t, insights, longSessionsInsight)
	assert.NotContains(t, insights, shortSessionsInsight)
	// most studied, best day, one time-of-day line
	assert.Len(t, insights, 3)
}
