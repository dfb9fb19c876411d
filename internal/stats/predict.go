package stats

import (
	"math"
	"time"

	"github.com/dukerupert/studytracker/internal/model"
)

// NoPredictionData is shown when no session matches the prediction filter.
const NoPredictionData = "No data available for prediction"

// Predict returns the mean rating, rounded to one decimal, of sessions on
// subject that started on weekday in loc. ok is false when none match.
func Predict(sessions []model.StudySession, subject string, weekday time.Weekday, loc *time.Location) (float64, bool) {
	var acc meanAcc
	for _, s := range sessions {
		if s.Subject != subject || s.StartedAt.In(loc).Weekday() != weekday {
			continue
		}
		acc.sum += float64(s.ProductivityRating)
		acc.count++
	}
	if acc.count == 0 {
		return 0, false
	}
	return math.Round(acc.mean()*10) / 10, true
}
