package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dukerupert/studytracker/internal/model"
)

// EmptyInsight is the only insight shown before any session is logged.
const EmptyInsight = "Start logging your study sessions to see insights!"

// LongSessionHours splits long from short sessions.
const LongSessionHours = 2.0

const (
	longSessionsInsight  = "Consistent 2+ hours study sessions increase your average productivity score."
	shortSessionsInsight = "Shorter study sessions seem to be more productive for you."
)

// Bucket is a time-of-day range on the local clock.
type Bucket int

const (
	Night     Bucket = iota // [00:00, 06:00)
	Morning                 // [06:00, 12:00)
	Afternoon               // [12:00, 18:00)
	Evening                 // [18:00, 24:00)
)

var bucketNames = [...]string{"Night", "Morning", "Afternoon", "Evening"}

func (b Bucket) String() string {
	if b < Night || b > Evening {
		return fmt.Sprintf("Bucket(%d)", int(b))
	}
	return bucketNames[b]
}

// BucketOf maps an hour in [0, 24) to its bucket.
func BucketOf(hour int) Bucket {
	return Bucket(hour / 6)
}

// Insights returns the ordered insight statements for the dashboard.
func Insights(sessions []model.StudySession, loc *time.Location) []string {
	if len(sessions) == 0 {
		return []string{EmptyInsight}
	}

	var insights []string

	totals := SubjectTotals(sessions)
	insights = append(insights, fmt.Sprintf("You study %s the most.", totals[0].Subject))

	if day, ok := bestWeekday(sessions, loc); ok {
		insights = append(insights, fmt.Sprintf("Your highest productivity is on %ss.", day))
	}

	for _, sb := range subjectBuckets(sessions, loc) {
		insights = append(insights, fmt.Sprintf("You study %s most often in the %s.", sb.subject, strings.ToLower(sb.bucket.String())))
	}

	if msg, ok := sessionLengthInsight(sessions); ok {
		insights = append(insights, msg)
	}

	return insights
}

type meanAcc struct {
	sum   float64
	count int
}

func (m meanAcc) mean() float64 {
	if m.count == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.count)
}

// bestWeekday is the local weekday with the highest mean rating.
func bestWeekday(sessions []model.StudySession, loc *time.Location) (time.Weekday, bool) {
	var order []time.Weekday
	accs := make(map[time.Weekday]*meanAcc)
	for _, s := range sessions {
		day := s.StartedAt.In(loc).Weekday()
		acc, ok := accs[day]
		if !ok {
			acc = &meanAcc{}
			accs[day] = acc
			order = append(order, day)
		}
		acc.sum += float64(s.ProductivityRating)
		acc.count++
	}
	if len(order) == 0 {
		return 0, false
	}

	best := order[0]
	for _, day := range order[1:] {
		if accs[day].mean() > accs[best].mean() {
			best = day
		}
	}
	return best, true
}

type subjectBucket struct {
	subject string
	bucket  Bucket
}

// subjectBuckets finds, per subject in first-seen order, the time-of-day
// bucket with the most sessions. Ties go to the earlier bucket of the day.
func subjectBuckets(sessions []model.StudySession, loc *time.Location) []subjectBucket {
	var order []string
	counts := make(map[string]*[4]int)
	for _, s := range sessions {
		c, ok := counts[s.Subject]
		if !ok {
			c = &[4]int{}
			counts[s.Subject] = c
			order = append(order, s.Subject)
		}
		c[BucketOf(s.StartedAt.In(loc).Hour())]++
	}

	out := make([]subjectBucket, 0, len(order))
	for _, subject := range order {
		c := counts[subject]
		best := Night
		for b := Morning; b <= Evening; b++ {
			if c[b] > c[best] {
				best = b
			}
		}
		out = append(out, subjectBucket{subject: subject, bucket: best})
	}
	return out
}

// sessionLengthInsight compares mean ratings of long and short sessions.
// Nothing is said unless both groups have sessions.
func sessionLengthInsight(sessions []model.StudySession) (string, bool) {
	var long, short meanAcc
	for _, s := range sessions {
		if s.DurationHours >= LongSessionHours {
			long.sum += float64(s.ProductivityRating)
			long.count++
		} else {
			short.sum += float64(s.ProductivityRating)
			short.count++
		}
	}
	if long.count == 0 || short.count == 0 {
		return "", false
	}
	if long.mean() > short.mean() {
		return longSessionsInsight, true
	}
	return shortSessionsInsight, true
}
