package study

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/studytracker/internal/model"
	"github.com/dukerupert/studytracker/internal/validate"
)

// FormTimeLayout matches the value of an <input type="datetime-local">.
const FormTimeLayout = "2006-01-02T15:04"

// Input holds the caller-editable fields of a study session. The owner is
// never part of it.
type Input struct {
	Subject   string    `form:"subject" validate:"required,max=100"`
	Timestamp time.Time `form:"date_time" validate:"required"`
	Duration  float64   `form:"duration" validate:"gt=0"`
	Rating    int       `form:"productivity_rating" validate:"gte=1,lte=5"`
}

func (Input) FieldMessages() map[string]string {
	return map[string]string{
		"productivity_rating.gte": "Select a rating between 1 and 5.",
		"productivity_rating.lte": "Select a rating between 1 and 5.",
	}
}

// ParseForm builds an Input from submitted form values. Timestamps are read
// in loc. Values that cannot be parsed are reported through *validate.Error
// alongside the regular validation rules.
func ParseForm(values url.Values, loc *time.Location) (Input, error) {
	in := Input{Subject: strings.TrimSpace(values.Get("subject"))}
	parseErr := &validate.Error{}

	if raw := strings.TrimSpace(values.Get("date_time")); raw != "" {
		ts, err := parseTimestamp(raw, loc)
		if err != nil {
			parseErr.Add("date_time", "Enter a valid date/time.")
		} else {
			in.Timestamp = ts
		}
	}

	if raw := strings.TrimSpace(values.Get("duration")); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(d) || math.IsInf(d, 0) {
			parseErr.Add("duration", "Enter a number.")
		} else {
			in.Duration = d
		}
	}

	if raw := strings.TrimSpace(values.Get("productivity_rating")); raw != "" {
		r, err := strconv.Atoi(raw)
		if err != nil {
			parseErr.Add("productivity_rating", "Select a rating between 1 and 5.")
		} else {
			in.Rating = r
		}
	}

	if err := validate.Struct(in); err != nil {
		verr, ok := err.(*validate.Error)
		if !ok {
			return in, err
		}
		for field, msg := range verr.Fields {
			parseErr.Add(field, msg)
		}
	}
	if !parseErr.Empty() {
		return in, parseErr
	}
	return in, nil
}

func parseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{FormTimeLayout, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, nil
		}
	}
	return time.Parse(time.RFC3339, raw)
}

// FormValues renders a stored session back into form values for editing.
func FormValues(s *model.StudySession, loc *time.Location) url.Values {
	return url.Values{
		"subject":             {s.Subject},
		"date_time":           {s.StartedAt.In(loc).Format(FormTimeLayout)},
		"duration":            {strconv.FormatFloat(s.DurationHours, 'f', -1, 64)},
		"productivity_rating": {strconv.Itoa(s.ProductivityRating)},
	}
}
