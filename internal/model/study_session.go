package model

import "time"

// StudySession is one logged study interval owned by a single user.
type StudySession struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	Subject            string    `json:"subject"`
	StartedAt          time.Time `json:"started_at"`
	DurationHours      float64   `json:"duration_hours"`
	ProductivityRating int       `json:"productivity_rating"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
