package model

import "time"

// AuthSession is a login session bound to the session cookie. It is unrelated
// to StudySession.
type AuthSession struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
