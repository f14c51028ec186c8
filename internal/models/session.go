package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the authenticated state of the current process.
type Session struct {
	ID           string
	UserID       int64
	Username     string
	LoginTime    time.Time
	LastActivity time.Time
}

func NewSession(u *User, now time.Time) *Session {
	return &Session{
		ID:           uuid.NewString(),
		UserID:       u.ID,
		Username:     u.Username,
		LoginTime:    now,
		LastActivity: now,
	}
}

func (s *Session) Touch(now time.Time) {
	s.LastActivity = now
}
