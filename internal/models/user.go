package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/cryptox"
)

// User is a registered account. Salt is generated once in NewUser and never
// changes afterwards.
type User struct {
	ID             int64     `json:"user_id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"hashed_password"`
	Salt           string    `json:"salt"`
	RegisteredAt   time.Time `json:"registration_date"`
}

// NewUser validates the username, draws a salt and hashes password with it.
// Password policy (minimum length) is enforced by the caller, which owns the
// configuration.
func NewUser(id int64, username, password string, now time.Time) (*User, error) {
	name := strings.TrimSpace(username)
	if name == "" {
		return nil, common.NewValidationError("username", "must not be empty")
	}
	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return &User{
		ID:             id,
		Username:       name,
		HashedPassword: cryptox.HashPassword(password, salt),
		Salt:           salt,
		RegisteredAt:   now,
	}, nil
}

func (u *User) VerifyPassword(password string) bool {
	return cryptox.VerifyPassword(u.HashedPassword, password, u.Salt)
}

// ChangePassword re-hashes with the existing salt.
func (u *User) ChangePassword(password string, minLength int) error {
	if len(password) < minLength {
		return common.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minLength))
	}
	u.HashedPassword = cryptox.HashPassword(password, u.Salt)
	return nil
}

func (u *User) String() string {
	return fmt.Sprintf("ID: %d, username: %s, registered: %s", u.ID, u.Username, u.RegisteredAt.Format("2006-01-02 15:04"))
}
