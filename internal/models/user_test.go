package models

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	now := time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC)

	u, err := NewUser(1, "  alice ", "1234", now)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Len(t, u.Salt, 16)
	assert.NotEqual(t, "1234", u.HashedPassword)
	assert.Equal(t, now, u.RegisteredAt)
	assert.True(t, u.VerifyPassword("1234"))
	assert.False(t, u.VerifyPassword("12345"))

	_, err = NewUser(2, "  ", "1234", now)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUser_ChangePassword(t *testing.T) {
	u, err := NewUser(1, "bob", "secret", time.Now())
	require.NoError(t, err)
	salt := u.Salt

	assert.ErrorIs(t, u.ChangePassword("abc", 4), common.ErrValidation)
	assert.True(t, u.VerifyPassword("secret"))

	require.NoError(t, u.ChangePassword("newpass", 4))
	assert.Equal(t, salt, u.Salt)
	assert.True(t, u.VerifyPassword("newpass"))
	assert.False(t, u.VerifyPassword("secret"))
}

func TestSession(t *testing.T) {
	now := time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC)
	u := &User{ID: 5, Username: "carol"}

	s := NewSession(u, now)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, int64(5), s.UserID)
	assert.Equal(t, now, s.LastActivity)

	s.Touch(now.Add(time.Minute))
	assert.Equal(t, now, s.LoginTime)
	assert.Equal(t, now.Add(time.Minute), s.LastActivity)
}
