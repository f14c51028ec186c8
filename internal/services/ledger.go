// Package services holds the ledger's business logic: accounts, sessions,
// buying and selling currency against the base currency, and rate lookups.
//
// LedgerService serves one user per process. Every operation that changes a
// portfolio loads it, mutates the loaded copy and writes it back inside one
// unit of work, so a failure never leaves a partial update behind.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/config"
	"github.com/dmitrijs2005/valutatrade/internal/logging"
	"github.com/dmitrijs2005/valutatrade/internal/models"
	"github.com/dmitrijs2005/valutatrade/internal/parser"
	"github.com/dmitrijs2005/valutatrade/internal/rates"
	"github.com/dmitrijs2005/valutatrade/internal/repositories/repomanager"
)

// RateUpdater refreshes the stored rate table.
type RateUpdater interface {
	RunUpdate(ctx context.Context) (parser.UpdateResult, error)
}

type LedgerService struct {
	repos    repomanager.RepositoryManager
	resolver *rates.Resolver
	updater  RateUpdater
	log      logging.Logger

	base           string
	minPasswordLen int
	supported      []string

	now     func() time.Time
	session *models.Session
}

// NewLedgerService wires the service. updater may be nil, in which case
// UpdateRates reports a configuration error.
func NewLedgerService(cfg *config.Config, repos repomanager.RepositoryManager, resolver *rates.Resolver, updater RateUpdater, log logging.Logger) *LedgerService {
	return &LedgerService{
		repos:          repos,
		resolver:       resolver,
		updater:        updater,
		log:            log,
		base:           cfg.DefaultBaseCurrency,
		minPasswordLen: cfg.PasswordMinLength,
		supported:      cfg.SupportedCurrencies,
		now:            time.Now,
	}
}

// BaseCurrency is the currency trades settle in.
func (s *LedgerService) BaseCurrency() string { return s.base }

// Register creates a user and an empty portfolio in one unit of work. It
// does not log the user in.
func (s *LedgerService) Register(ctx context.Context, username, password string) (*models.User, error) {
	return observe(s, ctx, "register", []any{"username", username}, func(ctx context.Context) (*models.User, error) {
		if len(password) < s.minPasswordLen {
			return nil, common.NewValidationError("password", fmt.Sprintf("must be at least %d characters", s.minPasswordLen))
		}

		var user *models.User
		err := s.repos.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
			u, err := models.NewUser(0, username, password, s.now())
			if err != nil {
				return err
			}
			taken, err := r.Users.Exists(ctx, u.Username)
			if err != nil {
				return err
			}
			if taken {
				return common.NewValidationError("username", fmt.Sprintf("%q is already taken", u.Username))
			}
			if u.ID, err = r.Users.NextID(ctx); err != nil {
				return err
			}
			if err := r.Users.Save(ctx, u); err != nil {
				return err
			}
			if err := r.Portfolios.Save(ctx, models.NewPortfolio(u.ID)); err != nil {
				return err
			}
			user = u
			return nil
		})
		if err != nil {
			return nil, err
		}
		return user, nil
	})
}

// Login replaces any current session with a new one for username.
func (s *LedgerService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	username = strings.TrimSpace(username)
	return observe(s, ctx, "login", []any{"username", username}, func(ctx context.Context) (*models.Session, error) {
		u, err := s.repos.Repositories().Users.GetByUsername(ctx, username)
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewAuthenticationError(fmt.Sprintf("user %q not found", username))
		}
		if err != nil {
			return nil, err
		}
		if !u.VerifyPassword(password) {
			return nil, common.NewAuthenticationError("wrong password")
		}
		s.session = models.NewSession(u, s.now())
		return s.session, nil
	})
}

// Logout drops the session; it is a no-op when nobody is logged in.
func (s *LedgerService) Logout(ctx context.Context) {
	if s.session != nil {
		s.log.Info(ctx, "logout", "username", s.session.Username)
	}
	s.session = nil
}

// Status returns the current session, or nil when anonymous.
func (s *LedgerService) Status() *models.Session {
	return s.session
}

// requireSession fails with an AuthenticationError when nobody is logged in
// and marks activity otherwise.
func (s *LedgerService) requireSession() (*models.Session, error) {
	if s.session == nil {
		return nil, common.NewAuthenticationError("log in first")
	}
	s.session.Touch(s.now())
	return s.session, nil
}

// ChangePassword re-hashes the current user's password after checking the
// old one.
func (s *LedgerService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	_, err := observe(s, ctx, "change_password", nil, func(ctx context.Context) (struct{}, error) {
		sess, err := s.requireSession()
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, s.repos.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
			u, err := r.Users.GetByID(ctx, sess.UserID)
			if err != nil {
				return err
			}
			if !u.VerifyPassword(oldPassword) {
				return common.NewAuthenticationError("wrong password")
			}
			if err := u.ChangePassword(newPassword, s.minPasswordLen); err != nil {
				return err
			}
			return r.Users.Save(ctx, u)
		})
	})
	return err
}
