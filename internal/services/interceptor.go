package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
)

// observe runs fn as the service operation op and logs its outcome with the
// elapsed time. Rejections caused by the caller (bad input, no session, not
// enough funds, unknown currency) log at warn level, everything else at error.
// Secrets must never be part of attrs.
func observe[T any](s *LedgerService, ctx context.Context, op string, attrs []any, fn func(ctx context.Context) (T, error)) (T, error) {
	log := s.log.With(append([]any{"op", op}, attrs...)...)
	if s.session != nil {
		log = log.With("user", s.session.Username)
	}

	start := time.Now()
	log.Debug(ctx, "call started")
	res, err := fn(ctx)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		log.Info(ctx, "call completed", "duration", elapsed)
	case isCallerError(err):
		log.Warn(ctx, "call rejected", "duration", elapsed, "error", err)
	default:
		log.Error(ctx, "call failed", "duration", elapsed, "error", err)
	}
	return res, err
}

func isCallerError(err error) bool {
	for _, target := range []error{
		common.ErrValidation,
		common.ErrorUnauthorized,
		common.ErrInsufficientFunds,
		common.ErrCurrencyNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
