// Package parser pulls exchange rates from remote providers, merges them
// into one table and stores it.
package parser

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/netx"
	"github.com/shopspring/decimal"
)

// Snapshot is what one provider returned. Rates are keyed FROM_TO.
type Snapshot struct {
	Source    string
	FetchedAt time.Time
	Rates     map[string]decimal.Decimal
}

// Provider fetches rates from one remote source. Every failure, including an
// empty result, is reported as a *common.ApiRequestError.
type Provider interface {
	Name() string
	Fetch(ctx context.Context) (Snapshot, error)
}

// requestError turns a transport, status or decode failure into an
// ApiRequestError naming the provider.
func requestError(provider string, err error) error {
	var se *netx.StatusError
	switch {
	case errors.As(err, &se):
		return common.NewApiRequestError("%s: http status %d", provider, se.Code)
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return common.NewApiRequestError("%s: request timed out", provider)
	default:
		return common.NewApiRequestError("%s: %v", provider, err)
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
