package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/models"
	"github.com/dmitrijs2005/valutatrade/internal/netx"
	"github.com/shopspring/decimal"
)

// CoinGeckoName is the source recorded on pairs from CoinGecko.
const CoinGeckoName = "coingecko"

// CoinGecko queries the simple/price endpoint for the configured coins,
// quoted in the base currency.
type CoinGecko struct {
	client  *http.Client
	baseURL string
	ids     map[string]string
	base    string
	now     func() time.Time
}

// NewCoinGecko builds a provider for ids (currency code -> CoinGecko coin id).
func NewCoinGecko(client *http.Client, baseURL string, ids map[string]string, base string) *CoinGecko {
	return &CoinGecko{client: client, baseURL: baseURL, ids: ids, base: models.NormalizeCode(base), now: time.Now}
}

func (c *CoinGecko) Name() string { return CoinGeckoName }

func (c *CoinGecko) Fetch(ctx context.Context) (Snapshot, error) {
	codes := make([]string, 0, len(c.ids))
	for code := range c.ids {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	ids := make([]string, 0, len(codes))
	for _, code := range codes {
		ids = append(ids, c.ids[code])
	}
	vs := strings.ToLower(c.base)

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", vs)

	var payload any
	if err := netx.GetJSON(ctx, c.client, c.baseURL+"?"+q.Encode(), &payload); err != nil {
		return Snapshot{}, requestError(c.Name(), err)
	}

	snap := Snapshot{Source: c.Name(), FetchedAt: c.now(), Rates: map[string]decimal.Decimal{}}
	for _, code := range codes {
		rate, err := priceAt(payload, fmt.Sprintf("$[%q][%q]", c.ids[code], vs))
		if err != nil || !rate.IsPositive() {
			continue
		}
		snap.Rates[models.PairKey(code, c.base)] = rate
	}
	if len(snap.Rates) == 0 {
		return Snapshot{}, common.NewApiRequestError("%s: no rates in response", c.Name())
	}
	return snap, nil
}

// priceAt reads a single number at path. jsonpath may wrap a single answer in
// a list; the first element is used then.
func priceAt(payload any, path string) (decimal.Decimal, error) {
	v, err := jsonpath.Get(path, payload)
	if err != nil {
		return decimal.Zero, err
	}
	if list, ok := v.([]any); ok && len(list) > 0 {
		v = list[0]
	}
	f, ok := v.(float64)
	if !ok {
		return decimal.Zero, fmt.Errorf("%s: not a number: %v", path, v)
	}
	return decimal.NewFromFloat(f), nil
}
