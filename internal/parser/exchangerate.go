package parser

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/models"
	"github.com/dmitrijs2005/valutatrade/internal/netx"
	"github.com/shopspring/decimal"
)

// ExchangeRateAPIName is the source recorded on pairs from ExchangeRate-API.
const ExchangeRateAPIName = "exchangerate-api"

// reversePrecision is the number of decimals kept for derived reverse pairs.
const reversePrecision = 12

// ExchangeRateAPI queries latest/<base> and stores both BASE_X and X_BASE.
type ExchangeRateAPI struct {
	client  *http.Client
	baseURL string
	apiKey  string
	base    string
	now     func() time.Time
}

func NewExchangeRateAPI(client *http.Client, baseURL, apiKey, base string) *ExchangeRateAPI {
	return &ExchangeRateAPI{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		base:    models.NormalizeCode(base),
		now:     time.Now,
	}
}

func (e *ExchangeRateAPI) Name() string { return ExchangeRateAPIName }

type latestResponse struct {
	Result          string                     `json:"result"`
	ErrorType       string                     `json:"error-type"`
	BaseCode        string                     `json:"base_code"`
	ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
}

func (e *ExchangeRateAPI) Fetch(ctx context.Context) (Snapshot, error) {
	if e.apiKey == "" {
		return Snapshot{}, common.NewApiRequestError("%s: api key is not set", e.Name())
	}

	var resp latestResponse
	addr := fmt.Sprintf("%s/%s/latest/%s", e.baseURL, e.apiKey, e.base)
	if err := netx.GetJSON(ctx, e.client, addr, &resp); err != nil {
		return Snapshot{}, requestError(e.Name(), err)
	}
	if resp.Result != "success" {
		reason := resp.ErrorType
		if reason == "" {
			reason = "unknown"
		}
		return Snapshot{}, common.NewApiRequestError("%s: %s", e.Name(), reason)
	}

	snap := Snapshot{Source: e.Name(), FetchedAt: e.now(), Rates: map[string]decimal.Decimal{}}
	one := decimal.NewFromInt(1)
	for code, rate := range resp.ConversionRates {
		code = models.NormalizeCode(code)
		if code == e.base || !rate.IsPositive() {
			continue
		}
		snap.Rates[models.PairKey(e.base, code)] = rate
		snap.Rates[models.PairKey(code, e.base)] = one.DivRound(rate, reversePrecision)
	}
	if len(snap.Rates) == 0 {
		return Snapshot{}, common.NewApiRequestError("%s: no rates in response", e.Name())
	}
	return snap, nil
}
