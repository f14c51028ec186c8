package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/config"
	"github.com/dmitrijs2005/valutatrade/internal/logging"
	"github.com/dmitrijs2005/valutatrade/internal/rates"
	"github.com/dmitrijs2005/valutatrade/internal/repositories/repomanager"
	"github.com/dmitrijs2005/valutatrade/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainRender(md string) (string, error) { return md, nil }

func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer) {
	t.Helper()
	stubTerminal(t, false, nil, nil)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DataDir = t.TempDir()

	repos, err := repomanager.New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	clock := func() time.Time { return time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC) }
	svc := services.NewLedgerService(cfg, repos, rates.NewResolver(cfg, rates.WithClock(clock)), nil, logging.NewNop())

	var out bytes.Buffer
	return NewApp(svc, strings.NewReader(input), &out, plainRender), &out
}

func TestApp_TradingSession(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "")

	require.NoError(t, app.Register(ctx, []string{"--username", "alice", "--password", "1234"}))
	assert.Contains(t, out.String(), "User 'alice' registered (id=1)")

	require.NoError(t, app.Login(ctx, []string{"alice", "1234"}))
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, "(alice)", app.getStatus())

	require.NoError(t, app.Buy(ctx, []string{"--currency", "USD", "--amount", "1000"}))
	require.NoError(t, app.Buy(ctx, []string{"--currency", "btc", "--amount", "0.01"}))
	assert.Contains(t, out.String(), "Purchase completed: 0.0100 BTC")

	out.Reset()
	require.NoError(t, app.ShowPortfolio(ctx, nil))
	report := out.String()
	assert.Contains(t, report, "# Portfolio of alice (base USD)")
	assert.Contains(t, report, "| BTC |")
	assert.Contains(t, report, "**Total:** $1,000.00")

	out.Reset()
	require.NoError(t, app.Sell(ctx, []string{"BTC", "0.01"}))
	assert.Contains(t, out.String(), "Sale completed: 0.0100 BTC")

	out.Reset()
	require.NoError(t, app.Logout(ctx, nil))
	assert.Equal(t, "Logged out.\n", out.String())
	assert.False(t, app.isLoggedIn())
}

func TestApp_PromptsForMissingCredentials(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "bob\nsecret\nsecret\n")

	require.NoError(t, app.Register(ctx, nil))
	assert.Contains(t, out.String(), "Username: ")
	assert.Contains(t, out.String(), "Password: ")

	require.NoError(t, app.Login(ctx, []string{"--username", "bob"}))
	assert.Contains(t, out.String(), "Logged in as 'bob'")
}

func TestApp_GetRate(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "")

	require.NoError(t, app.GetRate(ctx, []string{"--from", "BTC", "--to", "USD"}))
	assert.Contains(t, out.String(), "Rate BTC→USD: 59337.21 (source: default, updated 2025-10-09 12:00:00)")
	assert.Contains(t, out.String(), "Reverse rate USD→BTC: 0.00001685")

	out.Reset()
	require.NoError(t, app.GetRate(ctx, []string{"-f", "eur", "-t", "usd"}))
	assert.Contains(t, out.String(), "Rate EUR→USD: 1.0786")

	err := app.GetRate(ctx, []string{"XYZ", "USD"})
	assert.ErrorIs(t, err, common.ErrCurrencyNotFound)

	err = app.GetRate(ctx, []string{"--from", "BTC"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestApp_ArgumentErrors(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "")

	err := app.Buy(ctx, []string{"--amount", "1"})
	assert.ErrorIs(t, err, common.ErrValidation)

	err = app.Buy(ctx, []string{"--currency", "BTC", "--amount", "lots"})
	assert.ErrorIs(t, err, common.ErrValidation)

	err = app.Sell(ctx, []string{"--bogus"})
	assert.ErrorIs(t, err, common.ErrValidation)

	err = app.Buy(ctx, []string{"--currency", "BTC", "--amount", "1"})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	err = app.ChangePassword(ctx, []string{"--old", "a", "--new", "b"})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	out.Reset()
	require.NoError(t, app.Buy(ctx, []string{"-h"}))
	assert.Contains(t, out.String(), "-currency")
}

func TestApp_StatusAndCurrencies(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "")

	require.NoError(t, app.Status(ctx, nil))
	require.NoError(t, app.Logout(ctx, nil))
	require.NoError(t, app.Currencies(ctx, nil))

	assert.Contains(t, out.String(), "Not logged in.")
	assert.Contains(t, out.String(), "You are not logged in.")
	assert.Contains(t, out.String(), "Supported currencies: USD, EUR, BTC, ETH, RUB")
	assert.Contains(t, out.String(), "Base currency: USD")
}

func TestApp_ChangePassword(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "")

	require.NoError(t, app.Register(ctx, []string{"carol", "1234"}))
	require.NoError(t, app.Login(ctx, []string{"carol", "1234"}))
	require.NoError(t, app.ChangePassword(ctx, []string{"--old", "1234", "--new", "5678"}))
	assert.Contains(t, out.String(), "Password changed.")

	app.ledger.Logout(ctx)
	err := app.Login(ctx, []string{"carol", "1234"})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	require.NoError(t, app.Login(ctx, []string{"carol", "5678"}))
}

func TestApp_UpdateRatesWithoutUpdater(t *testing.T) {
	app, _ := newTestApp(t, "")

	err := app.UpdateRates(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestApp_RunReadsCommandsAndPrompts(t *testing.T) {
	captureOutput(t)
	app, out := newTestApp(t, strings.Join([]string{
		"register",
		"dave",
		"1234",
		"login dave 1234",
		"status",
		"exit",
	}, "\n"))

	app.Run(context.Background())

	assert.Contains(t, out.String(), "User 'dave' registered")
	assert.Contains(t, out.String(), "Logged in as 'dave' (id=1)")
}

func TestNewMarkdownRenderer(t *testing.T) {
	render, err := NewMarkdownRenderer(false, 80)
	require.NoError(t, err)

	got, err := render("# Portfolio of alice (base USD)\n\n**Total:** $1,000.00\n")
	require.NoError(t, err)
	assert.Contains(t, got, "Portfolio of alice")
	assert.Contains(t, got, "$1,000.00")
}
