package cli

import (
	"context"
	"errors"
	"flag"
	"strings"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/rates"
	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02 15:04:05"

// parseArgs parses the flags of one command. Positional tokens left over are
// returned for the commands that accept them. ok is false when the user only
// asked for -h.
func (a *App) parseArgs(name string, args []string, define func(fs *flag.FlagSet)) (rest []string, ok bool, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	define(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, false, nil
		}
		return nil, false, common.NewValidationError("arguments", err.Error())
	}
	return fs.Args(), true, nil
}

// argOr returns v, or the i-th positional token when v is empty.
func argOr(v string, rest []string, i int) string {
	if v == "" && i < len(rest) {
		return rest[i]
	}
	return v
}

func (a *App) promptIfEmpty(v, prompt string) (string, error) {
	if v != "" {
		return v, nil
	}
	return GetSimpleText(a.input, prompt, a.out)
}

func (a *App) passwordIfEmpty(v, prompt string) (string, error) {
	if v != "" {
		return v, nil
	}
	return GetPassword(a.input, prompt, a.out)
}

func parseAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, common.NewValidationError("amount", "is required")
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, common.NewValidationError("amount", "not a number: "+s)
	}
	return d, nil
}

func (a *App) credentials(name string, args []string) (username, password string, ok bool, err error) {
	rest, ok, err := a.parseArgs(name, args, func(fs *flag.FlagSet) {
		fs.StringVar(&username, "username", "", "user name")
		fs.StringVar(&username, "u", "", "shorthand for -username")
		fs.StringVar(&password, "password", "", "password (prompted when omitted)")
		fs.StringVar(&password, "p", "", "shorthand for -password")
	})
	if !ok || err != nil {
		return "", "", ok, err
	}
	username = argOr(username, rest, 0)
	password = argOr(password, rest, 1)
	if username, err = a.promptIfEmpty(username, "Username"); err != nil {
		return "", "", false, err
	}
	if password, err = a.passwordIfEmpty(password, "Password"); err != nil {
		return "", "", false, err
	}
	return username, password, true, nil
}

func (a *App) Register(ctx context.Context, args []string) error {
	username, password, ok, err := a.credentials("register", args)
	if !ok || err != nil {
		return err
	}
	u, err := a.ledger.Register(ctx, username, password)
	if err != nil {
		return err
	}
	a.printf("User '%s' registered (id=%d). Log in with: login --username %s\n", u.Username, u.ID, u.Username)
	return nil
}

func (a *App) Login(ctx context.Context, args []string) error {
	username, password, ok, err := a.credentials("login", args)
	if !ok || err != nil {
		return err
	}
	s, err := a.ledger.Login(ctx, username, password)
	if err != nil {
		return err
	}
	a.printf("Logged in as '%s'\n", s.Username)
	return nil
}

func (a *App) Logout(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		a.printf("You are not logged in.\n")
		return nil
	}
	a.ledger.Logout(ctx)
	a.printf("Logged out.\n")
	return nil
}

func (a *App) Status(ctx context.Context, args []string) error {
	s := a.ledger.Status()
	if s == nil {
		a.printf("Not logged in.\n")
		return nil
	}
	a.printf("Logged in as '%s' (id=%d) since %s, last activity %s\n",
		s.Username, s.UserID, s.LoginTime.Format(timeLayout), s.LastActivity.Format(timeLayout))
	return nil
}

func (a *App) ShowPortfolio(ctx context.Context, args []string) error {
	var base string
	rest, ok, err := a.parseArgs("show-portfolio", args, func(fs *flag.FlagSet) {
		fs.StringVar(&base, "base", "", "valuation currency (defaults to "+a.ledger.BaseCurrency()+")")
		fs.StringVar(&base, "b", "", "shorthand for -base")
	})
	if !ok || err != nil {
		return err
	}
	report, err := a.ledger.PortfolioInfo(ctx, argOr(base, rest, 0))
	if err != nil {
		return err
	}
	md := report.Markdown()
	out, err := a.render(md)
	if err != nil {
		// Raw markdown is still readable.
		out = md
	}
	a.printf("%s\n", strings.TrimRight(out, "\n"))
	return nil
}

func (a *App) tradeArgs(name string, args []string) (code string, amount decimal.Decimal, ok bool, err error) {
	var amountStr string
	rest, ok, err := a.parseArgs(name, args, func(fs *flag.FlagSet) {
		fs.StringVar(&code, "currency", "", "currency code, e.g. BTC")
		fs.StringVar(&code, "c", "", "shorthand for -currency")
		fs.StringVar(&amountStr, "amount", "", "amount to trade, e.g. 0.01")
		fs.StringVar(&amountStr, "a", "", "shorthand for -amount")
	})
	if !ok || err != nil {
		return "", decimal.Zero, ok, err
	}
	code = argOr(code, rest, 0)
	if code == "" {
		return "", decimal.Zero, false, common.NewValidationError("currency", "is required")
	}
	amount, err = parseAmount(argOr(amountStr, rest, 1))
	if err != nil {
		return "", decimal.Zero, false, err
	}
	return code, amount, true, nil
}

func (a *App) Buy(ctx context.Context, args []string) error {
	code, amount, ok, err := a.tradeArgs("buy", args)
	if !ok || err != nil {
		return err
	}
	res, err := a.ledger.Buy(ctx, code, amount)
	if err != nil {
		return err
	}
	a.printf("%s\n", res.Message)
	a.printf("Rate: %s %s per %s, new balance: %s\n",
		rates.FormatRate(res.Rate), res.Base, res.Currency, rates.Format(res.NewBalance, res.Currency))
	return nil
}

func (a *App) Sell(ctx context.Context, args []string) error {
	code, amount, ok, err := a.tradeArgs("sell", args)
	if !ok || err != nil {
		return err
	}
	res, err := a.ledger.Sell(ctx, code, amount)
	if err != nil {
		return err
	}
	a.printf("%s\n", res.Message)
	a.printf("Rate: %s %s per %s, new balance: %s\n",
		rates.FormatRate(res.Rate), res.Base, res.Currency, rates.Format(res.NewBalance, res.Currency))
	return nil
}

func (a *App) GetRate(ctx context.Context, args []string) error {
	var from, to string
	rest, ok, err := a.parseArgs("get-rate", args, func(fs *flag.FlagSet) {
		fs.StringVar(&from, "from", "", "source currency")
		fs.StringVar(&from, "f", "", "shorthand for -from")
		fs.StringVar(&to, "to", "", "target currency")
		fs.StringVar(&to, "t", "", "shorthand for -to")
	})
	if !ok || err != nil {
		return err
	}
	from, to = argOr(from, rest, 0), argOr(to, rest, 1)
	if from == "" || to == "" {
		return common.NewValidationError("arguments", "usage: get-rate --from CODE --to CODE")
	}
	q, err := a.ledger.GetExchangeRate(ctx, from, to)
	if err != nil {
		return err
	}
	a.printf("Rate %s→%s: %s (%s)\n", q.From, q.To, rates.FormatRate(q.Rate), describeSource(q.Source, q.Provider, q.UpdatedAt))
	inv := q.Inverse()
	a.printf("Reverse rate %s→%s: %s\n", inv.From, inv.To, rates.FormatRate(inv.Rate))
	return nil
}

func describeSource(source, provider string, updated time.Time) string {
	var b strings.Builder
	b.WriteString("source: ")
	b.WriteString(source)
	if provider != "" && provider != source {
		b.WriteString(" via " + provider)
	}
	if !updated.IsZero() {
		b.WriteString(", updated " + updated.UTC().Format(timeLayout))
	}
	return b.String()
}

func (a *App) UpdateRates(ctx context.Context, args []string) error {
	res, err := a.ledger.UpdateRates(ctx)
	for _, pe := range res.Errors {
		a.printf("  %s failed: %s\n", pe.Provider, describeError(pe.Err))
	}
	if err != nil {
		return err
	}
	a.printf("Rates updated: %d pairs at %s\n", res.PairsCount, res.Timestamp.UTC().Format(timeLayout))
	return nil
}

func (a *App) Currencies(ctx context.Context, args []string) error {
	a.printf("Supported currencies: %s\n", strings.Join(a.ledger.SupportedCurrencies(), ", "))
	a.printf("Base currency: %s\n", a.ledger.BaseCurrency())
	return nil
}

func (a *App) ChangePassword(ctx context.Context, args []string) error {
	var oldPw, newPw string
	_, ok, err := a.parseArgs("change-password", args, func(fs *flag.FlagSet) {
		fs.StringVar(&oldPw, "old", "", "current password (prompted when omitted)")
		fs.StringVar(&newPw, "new", "", "new password (prompted when omitted)")
	})
	if !ok || err != nil {
		return err
	}
	if !a.isLoggedIn() {
		return common.NewAuthenticationError("log in first")
	}
	if oldPw, err = a.passwordIfEmpty(oldPw, "Current password"); err != nil {
		return err
	}
	if newPw, err = a.passwordIfEmpty(newPw, "New password"); err != nil {
		return err
	}
	if err := a.ledger.ChangePassword(ctx, oldPw, newPw); err != nil {
		return err
	}
	a.printf("Password changed.\n")
	return nil
}
