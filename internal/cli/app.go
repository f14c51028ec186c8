package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/valutatrade/internal/models"
	"github.com/dmitrijs2005/valutatrade/internal/parser"
	"github.com/dmitrijs2005/valutatrade/internal/services"
	"github.com/shopspring/decimal"
)

// Ledger is the service surface the shell drives.
type Ledger interface {
	BaseCurrency() string
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Logout(ctx context.Context)
	Status() *models.Session
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	PortfolioInfo(ctx context.Context, base string) (*services.PortfolioReport, error)
	Buy(ctx context.Context, code string, amount decimal.Decimal) (*services.TradeResult, error)
	Sell(ctx context.Context, code string, amount decimal.Decimal) (*services.TradeResult, error)
	GetExchangeRate(ctx context.Context, from, to string) (models.Quote, error)
	SupportedCurrencies() []string
	UpdateRates(ctx context.Context) (parser.UpdateResult, error)
}

type App struct {
	ledger Ledger
	input  *bufio.Scanner
	out    io.Writer
	render func(markdown string) (string, error)
}

// NewApp builds a shell reading prompts from in and writing to out. render
// turns markdown into terminal text; see NewMarkdownRenderer.
func NewApp(ledger Ledger, in io.Reader, out io.Writer, render func(string) (string, error)) *App {
	return &App{ledger: ledger, input: bufio.NewScanner(in), out: out, render: render}
}

func (a *App) isLoggedIn() bool {
	return a.ledger.Status() != nil
}

func (a *App) getStatus() string {
	if s := a.ledger.Status(); s != nil {
		return "(" + s.Username + ")"
	}
	return ""
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// Run starts the shell on the app's input and blocks until exit or EOF.
func (a *App) Run(ctx context.Context) {
	a.printf("ValutaTrade (type 'help' for commands)\n")
	runREPL(ctx, a, a.getStatus, a.input)
}
