package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface runREPL dispatches to. Handlers receive
// the tokens after the command name.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	ShowPortfolio(ctx context.Context, args []string) error
	Buy(ctx context.Context, args []string) error
	Sell(ctx context.Context, args []string) error
	GetRate(ctx context.Context, args []string) error
	UpdateRates(ctx context.Context, args []string) error
	Currencies(ctx context.Context, args []string) error
	ChangePassword(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: register, login, get-rate, currencies, update-rates, help, exit"
	helpSession   = "Available commands: show-portfolio, buy, sell, get-rate, currencies, update-rates, status, change-password, logout, help, exit"
)

// runREPL reads one command per line from scanner and dispatches it to a.
// Handler errors are printed as a single friendly line and the loop goes on.
// The loop exits on scanner EOF, on "exit"/"quit", or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("vt%s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSession)
			} else {
				printlnFn(helpAnonymous)
			}
			printlnFn("Use '<command> -h' for the flags of a command.")

		case "register":
			err = a.Register(ctx, args)

		case "login":
			err = a.Login(ctx, args)

		case "logout":
			err = a.Logout(ctx, args)

		case "status", "whoami":
			err = a.Status(ctx, args)

		case "show-portfolio", "portfolio":
			err = a.ShowPortfolio(ctx, args)

		case "buy":
			err = a.Buy(ctx, args)

		case "sell":
			err = a.Sell(ctx, args)

		case "get-rate", "rate":
			err = a.GetRate(ctx, args)

		case "update-rates":
			err = a.UpdateRates(ctx, args)

		case "currencies":
			err = a.Currencies(ctx, args)

		case "change-password":
			err = a.ChangePassword(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn(describeError(err))
		}
	}
}
