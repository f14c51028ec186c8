// Command valutatrade is the interactive multi-currency ledger shell.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/valutatrade/internal/cli"
	"github.com/dmitrijs2005/valutatrade/internal/config"
	"github.com/dmitrijs2005/valutatrade/internal/logging"
	"github.com/dmitrijs2005/valutatrade/internal/parser"
	"github.com/dmitrijs2005/valutatrade/internal/rates"
	"github.com/dmitrijs2005/valutatrade/internal/repositories/repomanager"
	"github.com/dmitrijs2005/valutatrade/internal/services"
	"golang.org/x/term"
)

const reportWidth = 100

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func run() error {
	cfg, err := config.LoadConfig(os.Args[1:], os.Getenv)
	if err != nil {
		return err
	}

	logger, logFile, err := logging.OpenFile(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	initSignalHandler(cancel)

	repos, err := repomanager.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("storage init error: %w", err)
	}
	defer repos.Close()

	updater := parser.NewUpdater(parser.DefaultProviders(cfg), repos, cfg.HistoryLimit, logger)
	svc := services.NewLedgerService(cfg, repos, rates.NewResolver(cfg), updater, logger)

	if cfg.RefreshInterval > 0 {
		go updater.Run(ctx, cfg.RefreshInterval)
	}

	render, err := cli.NewMarkdownRenderer(term.IsTerminal(int(os.Stdout.Fd())), reportWidth)
	if err != nil {
		return fmt.Errorf("renderer init error: %w", err)
	}

	logger.Info(ctx, "starting", "storage", cfg.Storage, "data_dir", cfg.DataDir)
	app := cli.NewApp(svc, os.Stdin, os.Stdout, render)

	// The REPL blocks on stdin; a signal ends the process without waiting for it.
	done := make(chan struct{})
	go func() {
		defer close(done)
		app.Run(ctx)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		fmt.Println()
		fmt.Println("Bye!")
	}
	logger.Info(ctx, "stopped")
	return nil
}
