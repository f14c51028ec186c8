// Package cli provides the interactive ValutaTrade shell.
//
// App wraps a ledger service and renders its results; runREPL reads one
// command per line, each with its own flags, e.g.
//
//	register --username alice --password 1234
//	buy --currency BTC --amount 0.01
//	show-portfolio --base EUR
//	get-rate --from BTC --to USD
//
// Passwords left off the command line are read from the terminal without
// echo. Portfolio reports are markdown rendered for the terminal.
package cli
