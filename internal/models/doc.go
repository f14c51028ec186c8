// Package models defines the ledger's value types: users, single-currency
// wallets, portfolios, exchange-rate tables and sessions.
//
// Types are validated once, at construction or at the entry of a mutating
// method. A failing mutation leaves the value unchanged.
package models
