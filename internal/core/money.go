// Package core provides the budget domain model shared by the projection
// engine and its collaborators.
//
// This file handles conversion between the upstream milliunit integer
// representation and the decimal major-unit representation the projection
// engine computes with.
package core

import "github.com/shopspring/decimal"

var milliunitsPerUnit = decimal.NewFromInt(1000)

// FromMilliunits converts an integer milliunit amount into a decimal
// major-unit amount. Upstream reports every money field (account balances,
// category balances, goal targets, scheduled transaction amounts) in
// milliunits; the engine works in major units throughout.
//
// Examples:
//
//	FromMilliunits(500000) -> 500
//	FromMilliunits(-12340) -> -12.34
func FromMilliunits(n int64) decimal.Decimal {
	return decimal.NewFromInt(n).Div(milliunitsPerUnit)
}

// SumBalances adds up the milliunit balances of the given accounts and
// returns the total in major units.
func SumBalances(accounts []Account) decimal.Decimal {
	var total int64
	for _, a := range accounts {
		total += a.Balance
	}
	return FromMilliunits(total)
}
