// Package moneypkg provides a currency-tagged fixed-point money type.
package moneypkg

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates a negative or malformed amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrCurrencyMismatch indicates arithmetic across different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrInsufficientFunds indicates a subtraction that would go negative.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUnsupportedCurrency indicates a currency outside the supported set.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// Currency is a supported currency code.
type Currency string

// Constants for all supported currencies.
const (
	USD Currency = "USD"
	KES Currency = "KES"
)

// SupportedCurrencies holds all the supported currencies.
var SupportedCurrencies = []Currency{
	USD,
	KES,
}

var symbols = map[Currency]string{
	USD: "$",
	KES: "KSh",
}

// Symbol returns the display symbol of the currency.
func (c Currency) Symbol() string {
	return symbols[c]
}

// IsSupportedCurrency returns true if the currency is supported.
func IsSupportedCurrency(currency string) bool {
	for _, c := range SupportedCurrencies {
		if string(c) == currency {
			return true
		}
	}

	return false
}

// ValidCurrency validates a currency binding field against the supported set.
var ValidCurrency validator.Func = func(fl validator.FieldLevel) bool {
	if currency, ok := fl.Field().Interface().(string); ok {
		return IsSupportedCurrency(currency)
	}

	return false
}

// Money holds a non-negative amount of minor units of one currency.
//
// All arithmetic is integer cents; values are copied, never shared.
type Money struct {
	Cents    int64    `json:"cents"`
	Currency Currency `json:"currency"`
}

// New returns Money worth the given cents of the given currency.
func New(cents int64, currency Currency) (Money, error) {
	if cents < 0 {
		return Money{}, ErrInvalidAmount
	}

	if !IsSupportedCurrency(string(currency)) {
		return Money{}, ErrUnsupportedCurrency
	}

	return Money{Cents: cents, Currency: currency}, nil
}

// ParseDecimal converts a decimal amount string into Money,
// rounding half-up at 2 decimal places.
//
// This is the only place non-integer input is tolerated.
func ParseDecimal(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}

	if d.IsNegative() {
		return Money{}, ErrInvalidAmount
	}

	return New(d.Shift(2).Round(0).IntPart(), currency)
}

// Add returns the sum of two same-currency Moneys.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}

	return Money{Cents: m.Cents + other.Cents, Currency: m.Currency}, nil
}

// Subtract returns the difference of two same-currency Moneys.
func (m Money) Subtract(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}

	if m.Cents < other.Cents {
		return Money{}, ErrInsufficientFunds
	}

	return Money{Cents: m.Cents - other.Cents, Currency: m.Currency}, nil
}

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.Cents > 0
}

// String renders the amount with the currency symbol, e.g. "KSh 500.00".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency.Symbol(), decimal.New(m.Cents, -2).StringFixed(2))
}
