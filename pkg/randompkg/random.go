// Package randompkg provides functionality gor generating random applications common items.
package randompkg

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// Float64 is a shortcut for generating a random float between 0 and 1 using crypto/rand.
func Float64() float64 {
	return float64(Intn(1<<32)) / (1 << 32)
}

// IntBetween generates a random integer between min and max.
func IntBetween(min, max int) int32 {
	return int32(Intn(max+min)) - int32(min)
}

// FloatBetween generates a random decimal number between min and max rounded to 4 decimals.
func FloatBetween(min, max float64) float64 {
	numInRange := min + Float64()*(max-min)
	return math.Floor(numInRange*10_000) / 10_000
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// UserID generates a random user id.
func UserID() string {
	return fmt.Sprintf("user-%s", String(8))
}

// IdempotencyKey generates a random idempotency key.
func IdempotencyKey() string {
	return String(24)
}

// VerificationCode generates a random 6-digit verification code.
func VerificationCode() string {
	return fmt.Sprintf("%06d", Intn(1_000_000))
}

// CentsBetween generates a random amount of cents between min and max.
func CentsBetween(min, max int64) int64 {
	return min + Intn(int(max-min))
}

// MoneyBetween generates random Money of the given currency between min and max cents.
func MoneyBetween(min, max int64, currency moneypkg.Currency) moneypkg.Money {
	m, err := moneypkg.New(CentsBetween(min, max), currency)
	if err != nil {
		panic(err)
	}

	return m
}

// Currency generates a random supported currency code.
func Currency() moneypkg.Currency {
	return moneypkg.SupportedCurrencies[Intn(len(moneypkg.SupportedCurrencies))]
}
