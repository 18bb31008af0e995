package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
)

// Contract identification errors.
var (
	ErrUnparseableSymbol = errors.New("unparseable contract symbol")
)

// Contract identifies a tradable instrument: product code plus a canonical
// expiry key derived from the symbol.
type Contract struct {
	Symbol    string // original symbol, e.g. "IF2109", "i2505"
	Product   string // alphabetic prefix, upper-cased, e.g. "IF", "I"
	ExpiryKey string // canonical YYYYMM, e.g. "202109"
}

// ParseContract splits a contract symbol into product code and expiry key.
// The product is the maximal leading run of alphabetic characters, normalized
// to upper case (one canonical case for all joins). The numeric remainder is
// the expiry token: 4 digits are read as YYMM, 3 digits as YMM. Two-digit year
// tails are normalized to 20YY; symbols from other centuries are out of scope.
func ParseContract(symbol string) (Contract, error) {
	s := strings.TrimSpace(symbol)
	i := 0
	for i < len(s) && isAlpha(rune(s[i])) {
		i++
	}
	if i == 0 {
		return Contract{}, fmt.Errorf("%w: %q has no alphabetic prefix", ErrUnparseableSymbol, symbol)
	}

	product := strings.ToUpper(s[:i])
	digits := s[i:]
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			return Contract{}, fmt.Errorf("%w: %q has non-numeric expiry token", ErrUnparseableSymbol, symbol)
		}
	}

	var year, month string
	switch {
	case len(digits) >= 4:
		// YYMM (a 4-digit token) or already YYYYMM invariant-length tokens.
		year, month = digits[:len(digits)-2], digits[len(digits)-2:]
	case len(digits) == 3:
		// Single-digit year tail plus month, e.g. "905" -> 2019-05 ambiguity is
		// resolved as year "9", month "05".
		year, month = digits[:1], digits[1:]
	default:
		return Contract{}, fmt.Errorf("%w: %q has no expiry token", ErrUnparseableSymbol, symbol)
	}

	switch len(year) {
	case 1:
		year = "200" + year
	case 2:
		year = "20" + year
	}

	return Contract{
		Symbol:    s,
		Product:   product,
		ExpiryKey: year + month,
	}, nil
}

// ExpiryMonth returns the numeric month of the contract's expiry key.
func (c Contract) ExpiryMonth() int {
	if len(c.ExpiryKey) != 6 {
		return 0
	}
	m := int(c.ExpiryKey[4]-'0')*10 + int(c.ExpiryKey[5]-'0')
	return m
}

// ExpiryDate approximates the contract's expiry as the last calendar day of
// its expiry month. True exchange last-trading-day rules are not modeled.
func (c Contract) ExpiryDate() (time.Time, error) {
	t, err := time.Parse("200601", c.ExpiryKey)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad expiry key %q", ErrUnparseableSymbol, c.ExpiryKey)
	}
	return t.AddDate(0, 1, -1), nil
}

// SortContracts orders contracts ascending by expiry key. Ties keep encounter
// order; identical keys are not expected within one product.
func SortContracts(contracts []Contract) {
	sort.SliceStable(contracts, func(i, j int) bool {
		return contracts[i].ExpiryKey < contracts[j].ExpiryKey
	})
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
