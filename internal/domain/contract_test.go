package domain

import (
	"errors"
	"testing"
)

func TestParseContract(t *testing.T) {
	tests := []struct {
		symbol    string
		product   string
		expiryKey string
	}{
		{"IF2109", "IF", "202109"},
		{"i2505", "I", "202505"},
		{"cu2203", "CU", "202203"},
		{"MA2401", "MA", "202401"},
		{"TA905", "TA", "200905"},
		{" rb2210 ", "RB", "202210"},
	}

	for _, tt := range tests {
		c, err := ParseContract(tt.symbol)
		if err != nil {
			t.Fatalf("ParseContract(%q) failed: %v", tt.symbol, err)
		}
		if c.Product != tt.product {
			t.Errorf("ParseContract(%q) product = %q, want %q", tt.symbol, c.Product, tt.product)
		}
		if c.ExpiryKey != tt.expiryKey {
			t.Errorf("ParseContract(%q) expiry = %q, want %q", tt.symbol, c.ExpiryKey, tt.expiryKey)
		}
	}
}

func TestParseContractErrors(t *testing.T) {
	for _, symbol := range []string{"", "2109", "IF", "IF21x9", "IF21"} {
		if _, err := ParseContract(symbol); !errors.Is(err, ErrUnparseableSymbol) {
			t.Errorf("ParseContract(%q) = %v, want ErrUnparseableSymbol", symbol, err)
		}
	}
}

func TestSortContracts(t *testing.T) {
	contracts := []Contract{
		{Symbol: "X2203", ExpiryKey: "202203"},
		{Symbol: "X2101", ExpiryKey: "202101"},
		{Symbol: "X2112", ExpiryKey: "202112"},
	}
	SortContracts(contracts)

	want := []string{"X2101", "X2112", "X2203"}
	for i, symbol := range want {
		if contracts[i].Symbol != symbol {
			t.Fatalf("sorted[%d] = %q, want %q", i, contracts[i].Symbol, symbol)
		}
	}
}

func TestExpiryDate(t *testing.T) {
	c, err := ParseContract("IF2112")
	if err != nil {
		t.Fatalf("ParseContract failed: %v", err)
	}
	expiry, err := c.ExpiryDate()
	if err != nil {
		t.Fatalf("ExpiryDate failed: %v", err)
	}
	if got := expiry.Format("2006-01-02"); got != "2021-12-31" {
		t.Errorf("expiry = %s, want 2021-12-31", got)
	}

	c, _ = ParseContract("IF2102")
	expiry, _ = c.ExpiryDate()
	if got := expiry.Format("2006-01-02"); got != "2021-02-28" {
		t.Errorf("expiry = %s, want 2021-02-28", got)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"20210915", "2021-09-15"},
		{"2021-09-15", "2021-09-15"},
		{"2021/09/15", "2021-09-15"},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.raw)
		if err != nil {
			t.Fatalf("ParseDate(%q) failed: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("ParseDate(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}

	if _, err := ParseDate("not-a-date"); !errors.Is(err, ErrUnparseableDate) {
		t.Errorf("ParseDate(not-a-date) = %v, want ErrUnparseableDate", err)
	}
}
