package majors

import (
	"io"
	"log"
	"testing"

	"futures-lab/internal/domain"
)

func bar(date, contract string, volume int64) domain.Bar {
	return domain.Bar{Date: date, Contract: contract, Product: "X", Close: 100, Volume: volume}
}

func selectMajors(t *testing.T, bars []domain.Bar) []domain.Bar {
	t.Helper()
	return NewSelector(log.New(io.Discard, "", 0)).Select(bars)
}

func TestFirstDayPicksHighestVolume(t *testing.T) {
	out := selectMajors(t, []domain.Bar{
		bar("2021-01-04", "X2101", 100),
		bar("2021-01-04", "X2102", 300),
		bar("2021-01-04", "X2103", 200),
	})
	if len(out) != 1 || out[0].Contract != "X2102" {
		t.Fatalf("first major = %+v, want X2102", out)
	}
}

func TestStickySelection(t *testing.T) {
	// X2101 leads day 1. On day 2 it still trades but X2102 trades more,
	// so the major switches. On day 3 X2101 briefly out-trades X2102 again,
	// switching back — stickiness only holds while nobody exceeds the major.
	out := selectMajors(t, []domain.Bar{
		bar("2021-01-04", "X2101", 300),
		bar("2021-01-04", "X2102", 100),
		bar("2021-01-05", "X2101", 200),
		bar("2021-01-05", "X2102", 250),
		bar("2021-01-06", "X2101", 260),
		bar("2021-01-06", "X2102", 240),
	})

	want := []string{"X2101", "X2102", "X2101"}
	if len(out) != len(want) {
		t.Fatalf("got %d rows, want %d", len(out), len(want))
	}
	for i, contract := range want {
		if out[i].Contract != contract {
			t.Errorf("day %d major = %s, want %s", i, out[i].Contract, contract)
		}
	}
}

func TestMajorStaysWhenEqualVolume(t *testing.T) {
	out := selectMajors(t, []domain.Bar{
		bar("2021-01-04", "X2101", 300),
		bar("2021-01-05", "X2101", 200),
		bar("2021-01-05", "X2102", 200), // equal, not greater: no switch
	})
	if out[1].Contract != "X2101" {
		t.Errorf("major switched on equal volume: %s", out[1].Contract)
	}
}

func TestExpiredMajorFallsBack(t *testing.T) {
	out := selectMajors(t, []domain.Bar{
		bar("2021-01-04", "X2101", 300),
		// X2101 has no row on day 2: expired/not traded.
		bar("2021-01-05", "X2102", 50),
		bar("2021-01-05", "X2103", 80),
	})
	if out[1].Contract != "X2103" {
		t.Errorf("fallback major = %s, want highest-volume X2103", out[1].Contract)
	}
}

func TestOneRowPerDate(t *testing.T) {
	out := selectMajors(t, []domain.Bar{
		bar("2021-01-04", "X2101", 100),
		bar("2021-01-04", "X2102", 90),
		bar("2021-01-05", "X2101", 100),
		bar("2021-01-05", "X2102", 90),
	})
	seen := make(map[string]bool)
	for _, row := range out {
		if seen[row.Date] {
			t.Fatalf("duplicate date %s in majors output", row.Date)
		}
		seen[row.Date] = true
	}
}

func TestEmptyInput(t *testing.T) {
	if out := selectMajors(t, nil); len(out) != 0 {
		t.Fatalf("empty input produced %d rows", len(out))
	}
}
