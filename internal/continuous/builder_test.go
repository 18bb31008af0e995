package continuous

import (
	"io"
	"log"
	"testing"

	"futures-lab/internal/domain"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// bar builds a test bar with flat OHLC at price.
func bar(date, contract string, price float64, volume, oi int64) domain.Bar {
	return domain.Bar{
		Date: date, Contract: contract, Product: "X",
		Open: price, High: price, Low: price, Close: price,
		Volume: volume, OpenInterest: oi,
	}
}

func dates(series []domain.Bar) []string {
	out := make([]string, len(series))
	for i := range series {
		out[i] = series[i].Date
	}
	return out
}

func TestVolumeRollPoint(t *testing.T) {
	// X2101: volume 100 on day1, 80 on day2. X2102: 50 on day1, 120 on day2.
	// The roll must happen exactly on day2, the first day the next contract's
	// volume exceeds the current contract's.
	bars := []domain.Bar{
		bar("2021-01-04", "X2101", 100, 100, 0),
		bar("2021-01-05", "X2101", 101, 80, 0),
		bar("2021-01-04", "X2102", 98, 50, 0),
		bar("2021-01-05", "X2102", 99, 120, 0),
		bar("2021-01-06", "X2102", 102, 150, 0),
	}

	b := NewBuilder(Options{RollStrategy: RollVolume, AdjustMethod: AdjustNone}, quietLogger())
	series, err := b.Build(bars)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []struct {
		date     string
		contract string
	}{
		{"2021-01-04", "X2101"},
		{"2021-01-05", "X2101"}, // roll day itself still belongs to the old contract
		{"2021-01-06", "X2102"},
	}
	if len(series) != len(want) {
		t.Fatalf("series has %d rows %v, want %d", len(series), dates(series), len(want))
	}
	for i, w := range want {
		if series[i].Date != w.date || series[i].Contract != w.contract {
			t.Errorf("series[%d] = (%s, %s), want (%s, %s)",
				i, series[i].Date, series[i].Contract, w.date, w.contract)
		}
	}
}

func TestSingleContractNeverRolls(t *testing.T) {
	bars := []domain.Bar{
		bar("2021-01-04", "X2101", 100, 100, 10),
		bar("2021-01-05", "X2101", 101, 90, 11),
		bar("2021-01-06", "X2101", 102, 80, 12),
	}

	b := NewBuilder(Options{RollStrategy: RollVolume, AdjustMethod: AdjustNone}, quietLogger())
	series, err := b.Build(bars)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("series has %d rows, want 3", len(series))
	}
	for i := range series {
		if series[i] != bars[i] {
			t.Errorf("series[%d] = %+v, want raw bar %+v", i, series[i], bars[i])
		}
	}
}

func TestDifferenceAdjustment(t *testing.T) {
	// Overlap on 2021-01-05: continuous close 101, new contract raw close 95.
	// Offset = 101 - 95 = 6 applies to every later X2102 bar.
	bars := []domain.Bar{
		bar("2021-01-04", "X2101", 100, 100, 0),
		bar("2021-01-05", "X2101", 101, 80, 0),
		bar("2021-01-05", "X2102", 95, 120, 0),
		bar("2021-01-06", "X2102", 97, 150, 0),
	}

	b := NewBuilder(Options{RollStrategy: RollVolume, AdjustMethod: AdjustDifference}, quietLogger())
	series, err := b.Build(bars)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("series has %d rows %v, want 3", len(series), dates(series))
	}

	last := series[2]
	if last.Contract != "X2102" || last.Close != 103 {
		t.Errorf("adjusted bar = %s close %v, want X2102 close 103", last.Contract, last.Close)
	}
	if last.Open != 103 || last.High != 103 || last.Low != 103 {
		t.Errorf("offset must shift all OHLC fields: %+v", last)
	}
}

func TestRatioAdjustmentEqualOverlapIsIdentity(t *testing.T) {
	// Equal closes on the overlap date: ratio is exactly 1, no seam.
	bars := []domain.Bar{
		bar("2021-01-04", "X2101", 100, 100, 0),
		bar("2021-01-05", "X2101", 100, 80, 0),
		bar("2021-01-05", "X2102", 100, 120, 0),
		bar("2021-01-06", "X2102", 110, 150, 0),
	}

	b := NewBuilder(Options{RollStrategy: RollVolume, AdjustMethod: AdjustRatio}, quietLogger())
	series, err := b.Build(bars)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := series[len(series)-1].Close; got != 110 {
		t.Errorf("close = %v, want raw 110 under identity ratio", got)
	}
}

func TestRatioZeroCloseKeepsPriorRatio(t *testing.T) {
	bars := []domain.Bar{
		bar("2021-01-04", "X2101", 100, 100, 0),
		bar("2021-01-05", "X2101", 100, 80, 0),
		bar("2021-01-05", "X2102", 0, 120, 0), // bad raw close at the seam
		bar("2021-01-06", "X2102", 50, 150, 0),
	}

	b := NewBuilder(Options{RollStrategy: RollVolume, AdjustMethod: AdjustRatio}, quietLogger())
	series, err := b.Build(bars)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// Prior ratio is 1.0 (initial), so the new segment passes through raw.
	if got := series[len(series)-1].Close; got != 50 {
		t.Errorf("close = %v, want 50 with prior ratio kept", got)
	}
}

func TestNoOverlapReusesPreviousOffset(t *testing.T) {
	// Three contracts. First roll has an overlap (offset = 10); the roll into
	// X2103 has a data gap, so the offset carries forward unchanged.
	bars := []domain.Bar{
		bar("2021-01-04", "X2101", 100, 100, 0),
		bar("2021-01-05", "X2101", 100, 80, 0),
		bar("2021-01-05", "X2102", 90, 120, 0),
		bar("2021-01-06", "X2102", 92, 150, 0),
		bar("2021-01-08", "X2103", 80, 200, 0),
	}

	b := NewBuilder(Options{RollStrategy: RollVolume, AdjustMethod: AdjustBackward}, quietLogger())
	series, err := b.Build(bars)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	last := series[len(series)-1]
	if last.Contract != "X2103" || last.Close != 90 {
		t.Errorf("gap-roll bar = %s close %v, want X2103 close 90 (80 + carried offset 10)", last.Contract, last.Close)
	}
}

func TestForwardMatchesBackward(t *testing.T) {
	bars := []domain.Bar{
		bar("2021-01-04", "X2101", 100, 100, 0),
		bar("2021-01-05", "X2101", 101, 80, 0),
		bar("2021-01-05", "X2102", 95, 120, 0),
		bar("2021-01-06", "X2102", 97, 150, 0),
	}

	backward, err := NewBuilder(Options{RollStrategy: RollVolume, AdjustMethod: AdjustBackward}, quietLogger()).Build(bars)
	if err != nil {
		t.Fatalf("Build backward failed: %v", err)
	}
	forward, err := NewBuilder(Options{RollStrategy: RollVolume, AdjustMethod: AdjustForward}, quietLogger()).Build(bars)
	if err != nil {
		t.Fatalf("Build forward failed: %v", err)
	}
	if len(backward) != len(forward) {
		t.Fatalf("length mismatch: %d vs %d", len(backward), len(forward))
	}
	for i := range backward {
		if backward[i] != forward[i] {
			t.Errorf("row %d differs: backward %+v, forward %+v", i, backward[i], forward[i])
		}
	}
}

func TestDatesStrictlyIncreasing(t *testing.T) {
	bars := []domain.Bar{
		bar("2021-01-04", "X2101", 100, 100, 0),
		bar("2021-01-05", "X2101", 101, 80, 0),
		bar("2021-01-04", "X2102", 95, 40, 0),
		bar("2021-01-05", "X2102", 96, 120, 0),
		bar("2021-01-06", "X2102", 97, 150, 0),
		bar("2021-01-06", "X2103", 90, 10, 0),
		bar("2021-01-07", "X2103", 91, 500, 0),
	}

	b := NewBuilder(Options{RollStrategy: RollVolume, AdjustMethod: AdjustDifference}, quietLogger())
	series, err := b.Build(bars)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i := 1; i < len(series); i++ {
		if series[i-1].Date >= series[i].Date {
			t.Fatalf("dates not strictly increasing: %v", dates(series))
		}
	}
}

func TestContractMonthFilter(t *testing.T) {
	bars := []domain.Bar{
		bar("2021-01-04", "X2101", 100, 100, 0),
		bar("2021-01-05", "X2102", 95, 200, 0), // February expiry, filtered out
		bar("2021-01-06", "X2103", 90, 300, 0),
	}

	b := NewBuilder(Options{
		RollStrategy:   RollVolume,
		AdjustMethod:   AdjustNone,
		ContractMonths: []int{1, 3},
	}, quietLogger())
	series, err := b.Build(bars)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i := range series {
		if series[i].Contract == "X2102" {
			t.Fatalf("filtered contract X2102 leaked into series: %v", dates(series))
		}
	}
	if len(series) != 2 {
		t.Fatalf("series has %d rows, want 2", len(series))
	}
}

func TestFixedRollTruncatesAtMonthEndOffset(t *testing.T) {
	// X2101 expires 2021-01-31; RolloverDays=2 puts the roll on 2021-01-29.
	bars := []domain.Bar{
		bar("2021-01-28", "X2101", 100, 100, 0),
		bar("2021-01-29", "X2101", 101, 100, 0),
		bar("2021-01-30", "X2101", 102, 100, 0),
		bar("2021-01-30", "X2102", 95, 10, 0),
		bar("2021-02-01", "X2102", 96, 10, 0),
	}

	b := NewBuilder(Options{RollStrategy: RollFixed, AdjustMethod: AdjustNone, RolloverDays: 2}, quietLogger())
	series, err := b.Build(bars)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i := range series {
		if series[i].Contract == "X2101" && series[i].Date > "2021-01-29" {
			t.Errorf("X2101 still active on %s after fixed roll", series[i].Date)
		}
	}
	if last := series[len(series)-1]; last.Contract != "X2102" || last.Date != "2021-02-01" {
		t.Errorf("last row = %+v, want X2102 on 2021-02-01", last)
	}
}

func TestEmptyInput(t *testing.T) {
	b := NewBuilder(Options{}, quietLogger())
	series, err := b.Build(nil)
	if err != nil {
		t.Fatalf("Build on empty input failed: %v", err)
	}
	if len(series) != 0 {
		t.Fatalf("empty input produced %d rows", len(series))
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	bars := []domain.Bar{
		bar("2021-01-04", "X2101", 100, 100, 5),
		bar("2021-01-05", "X2101", 101, 80, 5),
		bar("2021-01-05", "X2102", 95, 120, 9),
		bar("2021-01-06", "X2102", 97, 150, 9),
	}
	b := NewBuilder(Options{RollStrategy: RollOpenInterest, AdjustMethod: AdjustDifference}, quietLogger())

	first, err := b.Build(bars)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	second, err := b.Build(bars)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("row %d differs across identical runs", i)
		}
	}
}
