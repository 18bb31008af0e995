package match

import (
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futures-lab/internal/domain"
)

// majorsTable builds one product's majors rows over consecutive dates with
// close == settlement == price[i].
func majorsTable(product, contract string, startDay int, prices []float64) []domain.Bar {
	var bars []domain.Bar
	for i, p := range prices {
		settlement := p
		bars = append(bars, domain.Bar{
			Date:       fmt.Sprintf("2021-01-%02d", startDay+i),
			Contract:   contract,
			Product:    product,
			Close:      p,
			Settlement: &settlement,
			Volume:     100,
		})
	}
	return bars
}

func newTestTracker(majors []domain.Bar, holdingDays int) *Tracker {
	return NewTracker(majors, Options{
		HoldingDays: holdingDays,
		Logger:      log.New(io.Discard, "", 0),
	})
}

func TestOpenQuantityAndTotalProfit(t *testing.T) {
	// Majors: X2101 at 1000 on D0, then 11 more sessions ending at 1100 on the
	// close day. amount=100000 -> quantity 100; profit = (1100-1000)*100.
	prices := []float64{1000, 1010, 1020, 1030, 1040, 1050, 1060, 1070, 1080, 1090, 1100}
	majors := majorsTable("X", "X2101", 4, prices)

	tracker := newTestTracker(majors, 10)
	res := tracker.Run([]domain.Signal{
		{Date: "2021-01-04", Product: "X", Direction: domain.DirectionLong, Amount: 100000},
	})

	require.Equal(t, 1, res.Stats.SignalsMatched)
	require.Len(t, res.Positions, 1)

	pos := res.Positions[0]
	assert.Equal(t, "X2101", pos.OpenContract)
	assert.EqualValues(t, 100, pos.Quantity)
	assert.Equal(t, "2021-01-14", pos.CloseDate)

	require.Len(t, res.Matched, 1)
	m := res.Matched[0]
	assert.True(t, m.TotalProfit.Equal(decimal.NewFromInt(10000)),
		"total_profit = %s, want 10000", m.TotalProfit)
	assert.True(t, m.ProfitPerUnit.Equal(decimal.NewFromInt(100)))
}

func TestShortDirectionFlipsSign(t *testing.T) {
	prices := []float64{1000, 1010, 1020, 1030, 1040, 1050, 1060, 1070, 1080, 1090, 1100}
	majors := majorsTable("X", "X2101", 4, prices)

	tracker := newTestTracker(majors, 10)
	res := tracker.Run([]domain.Signal{
		{Date: "2021-01-04", Product: "X", Direction: domain.DirectionShort, Amount: 100000},
	})

	require.Len(t, res.Matched, 1)
	assert.True(t, res.Matched[0].TotalProfit.Equal(decimal.NewFromInt(-10000)),
		"short total_profit = %s, want -10000", res.Matched[0].TotalProfit)
}

func TestCloseDateClampsToCalendarEnd(t *testing.T) {
	// Only 5 sessions exist; holding period 10 clamps to the last day.
	majors := majorsTable("X", "X2101", 4, []float64{1000, 1001, 1002, 1003, 1004})

	tracker := newTestTracker(majors, 10)
	res := tracker.Run([]domain.Signal{
		{Date: "2021-01-04", Product: "X", Direction: domain.DirectionLong, Amount: 5000},
	})

	require.Len(t, res.Positions, 1)
	assert.Equal(t, "2021-01-08", res.Positions[0].CloseDate)
}

func TestUnmatchedSignalIsSkippedNotFatal(t *testing.T) {
	majors := majorsTable("X", "X2101", 4, []float64{1000, 1001})

	tracker := newTestTracker(majors, 10)
	res := tracker.Run([]domain.Signal{
		{Date: "2021-02-01", Product: "X", Direction: domain.DirectionLong, Amount: 5000},  // no such date
		{Date: "2021-01-04", Product: "YY", Direction: domain.DirectionLong, Amount: 5000}, // no such product
	})

	assert.Equal(t, 0, res.Stats.SignalsMatched)
	assert.Equal(t, 2, res.Stats.SignalsSkipped)
	assert.Empty(t, res.Positions)
	assert.Empty(t, res.Ledger)
}

func TestZeroOpenPriceIsSkipped(t *testing.T) {
	majors := []domain.Bar{
		{Date: "2021-01-04", Contract: "X2101", Product: "X", Close: 0, Volume: 1},
	}

	tracker := newTestTracker(majors, 10)
	res := tracker.Run([]domain.Signal{
		{Date: "2021-01-04", Product: "X", Direction: domain.DirectionLong, Amount: 5000},
	})
	assert.Equal(t, 1, res.Stats.SignalsSkipped)
}

func TestLedgerInclusiveBounds(t *testing.T) {
	// Holding period 3: ledger rows on open day, two holding days, close day.
	majors := majorsTable("X", "X2101", 4, []float64{100, 102, 104, 106, 108})

	tracker := newTestTracker(majors, 3)
	res := tracker.Run([]domain.Signal{
		{Date: "2021-01-04", Product: "X", Direction: domain.DirectionLong, Amount: 1000},
	})

	require.Len(t, res.Ledger, 4, "open and close days are both inclusive")

	closingDays := 0
	for _, row := range res.Ledger {
		if row.Closing {
			closingDays++
			assert.Equal(t, "2021-01-07", row.Date)
		}
	}
	assert.Equal(t, 1, closingDays, "exactly one ledger day is the close day")
}

func TestSummariesSplitHoldingAndClosing(t *testing.T) {
	majors := majorsTable("X", "X2101", 4, []float64{100, 102, 104})

	tracker := newTestTracker(majors, 2)
	res := tracker.Run([]domain.Signal{
		{Date: "2021-01-04", Product: "X", Direction: domain.DirectionLong, Amount: 1000},
	})

	// quantity = floor(1000/100) = 10.
	// Day 0: pnl (100-100)*10 = 0 (holding)
	// Day 1: pnl (102-100)*10 = 20 (holding)
	// Day 2: pnl (104-100)*10 = 40 (closing)
	require.Len(t, res.Summaries, 3)

	assert.True(t, res.Summaries[1].HoldingPnL.Equal(decimal.NewFromInt(20)))
	assert.True(t, res.Summaries[1].ClosingPnL.IsZero())
	assert.True(t, res.Summaries[2].ClosingPnL.Equal(decimal.NewFromInt(40)))
	assert.True(t, res.Summaries[2].HoldingPnL.IsZero())
	assert.True(t, res.Summaries[2].TotalPnL.Equal(decimal.NewFromInt(40)))
	assert.True(t, res.Summaries[2].ProfitPerUnit.Equal(decimal.NewFromInt(4)))
}

func TestLongShortAggregatePerProductDay(t *testing.T) {
	majors := majorsTable("X", "X2101", 4, []float64{100, 110, 120})

	tracker := newTestTracker(majors, 2)
	res := tracker.Run([]domain.Signal{
		{Date: "2021-01-04", Product: "X", Direction: domain.DirectionLong, Amount: 1000},
		{Date: "2021-01-04", Product: "X", Direction: domain.DirectionShort, Amount: 1000},
	})

	require.Len(t, res.Summaries, 3)
	day1 := res.Summaries[1]
	assert.True(t, day1.LongPnL.Equal(decimal.NewFromInt(100)), "long pnl = %s", day1.LongPnL)
	assert.True(t, day1.ShortPnL.Equal(decimal.NewFromInt(-100)), "short pnl = %s", day1.ShortPnL)
	assert.True(t, day1.TotalPnL.IsZero())
	assert.EqualValues(t, 20, day1.TotalQuantity)
}

func TestMissingMarkDayIsSkipped(t *testing.T) {
	// Product Y trades only on the first and last day of the calendar window.
	majors := majorsTable("X", "X2101", 4, []float64{100, 101, 102})
	settlement := 50.0
	majors = append(majors,
		domain.Bar{Date: "2021-01-04", Contract: "Y2101", Product: "Y", Close: 40, Settlement: &settlement, Volume: 1},
		domain.Bar{Date: "2021-01-06", Contract: "Y2101", Product: "Y", Close: 44, Settlement: &settlement, Volume: 1},
	)

	tracker := newTestTracker(majors, 2)
	res := tracker.Run([]domain.Signal{
		{Date: "2021-01-04", Product: "Y", Direction: domain.DirectionLong, Amount: 400},
	})

	assert.Equal(t, 1, res.Stats.DaysSkipped, "2021-01-05 has no Y row")
	require.Len(t, res.Ledger, 2)
	assert.Equal(t, "2021-01-04", res.Ledger[0].Date)
	assert.Equal(t, "2021-01-06", res.Ledger[1].Date)
}

func TestSettlementPreferredForMarking(t *testing.T) {
	settlement := 105.0
	majors := []domain.Bar{
		{Date: "2021-01-04", Contract: "X2101", Product: "X", Close: 100, Settlement: &settlement, Volume: 1},
	}

	tracker := newTestTracker(majors, 10)
	res := tracker.Run([]domain.Signal{
		{Date: "2021-01-04", Product: "X", Direction: domain.DirectionLong, Amount: 1000},
	})

	// Open price uses the close (100); marking uses settlement (105).
	require.Len(t, res.Ledger, 1)
	assert.True(t, res.Ledger[0].MarkPrice.Equal(decimal.NewFromInt(105)))
	assert.True(t, res.Ledger[0].PnL.Equal(decimal.NewFromInt(50)), "pnl = %s", res.Ledger[0].PnL)
}
