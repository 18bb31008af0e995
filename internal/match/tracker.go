// Package match converts entry signals into dated positions and a day-by-day
// mark-to-market ledger against a majors (or continuous) bar table.
package match

import (
	"errors"
	"log"
	"sort"

	"github.com/shopspring/decimal"

	"futures-lab/internal/domain"
)

// Signal resolution errors. Both cause the signal to be skipped and logged,
// never to abort the batch.
var (
	ErrNoMajorRow    = errors.New("no major contract row for signal date")
	ErrZeroOpenPrice = errors.New("zero or missing open price")
)

// DefaultHoldingDays is the fixed holding period in trading sessions.
const DefaultHoldingDays = 10

// Options configures a Tracker.
type Options struct {
	// HoldingDays is the number of trading sessions between open and close.
	// Zero means DefaultHoldingDays.
	HoldingDays int
	Logger      *log.Logger
}

// Stats counts signal and ledger outcomes of one run.
type Stats struct {
	SignalsMatched int
	SignalsSkipped int
	DaysSkipped    int // position-days with no mark-price row
}

// Result bundles everything one tracker run produces.
type Result struct {
	Positions []domain.Position
	Ledger    []domain.LedgerRow
	Summaries []domain.DailySummary
	Matched   []domain.MatchedSignal
	Stats     Stats
}

type dayProduct struct {
	date    string
	product string
}

// Tracker resolves signals against a majors table and advances the resulting
// positions across the table's trading calendar.
type Tracker struct {
	opts     Options
	logger   *log.Logger
	days     []string // global sorted trading calendar
	dayIndex map[string]int
	rows     map[dayProduct]domain.Bar // first row wins per (date, product)
}

// NewTracker indexes the majors table. Product matching is by the normalized
// upper-case product code; the first row per (date, product) wins.
func NewTracker(majors []domain.Bar, opts Options) *Tracker {
	if opts.HoldingDays <= 0 {
		opts.HoldingDays = DefaultHoldingDays
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	days := domain.TradingDays(majors)
	dayIndex := make(map[string]int, len(days))
	for i, d := range days {
		dayIndex[d] = i
	}

	rows := make(map[dayProduct]domain.Bar, len(majors))
	for _, bar := range majors {
		key := dayProduct{bar.Date, bar.Product}
		if _, exists := rows[key]; !exists {
			rows[key] = bar
		}
	}

	return &Tracker{opts: opts, logger: logger, days: days, dayIndex: dayIndex, rows: rows}
}

// Run opens positions from signals and produces the full ledger, the daily
// per-product summaries and the per-position matched records.
func (t *Tracker) Run(signals []domain.Signal) *Result {
	res := &Result{}
	res.Positions = t.openPositions(signals, &res.Stats)
	res.Ledger = t.ledger(res.Positions, &res.Stats)
	res.Summaries = summarize(res.Ledger)
	res.Matched = t.matchSignals(res.Positions)
	return res
}

// openPositions resolves each signal to a position on the majors table.
func (t *Tracker) openPositions(signals []domain.Signal, stats *Stats) []domain.Position {
	var positions []domain.Position
	for _, sig := range signals {
		pos, err := t.open(sig)
		if err != nil {
			stats.SignalsSkipped++
			t.logger.Printf("match: skip signal %s %s: %v", sig.Date, sig.Product, err)
			continue
		}
		stats.SignalsMatched++
		positions = append(positions, pos)
	}
	return positions
}

func (t *Tracker) open(sig domain.Signal) (domain.Position, error) {
	row, ok := t.rows[dayProduct{sig.Date, sig.Product}]
	if !ok {
		return domain.Position{}, ErrNoMajorRow
	}
	if row.Close <= 0 {
		return domain.Position{}, ErrZeroOpenPrice
	}

	openPrice := decimal.NewFromFloat(row.Close)
	quantity := decimal.NewFromFloat(sig.Amount).Div(openPrice).Floor().IntPart()

	openIdx := t.dayIndex[sig.Date]
	closeIdx := openIdx + t.opts.HoldingDays
	if closeIdx >= len(t.days) {
		// Calendar ran out: close on the last available trading day.
		closeIdx = len(t.days) - 1
	}

	return domain.Position{
		OpenDate:     sig.Date,
		Product:      sig.Product,
		Direction:    sig.Direction,
		OpenContract: row.Contract,
		OpenPrice:    openPrice,
		Quantity:     quantity,
		CloseDate:    t.days[closeIdx],
		Amount:       sig.Amount,
	}, nil
}

// ledger emits one row per (position, trading day) for open_date <= d <=
// close_date, both ends inclusive. Days with no mark-price row for the
// product are skipped and counted, not fatal.
func (t *Tracker) ledger(positions []domain.Position, stats *Stats) []domain.LedgerRow {
	var rows []domain.LedgerRow
	for _, day := range t.days {
		for pi := range positions {
			pos := &positions[pi]
			if day < pos.OpenDate || day > pos.CloseDate {
				continue
			}
			row, ok := t.rows[dayProduct{day, pos.Product}]
			if !ok {
				stats.DaysSkipped++
				t.logger.Printf("match: no mark price for %s %s, day skipped", day, pos.Product)
				continue
			}

			mark := decimal.NewFromFloat(row.MarkPrice())
			pnl := pnlFor(pos, mark)
			rows = append(rows, domain.LedgerRow{
				Date:      day,
				Product:   pos.Product,
				Contract:  row.Contract,
				Direction: pos.Direction,
				Quantity:  pos.Quantity,
				MarkPrice: mark,
				PnL:       pnl,
				Closing:   day == pos.CloseDate,
			})
		}
	}
	return rows
}

// matchSignals produces the per-position realization record, marked at the
// close day's settlement (falling back through earlier days when the close
// day itself has no row for the product).
func (t *Tracker) matchSignals(positions []domain.Position) []domain.MatchedSignal {
	var matched []domain.MatchedSignal
	for i := range positions {
		pos := &positions[i]

		closePrice := decimal.Zero
		closeIdx := t.dayIndex[pos.CloseDate]
		openIdx := t.dayIndex[pos.OpenDate]
		for d := closeIdx; d >= openIdx; d-- {
			if row, ok := t.rows[dayProduct{t.days[d], pos.Product}]; ok {
				closePrice = decimal.NewFromFloat(row.MarkPrice())
				break
			}
		}

		sign := decimal.NewFromInt(int64(pos.Direction.Sign()))
		perUnit := closePrice.Sub(pos.OpenPrice).Mul(sign)
		matched = append(matched, domain.MatchedSignal{
			OpenDate:      pos.OpenDate,
			Product:       pos.Product,
			Direction:     pos.Direction,
			OpenContract:  pos.OpenContract,
			Amount:        pos.Amount,
			OpenPrice:     pos.OpenPrice,
			OpenQuantity:  pos.Quantity,
			CloseDate:     pos.CloseDate,
			ClosePrice:    closePrice,
			ProfitPerUnit: perUnit,
			TotalProfit:   perUnit.Mul(decimal.NewFromInt(pos.Quantity)),
		})
	}
	return matched
}

// summarize aggregates ledger rows per (date, product). The close day is
// excluded from holding PnL and accounted once as closing PnL.
func summarize(ledger []domain.LedgerRow) []domain.DailySummary {
	byKey := make(map[dayProduct]*domain.DailySummary)
	var order []dayProduct

	for i := range ledger {
		row := &ledger[i]
		key := dayProduct{row.Date, row.Product}
		sum, ok := byKey[key]
		if !ok {
			sum = &domain.DailySummary{Date: row.Date, Product: row.Product}
			byKey[key] = sum
			order = append(order, key)
		}

		sum.TotalPnL = sum.TotalPnL.Add(row.PnL)
		sum.TotalQuantity += row.Quantity
		if row.Closing {
			sum.ClosingPnL = sum.ClosingPnL.Add(row.PnL)
		} else {
			sum.HoldingPnL = sum.HoldingPnL.Add(row.PnL)
		}
		if row.Direction == domain.DirectionLong {
			sum.LongPnL = sum.LongPnL.Add(row.PnL)
		} else {
			sum.ShortPnL = sum.ShortPnL.Add(row.PnL)
		}
	}

	out := make([]domain.DailySummary, 0, len(order))
	for _, key := range order {
		sum := byKey[key]
		if sum.TotalQuantity != 0 {
			sum.ProfitPerUnit = sum.TotalPnL.Div(decimal.NewFromInt(sum.TotalQuantity))
		}
		out = append(out, *sum)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Product < out[j].Product
	})
	return out
}

func pnlFor(pos *domain.Position, mark decimal.Decimal) decimal.Decimal {
	sign := decimal.NewFromInt(int64(pos.Direction.Sign()))
	return mark.Sub(pos.OpenPrice).Mul(sign).Mul(decimal.NewFromInt(pos.Quantity))
}
