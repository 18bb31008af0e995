package domain

import "github.com/shopspring/decimal"

// Position is a trade opened from one signal, held for a fixed number of
// trading sessions and closed on CloseDate (clamped to the last available
// trading day when the calendar runs out).
type Position struct {
	OpenDate     string
	Product      string
	Direction    Direction
	OpenContract string
	OpenPrice    decimal.Decimal
	Quantity     int64 // floor(amount / open price)
	CloseDate    string
	Amount       float64 // the signal's notional amount
}

// LedgerRow is one daily mark-to-market record for one open position.
type LedgerRow struct {
	Date      string
	Product   string
	Contract  string // the day's major contract for the product
	Direction Direction
	Quantity  int64
	MarkPrice decimal.Decimal // the day's settlement (or close fallback)
	PnL       decimal.Decimal // sign(direction) * (mark - open) * quantity
	Closing   bool            // true on the position's close day
}

// DailySummary aggregates ledger rows per (date, product).
// The close day is excluded from holding PnL and accounted once as closing
// PnL: HoldingPnL covers days strictly before a position's close date.
type DailySummary struct {
	Date          string
	Product       string
	TotalPnL      decimal.Decimal
	HoldingPnL    decimal.Decimal
	ClosingPnL    decimal.Decimal
	LongPnL       decimal.Decimal
	ShortPnL      decimal.Decimal
	TotalQuantity int64
	ProfitPerUnit decimal.Decimal // TotalPnL / TotalQuantity, zero when no quantity
}

// MatchedSignal is the per-position realization record: one row per signal
// that resolved to an open, with the close marked at the close day's price.
type MatchedSignal struct {
	OpenDate      string
	Product       string
	Direction     Direction
	OpenContract  string
	Amount        float64
	OpenPrice     decimal.Decimal
	OpenQuantity  int64
	CloseDate     string
	ClosePrice    decimal.Decimal
	ProfitPerUnit decimal.Decimal
	TotalProfit   decimal.Decimal
}
