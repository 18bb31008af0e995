// Package strategy generates trading signals from product index series.
//
// The cross-sectional momentum strategy ranks products by their return over
// a reference window and, each date, goes long the weakest fraction and
// short the strongest fraction of the products that pass liquidity
// thresholds.
package strategy

import (
	"errors"
	"log"
	"sort"

	"futures-lab/internal/domain"
	"futures-lab/internal/index"
)

// Option validation errors
var (
	ErrBadStrengthPct = errors.New("strength pct must be in (0, 1]")
	ErrBadRefDays     = errors.New("ref days must be positive")
	ErrBadTradeAmount = errors.New("trade amount must be positive")
)

// Options parameterizes the cross-sectional strategy.
type Options struct {
	// StrengthPct is the fraction of qualifying products taken on each
	// side of the book per date. At least one product is always taken
	// per side when any product qualifies.
	StrengthPct float64

	// RefDays is how many trading days back the reference close sits.
	RefDays int

	// VolumeThreshold and OIThreshold exclude illiquid products: a
	// product qualifies on a date only when its total volume and total
	// open interest both reach the thresholds.
	VolumeThreshold int64
	OIThreshold     int64

	// TradeAmount is the notional assigned to every emitted signal.
	TradeAmount float64

	Logger *log.Logger
}

func (o Options) validate() error {
	if o.StrengthPct <= 0 || o.StrengthPct > 1 {
		return ErrBadStrengthPct
	}
	if o.RefDays <= 0 {
		return ErrBadRefDays
	}
	if o.TradeAmount <= 0 {
		return ErrBadTradeAmount
	}
	return nil
}

// CrossSectional holds validated strategy parameters.
type CrossSectional struct {
	opts   Options
	logger *log.Logger
}

// NewCrossSectional validates opts and returns the strategy.
func NewCrossSectional(opts Options) (*CrossSectional, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &CrossSectional{opts: opts, logger: logger}, nil
}

// candidate is one product's standing on one date.
type candidate struct {
	product string
	ret     float64
	volume  int64
	oi      int64
}

// Generate runs the strategy over index rows for any number of products and
// returns the signals in date order, longs before shorts within a date.
func (s *CrossSectional) Generate(rows []index.Row) []domain.Signal {
	byDate := s.rank(rows)

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var signals []domain.Signal
	for _, date := range dates {
		qualified := make([]candidate, 0, len(byDate[date]))
		for _, c := range byDate[date] {
			if c.volume >= s.opts.VolumeThreshold && c.oi >= s.opts.OIThreshold {
				qualified = append(qualified, c)
			}
		}
		if len(qualified) == 0 {
			continue
		}

		// Weakest first; ties break on product so runs are stable.
		sort.Slice(qualified, func(i, j int) bool {
			if qualified[i].ret != qualified[j].ret {
				return qualified[i].ret < qualified[j].ret
			}
			return qualified[i].product < qualified[j].product
		})

		n := int(float64(len(qualified)) * s.opts.StrengthPct)
		if n < 1 {
			n = 1
		}

		for _, c := range qualified[:n] {
			signals = append(signals, domain.Signal{
				Date:      date,
				Product:   c.product,
				Direction: domain.DirectionLong,
				Amount:    s.opts.TradeAmount,
			})
		}
		for _, c := range qualified[len(qualified)-n:] {
			signals = append(signals, domain.Signal{
				Date:      date,
				Product:   c.product,
				Direction: domain.DirectionShort,
				Amount:    s.opts.TradeAmount,
			})
		}
	}
	return signals
}

// rank computes each product's return against the close RefDays sessions
// earlier and groups the results by date. Dates without a usable close or
// without a full reference window produce no candidate.
func (s *CrossSectional) rank(rows []index.Row) map[string][]candidate {
	byProduct := make(map[string][]index.Row)
	for _, row := range rows {
		if row.ByVolume.Close == nil {
			continue
		}
		byProduct[row.Product] = append(byProduct[row.Product], row)
	}

	byDate := make(map[string][]candidate)
	for product, series := range byProduct {
		sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
		for i := s.opts.RefDays; i < len(series); i++ {
			ref := *series[i-s.opts.RefDays].ByVolume.Close
			if ref == 0 {
				s.logger.Printf("strategy: %s %s: zero reference close, skipping", product, series[i].Date)
				continue
			}
			byDate[series[i].Date] = append(byDate[series[i].Date], candidate{
				product: product,
				ret:     *series[i].ByVolume.Close/ref - 1,
				volume:  series[i].TotalVolume,
				oi:      series[i].TotalOI,
			})
		}
	}
	return byDate
}
