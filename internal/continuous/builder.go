package continuous

import (
	"log"
	"sort"

	"futures-lab/internal/domain"
)

// Builder stitches a product's per-contract bar series into one continuous
// adjusted series. One Builder is reusable across products.
type Builder struct {
	opts   Options
	logger *log.Logger
}

// NewBuilder creates a Builder. Zero-value options default to volume roll
// with backward adjustment. A nil logger uses log.Default().
func NewBuilder(opts Options, logger *log.Logger) *Builder {
	if opts.RollStrategy == "" {
		opts.RollStrategy = RollVolume
	}
	if opts.AdjustMethod == "" {
		opts.AdjustMethod = AdjustBackward
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{opts: opts, logger: logger}
}

// segment is one contract's bars, sorted by date.
type segment struct {
	contract domain.Contract
	bars     []domain.Bar
	byDate   map[string]int // date -> index into bars
}

// Build produces the continuous series from a product's full bar table.
// Empty input yields an empty series, not an error. Bars whose symbol does
// not parse are skipped and logged; the rest of the product still builds.
//
// The builder walks the expiry-ordered contract list with two persistent
// accumulators: an additive offset (difference/backward/forward) and a
// multiplicative ratio. Each roll boundary recomputes them at the overlap
// date — the earliest date present in both the built series and the new
// segment — and reuses the previous values when the contracts never overlap.
func (b *Builder) Build(bars []domain.Bar) ([]domain.Bar, error) {
	segments := b.segment(bars)
	if len(segments) == 0 {
		return nil, nil
	}

	var series []domain.Bar
	byDate := make(map[string]int) // date -> index into series
	offset := 0.0
	ratio := 1.0

	for i, seg := range segments {
		var next *segment
		if i+1 < len(segments) {
			next = &segments[i+1]
		}

		rollDate, err := b.rollDate(seg, next)
		if err != nil {
			b.logger.Printf("continuous %s: no roll date for %s: %v",
				seg.contract.Product, seg.contract.Symbol, err)
		}

		// Recompute adjustment at the boundary into this segment.
		if i > 0 && b.opts.AdjustMethod != AdjustNone {
			if overlap, ok := overlapDate(series, seg); ok {
				prevClose := series[byDate[overlap]].Close
				rawClose := seg.bars[seg.byDate[overlap]].Close
				switch b.opts.AdjustMethod {
				case AdjustRatio:
					if rawClose != 0 {
						ratio = prevClose / rawClose
					} else {
						b.logger.Printf("continuous %s: zero close on %s at %s, keeping prior ratio",
							seg.contract.Product, seg.contract.Symbol, overlap)
					}
				default: // difference, backward, forward
					offset = prevClose - rawClose
				}
			}
		}

		for _, bar := range seg.bars {
			if rollDate != "" && bar.Date > rollDate {
				break
			}
			if _, taken := byDate[bar.Date]; taken {
				continue // first writer wins for a date
			}
			adjusted := bar
			switch b.opts.AdjustMethod {
			case AdjustNone:
			case AdjustRatio:
				adjusted.Open *= ratio
				adjusted.High *= ratio
				adjusted.Low *= ratio
				adjusted.Close *= ratio
			default:
				adjusted.Open += offset
				adjusted.High += offset
				adjusted.Low += offset
				adjusted.Close += offset
			}
			adjusted.Settlement = nil // settlement is not adjusted, drop it
			byDate[adjusted.Date] = len(series)
			series = append(series, adjusted)
		}
	}

	sort.SliceStable(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series, nil
}

// segment groups bars by contract and orders contracts by expiry, applying
// the contract-month filter. Contracts outside the filter are skipped
// entirely: not merged, not used for adjustment.
func (b *Builder) segment(bars []domain.Bar) []segment {
	grouped := make(map[string][]domain.Bar)
	parsed := make(map[string]domain.Contract)
	for _, bar := range bars {
		c, ok := parsed[bar.Contract]
		if !ok {
			var err error
			c, err = domain.ParseContract(bar.Contract)
			if err != nil {
				b.logger.Printf("continuous: skip bar %s %s: %v", bar.Date, bar.Contract, err)
				continue
			}
			parsed[bar.Contract] = c
		}
		grouped[c.Symbol] = append(grouped[c.Symbol], bar)
	}

	contracts := make([]domain.Contract, 0, len(grouped))
	for symbol := range grouped {
		c := parsed[symbol]
		if !b.opts.includesMonth(c.ExpiryMonth()) {
			continue
		}
		contracts = append(contracts, c)
	}
	domain.SortContracts(contracts)

	segments := make([]segment, 0, len(contracts))
	for _, c := range contracts {
		segBars := grouped[c.Symbol]
		domain.SortBars(segBars)
		byDate := make(map[string]int, len(segBars))
		for i := range segBars {
			byDate[segBars[i].Date] = i
		}
		segments = append(segments, segment{contract: c, bars: segBars, byDate: byDate})
	}
	return segments
}

// overlapDate finds the earliest date present in both the built series and
// the new segment.
func overlapDate(series []domain.Bar, seg segment) (string, bool) {
	best := ""
	for i := range series {
		d := series[i].Date
		if _, ok := seg.byDate[d]; !ok {
			continue
		}
		if best == "" || d < best {
			best = d
		}
	}
	return best, best != ""
}
