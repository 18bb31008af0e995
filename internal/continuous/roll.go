package continuous

import (
	"futures-lab/internal/domain"
)

// rollDate computes the last date the current segment stays active, per the
// configured roll strategy. An empty date means no roll point: the segment
// contributes all its bars and the next contract picks up where it ends.
// The terminal contract never rolls.
func (b *Builder) rollDate(seg segment, next *segment) (string, error) {
	if next == nil {
		return "", nil
	}

	switch b.opts.RollStrategy {
	case RollVolume:
		return crossoverDate(seg, next, func(bar domain.Bar) int64 { return bar.Volume }), nil
	case RollOpenInterest:
		return crossoverDate(seg, next, func(bar domain.Bar) int64 { return bar.OpenInterest }), nil
	case RollTime:
		expiry, err := seg.contract.ExpiryDate()
		if err != nil {
			return "", err
		}
		return domain.FormatDate(expiry.AddDate(0, 0, -b.opts.DominantDays)), nil
	case RollFixed:
		expiry, err := seg.contract.ExpiryDate()
		if err != nil {
			return "", err
		}
		return domain.FormatDate(expiry.AddDate(0, 0, -b.opts.RolloverDays)), nil
	default:
		return "", nil
	}
}

// crossoverDate finds the first date, among dates both contracts traded,
// where the next contract's metric exceeds the current one's. Returns ""
// when the contracts never overlap or the next contract never takes over.
func crossoverDate(cur segment, next *segment, metric func(domain.Bar) int64) string {
	for _, bar := range cur.bars {
		j, ok := next.byDate[bar.Date]
		if !ok {
			continue
		}
		if metric(next.bars[j]) > metric(bar) {
			return bar.Date
		}
	}
	return ""
}
