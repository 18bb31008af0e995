package continuous

import (
	"errors"
	"fmt"
	"strings"
)

// Option parsing errors.
var (
	ErrUnknownRollStrategy = errors.New("unknown roll strategy")
	ErrUnknownAdjustMethod = errors.New("unknown adjust method")
)

// RollStrategy selects how roll points between consecutive contracts are found.
type RollStrategy string

// Roll strategies.
const (
	// RollVolume rolls on the first date the next contract's volume exceeds
	// the current contract's volume.
	RollVolume RollStrategy = "volume"
	// RollOpenInterest is the same rule on open interest.
	RollOpenInterest RollStrategy = "open_interest"
	// RollTime rolls a fixed number of calendar days before the current
	// contract's approximated expiry (last calendar day of its expiry month).
	RollTime RollStrategy = "time"
	// RollFixed rolls a fixed number of calendar days before the expiry
	// month's end, uniformly for every contract transition.
	RollFixed RollStrategy = "fixed"
)

// ParseRollStrategy normalizes a roll strategy name. "oi" is accepted as an
// alias for open_interest.
func ParseRollStrategy(raw string) (RollStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "volume":
		return RollVolume, nil
	case "oi", "open_interest":
		return RollOpenInterest, nil
	case "time":
		return RollTime, nil
	case "fixed":
		return RollFixed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRollStrategy, raw)
	}
}

// AdjustMethod selects how prices are adjusted across roll boundaries.
type AdjustMethod string

// Adjust methods.
const (
	// AdjustDifference shifts the new segment by the additive close
	// difference at the overlap date.
	AdjustDifference AdjustMethod = "difference"
	// AdjustRatio scales the new segment by the close ratio at the overlap
	// date, keeping the prior ratio when the raw close is zero.
	AdjustRatio AdjustMethod = "ratio"
	// AdjustBackward applies the same additive offset as difference.
	AdjustBackward AdjustMethod = "backward"
	// AdjustForward is intentionally identical to backward: true
	// forward-adjustment (shifting historical segments instead of the new
	// one) is not modeled. Downstream consumers depend on this behavior.
	AdjustForward AdjustMethod = "forward"
	// AdjustNone passes raw prices through unchanged.
	AdjustNone AdjustMethod = "none"
)

// ParseAdjustMethod normalizes an adjust method name.
func ParseAdjustMethod(raw string) (AdjustMethod, error) {
	switch m := AdjustMethod(strings.ToLower(strings.TrimSpace(raw))); m {
	case AdjustDifference, AdjustRatio, AdjustBackward, AdjustForward, AdjustNone:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAdjustMethod, raw)
	}
}

// Options configures a continuous series build for one product.
type Options struct {
	RollStrategy   RollStrategy
	AdjustMethod   AdjustMethod
	ContractMonths []int // expiry months to include; empty means all
	DominantDays   int   // RollTime: calendar days before expiry
	RolloverDays   int   // RollFixed: calendar days before month end
}

// Filename returns the canonical continuous series file name for a product.
func (o Options) Filename(product string) string {
	return fmt.Sprintf("%s_continuous_%s_%s.csv",
		strings.ToLower(product), o.RollStrategy, o.AdjustMethod)
}

func (o Options) includesMonth(month int) bool {
	if len(o.ContractMonths) == 0 {
		return true
	}
	for _, m := range o.ContractMonths {
		if m == month {
			return true
		}
	}
	return false
}
