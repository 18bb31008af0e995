// Package majors selects a product's dominant contract day by day.
//
// Selection is sticky: the major only changes when another contract's volume
// exceeds the current major's volume on the same day. A new product series
// therefore does not flap between contracts on volume noise.
package majors

import (
	"fmt"
	"log"
	"strings"

	"futures-lab/internal/domain"
)

// Selector picks one bar per trading day for a product.
type Selector struct {
	logger *log.Logger
}

// NewSelector creates a Selector. A nil logger uses log.Default().
func NewSelector(logger *log.Logger) *Selector {
	if logger == nil {
		logger = log.Default()
	}
	return &Selector{logger: logger}
}

// Select walks the product's bar table in date order and emits the day's
// major contract row:
//   - first day: the highest-volume contract;
//   - later days: the current major keeps its seat unless another contract
//     trades more volume, in which case that contract takes over;
//   - if the current major has no row that day, the day's highest-volume
//     contract becomes the new major.
//
// Empty input yields an empty result.
func (s *Selector) Select(bars []domain.Bar) []domain.Bar {
	byDate := make(map[string][]domain.Bar)
	for _, bar := range bars {
		byDate[bar.Date] = append(byDate[bar.Date], bar)
	}
	days := domain.TradingDays(bars)

	var out []domain.Bar
	var major string

	for i, day := range days {
		dayBars := byDate[day]

		if i == 0 {
			pick := highestVolume(dayBars)
			major = pick.Contract
			out = append(out, pick)
			continue
		}

		cur, ok := rowFor(dayBars, major)
		if !ok {
			pick := highestVolume(dayBars)
			s.logger.Printf("majors: %s major changed on %s: %s (previous %s not traded)",
				pick.Product, day, pick.Contract, major)
			major = pick.Contract
			out = append(out, pick)
			continue
		}

		for _, bar := range dayBars {
			if bar.Contract != major && bar.Volume > cur.Volume {
				s.logger.Printf("majors: %s major changed on %s: %s", bar.Product, day, bar.Contract)
				major = bar.Contract
				cur = bar
				break
			}
		}
		out = append(out, cur)
	}
	return out
}

// OutputFilename follows the <exchange>_<product>_major.csv convention.
func OutputFilename(exchange, product string) string {
	return fmt.Sprintf("%s_%s_major.csv", strings.ToLower(exchange), strings.ToLower(product))
}

func highestVolume(bars []domain.Bar) domain.Bar {
	best := bars[0]
	for _, bar := range bars[1:] {
		if bar.Volume > best.Volume {
			best = bar
		}
	}
	return best
}

func rowFor(bars []domain.Bar, contract string) (domain.Bar, bool) {
	for _, bar := range bars {
		if bar.Contract == contract {
			return bar, true
		}
	}
	return domain.Bar{}, false
}
