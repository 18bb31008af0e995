package domain

import (
	"fmt"
	"strings"
)

// Direction of a position.
type Direction string

// Direction constants.
const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Sign returns +1 for long, -1 for short.
func (d Direction) Sign() int {
	if d == DirectionShort {
		return -1
	}
	return 1
}

// ParseDirection normalizes a raw position token.
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "long":
		return DirectionLong, nil
	case "short":
		return DirectionShort, nil
	default:
		return "", fmt.Errorf("invalid position %q (want long or short)", raw)
	}
}

// Signal is one entry signal row: open a position in the product's major
// contract on the given date, sized by a notional amount.
type Signal struct {
	Date      string // canonical ISO date
	Product   string // product code, upper-cased
	Direction Direction
	Amount    float64 // notional amount used to size the position
}
