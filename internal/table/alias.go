package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumns is returned when required logical fields cannot be
// resolved from a header. The caller should skip the offending file, not
// abort the batch.
var ErrMissingColumns = errors.New("missing required columns")

// Field is a logical bar-table field resolved from source column aliases.
type Field string

// Logical fields.
const (
	FieldDate         Field = "date"
	FieldContract     Field = "contract"
	FieldExchange     Field = "exchange"
	FieldOpen         Field = "open"
	FieldHigh         Field = "high"
	FieldLow          Field = "low"
	FieldClose        Field = "close"
	FieldSettlement   Field = "settlement"
	FieldVolume       Field = "volume"
	FieldOpenInterest Field = "open_interest"
)

// aliases maps each logical field to its accepted source column names, in
// resolution order. First match wins. Exchange files disagree on naming;
// this table replaces per-row heuristic scanning with a one-shot resolution
// per header.
var aliases = map[Field][]string{
	FieldDate:         {"date", "trade_date", "trading_day"},
	FieldContract:     {"contract", "contract_code", "delivery_month", "symbol", "instrument_id"},
	FieldExchange:     {"exchange", "exchange_code", "market"},
	FieldOpen:         {"open", "open_price", "open_px"},
	FieldHigh:         {"high", "high_price", "high_px"},
	FieldLow:          {"low", "low_price", "low_px"},
	FieldClose:        {"close", "close_price", "close_px"},
	FieldSettlement:   {"settlement", "settle", "settlement_price"},
	FieldVolume:       {"volume", "vol", "turnover"},
	FieldOpenInterest: {"open_interest", "oi", "position"},
}

// requiredFields must resolve for a bar table to be usable.
// Exchange, settlement and open interest are optional; settlement-based PnL
// variants fall back to close when settlement is absent.
var requiredFields = []Field{
	FieldDate, FieldContract, FieldOpen, FieldHigh, FieldLow, FieldClose, FieldVolume,
}

// Schema maps logical fields to column indexes of one resolved header.
type Schema map[Field]int

// ResolveSchema resolves a CSV header against the alias table.
// Header matching is case-insensitive and whitespace-tolerant.
func ResolveSchema(header []string) (Schema, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}

	schema := make(Schema)
	for field, names := range aliases {
		for _, name := range names {
			if i, ok := index[name]; ok {
				schema[field] = i
				break
			}
		}
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := schema[field]; !ok {
			missing = append(missing, string(field))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return schema, nil
}

// Has reports whether an optional field resolved.
func (s Schema) Has(field Field) bool {
	_, ok := s[field]
	return ok
}
