package match

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"futures-lab/internal/domain"
	"futures-lab/internal/table"
)

// WriteLedger writes the per-(position, day) mark-to-market rows.
func WriteLedger(path string, ledger []domain.LedgerRow) error {
	return table.WriteAtomic(path, func(w *csv.Writer) error {
		header := []string{"date", "product", "contract", "position", "quantity", "daily_settlement", "daily_pnl"}
		if err := w.Write(header); err != nil {
			return err
		}
		for i := range ledger {
			row := &ledger[i]
			record := []string{
				row.Date,
				row.Product,
				row.Contract,
				string(row.Direction),
				strconv.FormatInt(row.Quantity, 10),
				row.MarkPrice.String(),
				row.PnL.String(),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSummaries writes the per-(date, product) holding/closing/long/short
// breakdown.
func WriteSummaries(path string, summaries []domain.DailySummary) error {
	return table.WriteAtomic(path, func(w *csv.Writer) error {
		header := []string{"date", "product", "total_profit", "holding_profit", "closing_profit", "long_profit", "short_profit", "profit_per_unit"}
		if err := w.Write(header); err != nil {
			return err
		}
		for i := range summaries {
			s := &summaries[i]
			record := []string{
				s.Date,
				s.Product,
				s.TotalPnL.String(),
				s.HoldingPnL.String(),
				s.ClosingPnL.String(),
				s.LongPnL.String(),
				s.ShortPnL.String(),
				s.ProfitPerUnit.String(),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteMatched writes one row per resolved position.
func WriteMatched(path string, matched []domain.MatchedSignal) error {
	return table.WriteAtomic(path, func(w *csv.Writer) error {
		header := []string{"open_date", "product", "position", "open_contract", "amount", "open_price", "open_quantity", "close_date", "close_price", "profit_per_unit", "total_profit"}
		if err := w.Write(header); err != nil {
			return err
		}
		for i := range matched {
			m := &matched[i]
			record := []string{
				m.OpenDate,
				m.Product,
				string(m.Direction),
				m.OpenContract,
				table.FormatPrice(m.Amount),
				m.OpenPrice.String(),
				strconv.FormatInt(m.OpenQuantity, 10),
				m.CloseDate,
				m.ClosePrice.String(),
				m.ProfitPerUnit.String(),
				m.TotalProfit.String(),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadMatched loads a matched-signal table written by WriteMatched.
func ReadMatched(path string) ([]domain.MatchedSignal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read matched %s: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range []string{"open_date", "product", "position", "total_profit"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("read matched %s: missing column %q", path, name)
		}
	}

	get := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var matched []domain.MatchedSignal
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read matched %s: %w", path, err)
		}

		dir, err := domain.ParseDirection(get(record, "position"))
		if err != nil {
			return nil, fmt.Errorf("read matched %s: %w", path, err)
		}
		m := domain.MatchedSignal{
			OpenDate:     get(record, "open_date"),
			Product:      get(record, "product"),
			Direction:    dir,
			OpenContract: get(record, "open_contract"),
			CloseDate:    get(record, "close_date"),
		}
		m.Amount, _ = strconv.ParseFloat(get(record, "amount"), 64)
		if m.OpenQuantity, err = strconv.ParseInt(get(record, "open_quantity"), 10, 64); err != nil {
			m.OpenQuantity = 0
		}
		for _, d := range []struct {
			name string
			dst  *decimal.Decimal
		}{
			{"open_price", &m.OpenPrice},
			{"close_price", &m.ClosePrice},
			{"profit_per_unit", &m.ProfitPerUnit},
			{"total_profit", &m.TotalProfit},
		} {
			v, err := decimal.NewFromString(get(record, d.name))
			if err != nil {
				return nil, fmt.Errorf("read matched %s: bad %s: %w", path, d.name, err)
			}
			*d.dst = v
		}
		matched = append(matched, m)
	}
	return matched, nil
}
