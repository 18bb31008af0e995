package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"futures-lab/internal/domain"
)

// WriteAtomic streams CSV rows to path via a temp file renamed into place,
// so a crash never leaves a truncated output behind.
func WriteAtomic(path string, write func(w *csv.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := write(w); err != nil {
		tmp.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// barHeader is the canonical bar table column order.
var barHeader = []string{
	"date", "contract", "exchange",
	"open", "high", "low", "close", "settlement",
	"volume", "open_interest",
}

// WriteBars writes bars as a canonical bar table CSV. Settlement is left
// empty when a bar has none.
func WriteBars(path string, bars []domain.Bar) error {
	return WriteAtomic(path, func(w *csv.Writer) error {
		if err := w.Write(barHeader); err != nil {
			return err
		}
		for i := range bars {
			b := &bars[i]
			settlement := ""
			if b.Settlement != nil {
				settlement = FormatPrice(*b.Settlement)
			}
			record := []string{
				b.Date,
				b.Contract,
				b.Exchange,
				FormatPrice(b.Open),
				FormatPrice(b.High),
				FormatPrice(b.Low),
				FormatPrice(b.Close),
				settlement,
				strconv.FormatInt(b.Volume, 10),
				strconv.FormatInt(b.OpenInterest, 10),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// FormatPrice renders a price with the shortest exact representation.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
