package continuous

import (
	"encoding/csv"
	"path/filepath"
	"strconv"

	"futures-lab/internal/domain"
	"futures-lab/internal/table"
)

// seriesHeader is the continuous series CSV column order.
var seriesHeader = []string{
	"date", "contract", "open", "high", "low", "close", "volume", "open_interest",
}

// WriteSeries writes a continuous series to
// <dir>/<product>_continuous_<roll_strategy>_<adjust_method>.csv.
// Returns the written path.
func WriteSeries(dir, product string, opts Options, series []domain.Bar) (string, error) {
	path := filepath.Join(dir, opts.Filename(product))
	err := table.WriteAtomic(path, func(w *csv.Writer) error {
		if err := w.Write(seriesHeader); err != nil {
			return err
		}
		for i := range series {
			b := &series[i]
			record := []string{
				b.Date,
				b.Contract,
				table.FormatPrice(b.Open),
				table.FormatPrice(b.High),
				table.FormatPrice(b.Low),
				table.FormatPrice(b.Close),
				strconv.FormatInt(b.Volume, 10),
				strconv.FormatInt(b.OpenInterest, 10),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return path, nil
}
