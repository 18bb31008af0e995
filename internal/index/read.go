package index

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"futures-lab/internal/domain"
)

// Read loads an index series written by Write. Empty index cells decode to
// nil values.
func Read(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range []string{"date", "product", "total_volume", "total_oi"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("read index %s: missing column %q", path, name)
		}
	}

	get := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
	getOpt := func(record []string, name string) *float64 {
		raw := get(record, name)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil
		}
		return &v
	}

	var rows []Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read index %s: %w", path, err)
		}

		date, err := domain.ParseDate(get(record, "date"))
		if err != nil {
			return nil, fmt.Errorf("read index %s: %w", path, err)
		}
		row := Row{
			Date:     date,
			Exchange: get(record, "exchange"),
			Product:  get(record, "product"),
			ByVolume: PriceIndex{
				Open:  getOpt(record, "volume_open_index"),
				High:  getOpt(record, "volume_high_index"),
				Low:   getOpt(record, "volume_low_index"),
				Close: getOpt(record, "volume_close_index"),
			},
			ByOI: PriceIndex{
				Open:  getOpt(record, "oi_open_index"),
				High:  getOpt(record, "oi_high_index"),
				Low:   getOpt(record, "oi_low_index"),
				Close: getOpt(record, "oi_close_index"),
			},
		}
		row.TotalVolume, _ = strconv.ParseInt(get(record, "total_volume"), 10, 64)
		row.TotalOI, _ = strconv.ParseInt(get(record, "total_oi"), 10, 64)
		rows = append(rows, row)
	}
	return rows, nil
}
