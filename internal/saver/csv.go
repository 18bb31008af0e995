package saver

import (
	"encoding/csv"
	"strconv"

	"futures-lab/internal/table"
)

// csvHeader matches the canonical bar table column order.
var csvHeader = []string{
	"date", "contract", "exchange",
	"open", "high", "low", "close", "settlement",
	"volume", "open_interest",
}

// CSVSaver writes packets as CSV with the canonical bar header.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(records []Record, path string) error {
	return table.WriteAtomic(path, func(w *csv.Writer) error {
		if err := w.Write(csvHeader); err != nil {
			return err
		}
		for i := range records {
			r := &records[i]
			settlement := ""
			if r.Settlement != nil {
				settlement = table.FormatPrice(*r.Settlement)
			}
			record := []string{
				r.Date,
				r.Contract,
				r.Exchange,
				table.FormatPrice(r.Open),
				table.FormatPrice(r.High),
				table.FormatPrice(r.Low),
				table.FormatPrice(r.Close),
				settlement,
				strconv.FormatInt(r.Volume, 10),
				strconv.FormatInt(r.OpenInterest, 10),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}
