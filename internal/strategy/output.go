package strategy

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"futures-lab/internal/domain"
	"futures-lab/internal/table"
)

var signalHeader = []string{"date", "product", "position", "trade_amount"}

// WriteSignals writes the signal table consumed by the position tracker.
func WriteSignals(path string, signals []domain.Signal) error {
	return table.WriteAtomic(path, func(w *csv.Writer) error {
		if err := w.Write(signalHeader); err != nil {
			return err
		}
		for _, sig := range signals {
			record := []string{
				sig.Date,
				sig.Product,
				string(sig.Direction),
				strconv.FormatFloat(sig.Amount, 'f', -1, 64),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadSignals loads a signal table written by WriteSignals.
func ReadSignals(path string) ([]domain.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read signals %s: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range signalHeader {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("read signals %s: missing column %q", path, name)
		}
	}

	var signals []domain.Signal
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read signals %s: %w", path, err)
		}

		date, err := domain.ParseDate(record[cols["date"]])
		if err != nil {
			return nil, fmt.Errorf("read signals %s: %w", path, err)
		}
		dir, err := domain.ParseDirection(record[cols["position"]])
		if err != nil {
			return nil, fmt.Errorf("read signals %s: %w", path, err)
		}
		amount, err := strconv.ParseFloat(record[cols["trade_amount"]], 64)
		if err != nil {
			return nil, fmt.Errorf("read signals %s: bad trade_amount: %w", path, err)
		}
		signals = append(signals, domain.Signal{
			Date:      date,
			Product:   record[cols["product"]],
			Direction: dir,
			Amount:    amount,
		})
	}
	return signals, nil
}
