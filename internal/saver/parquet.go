package saver

import (
	"github.com/parquet-go/parquet-go"
)

// ParquetSaver writes packets as Parquet files.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(records []Record, path string) error {
	return parquet.WriteFile(path, records)
}
