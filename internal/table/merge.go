package table

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"futures-lab/internal/domain"
)

// MergeStats summarizes one directory merge.
type MergeStats struct {
	Files      int
	FilesBad   int
	Rows       int
	RowsSkip   int
	Duplicates int
}

// MergeDir reads every *.csv in dir into one product bar table, deduplicated
// on (date, contract) with first-writer-wins, sorted by date then contract.
// A file whose schema cannot be resolved is logged and skipped; it does not
// fail the merge.
func (r *Reader) MergeDir(dir string) ([]domain.Bar, MergeStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, MergeStats{}, fmt.Errorf("read input dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".csv" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var stats MergeStats
	seen := make(map[[2]string]struct{})
	var merged []domain.Bar

	for _, name := range names {
		bars, rs, err := r.ReadFile(filepath.Join(dir, name))
		if err != nil {
			stats.FilesBad++
			r.logger.Printf("skip file %s: %v", name, err)
			continue
		}
		stats.Files++
		stats.RowsSkip += rs.Skipped

		for i := range bars {
			key := [2]string{bars[i].Date, bars[i].Contract}
			if _, dup := seen[key]; dup {
				stats.Duplicates++
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, bars[i])
			stats.Rows++
		}
	}

	domain.SortBars(merged)
	return merged, stats, nil
}
