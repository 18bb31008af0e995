package crawl

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Progress maps each symbol to the last date fetched for it, so an
// interrupted run can resume where it stopped.
type Progress struct {
	LastFetched map[string]string `json:"last_fetched"`
}

// LoadProgress reads a progress file. A missing file yields empty progress.
func LoadProgress(path string) (*Progress, error) {
	p := &Progress{LastFetched: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, err
	}
	if p.LastFetched == nil {
		p.LastFetched = make(map[string]string)
	}
	return p, nil
}

// Save writes the progress file via a temp file renamed into place.
func (p *Progress) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
