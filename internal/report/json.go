package report

import (
	"encoding/json"
	"io"
	"os"

	"github.com/kurihiro0119/datasight-dora-metrics/internal/domain"
)

// WriteJSON writes the bundle as pretty-printed JSON to w. Records marshal
// with their upstream key order intact, so the dump mirrors what the API
// returned.
func WriteJSON(w io.Writer, bundle domain.ReportBundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(bundle)
}

// SaveJSON writes the bundle to a JSON file at path.
func SaveJSON(path string, bundle domain.ReportBundle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, bundle); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
