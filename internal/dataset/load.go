package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// relationFiles maps each relation to its JSON file name inside a dataset
// directory. A missing file leaves the relation empty.
var relationFiles = []string{
	"users",
	"trackings",
	"submissions",
	"completions",
	"journeys",
	"tutorials",
	"exam_registrations",
	"exam_results",
}

// LoadDir reads a dataset from a directory of per-relation JSON array files
// (users.json, trackings.json, ...). Absent files are treated as empty
// relations; a present but malformed file is an error.
func LoadDir(dir string) (*Dataset, error) {
	payload := make(map[string]json.RawMessage, len(relationFiles))
	for _, name := range relationFiles {
		path := filepath.Join(dir, name+".json")
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		payload[name] = json.RawMessage(data)
	}

	combined, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("assemble dataset payload: %w", err)
	}
	return Decode(combined)
}
