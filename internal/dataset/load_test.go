package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRelation(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeRelation(t, dir, "users", `[{"id": 1}, {"id": 2}]`)
	writeRelation(t, dir, "trackings", `[{"developer_id": 1, "tutorial_id": 3, "status": "completed"}]`)

	ds, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(ds.Users) != 2 {
		t.Errorf("users = %d, want 2", len(ds.Users))
	}
	if len(ds.Trackings.Rows) != 1 || !ds.Trackings.HasStatus {
		t.Errorf("trackings = %+v", ds.Trackings)
	}
	// Absent relations stay empty.
	if len(ds.Submissions) != 0 || len(ds.ExamResults) != 0 {
		t.Error("absent relation files should decode empty")
	}
}

func TestLoadDir_EmptyDirectory(t *testing.T) {
	ds, err := LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if got := ds.Universe(); len(got) != 0 {
		t.Errorf("universe = %v, want empty", got)
	}
}

func TestLoadDir_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeRelation(t, dir, "users", `[{"id": `)
	if _, err := LoadDir(dir); err == nil {
		t.Error("LoadDir accepted a malformed relation file")
	}
}
