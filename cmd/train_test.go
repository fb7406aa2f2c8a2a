package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/learnpulse/internal/store"
)

func writeRelation(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestTrain_ViolatedMappingFailsWithoutSaving(t *testing.T) {
	dataDir := t.TempDir()

	// Two behavioral extremes so k=2 has something to separate.
	var users, rows []string
	for id := 1; id <= 3; id++ {
		users = append(users, fmt.Sprintf(`{"id": %d}`, id))
		for d := 1; d <= 5; d++ {
			rows = append(rows, fmt.Sprintf(
				`{"developer_id": %d, "tutorial_id": %d, "first_opened_at": "2024-03-0%dT10:00:00Z", "completed_at": "2024-03-0%dT10:05:00Z"}`,
				id, d, d, d))
		}
	}
	for id := 4; id <= 6; id++ {
		users = append(users, fmt.Sprintf(`{"id": %d}`, id))
		rows = append(rows, fmt.Sprintf(
			`{"developer_id": %d, "tutorial_id": 1, "first_opened_at": "2024-03-01T10:00:00Z", "completed_at": "2024-03-01T10:28:00Z"}`,
			id))
	}
	writeRelation(t, dataDir, "users", "["+strings.Join(users, ",")+"]")
	writeRelation(t, dataDir, "trackings", "["+strings.Join(rows, ",")+"]")

	dbPath := filepath.Join(t.TempDir(), "learnpulse.db")
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	// The shipped mapping names three clusters, so a k=2 fit can never
	// satisfy the post-training label check.
	rootCmd.SetArgs([]string{"train", "--data", dataDir, "--k", "2", "--db", dbPath})

	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "label mapping check failed") {
		t.Fatalf("train with a violated label mapping returned %v, want failure", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	if _, err := st.ArtifactRepo().Latest(context.Background()); !errors.Is(err, store.ErrNoArtifacts) {
		t.Errorf("artifacts were persisted despite the failed check: %v", err)
	}
}
