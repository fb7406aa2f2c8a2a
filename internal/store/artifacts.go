package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/abhisek/learnpulse/internal/cluster"
)

// ErrNoArtifacts is returned when no trained model has been persisted yet.
// Inference treats this as "model unavailable", never as license to
// fabricate an assignment.
var ErrNoArtifacts = errors.New("no model artifacts stored")

// ArtifactRepo persists trained model artifacts. Every save appends a new
// row; Latest returns the most recent fit.
type ArtifactRepo interface {
	Save(ctx context.Context, a *cluster.Artifacts) error
	Latest(ctx context.Context) (*cluster.Artifacts, error)
}

type artifactRepo struct {
	db *sql.DB
}

func (r *artifactRepo) Save(ctx context.Context, a *cluster.Artifacts) error {
	payload, err := a.Encode()
	if err != nil {
		return fmt.Errorf("encode artifacts: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO model_artifacts (payload) VALUES (?)`, string(payload))
	if err != nil {
		return fmt.Errorf("save artifacts: %w", err)
	}
	return nil
}

func (r *artifactRepo) Latest(ctx context.Context) (*cluster.Artifacts, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM model_artifacts ORDER BY id DESC LIMIT 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoArtifacts
	}
	if err != nil {
		return nil, fmt.Errorf("load artifacts: %w", err)
	}
	return cluster.DecodeArtifacts([]byte(payload))
}
