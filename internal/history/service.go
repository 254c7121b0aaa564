package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/RishijManna/SpeechToText-translation/internal/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// DB is the subset of *pgxpool.Pool the service needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Service struct {
	db DB
}

func NewService(db DB) *Service {
	return &Service{db: db}
}

// Record stores a run. Failures are logged and swallowed so that history
// never affects the response of the request being recorded.
func (s *Service) Record(ctx context.Context, run models.TranscriptionRun) {
	// the request context may already be cancelled by the time the pipeline fails
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`INSERT INTO transcription_runs (user_id, operation, provider, input_lang, target_lang, artifact_key, outcome, error, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.UserID, run.Operation, run.Provider, run.InputLang, run.TargetLang,
		run.ArtifactKey, run.Outcome, run.Error, run.DurationMs,
	)
	if err != nil {
		slog.Error("failed to record transcription run",
			"operation", run.Operation,
			"outcome", run.Outcome,
			"error", err,
		)
	}
}

type Query struct {
	UserID uuid.UUID
	Limit  int
	Offset int
}

func (q Query) limit() int {
	switch {
	case q.Limit <= 0:
		return defaultLimit
	case q.Limit > maxLimit:
		return maxLimit
	}
	return q.Limit
}

func (s *Service) List(ctx context.Context, q Query) ([]models.TranscriptionRun, error) {
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, operation, provider, input_lang, target_lang, artifact_key, outcome, error, duration_ms, created_at
		 FROM transcription_runs WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		q.UserID, q.limit(), offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query transcription runs: %w", err)
	}
	defer rows.Close()

	runs := []models.TranscriptionRun{}
	for rows.Next() {
		var r models.TranscriptionRun
		if err := rows.Scan(&r.ID, &r.UserID, &r.Operation, &r.Provider, &r.InputLang, &r.TargetLang,
			&r.ArtifactKey, &r.Outcome, &r.Error, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transcription run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcription runs: %w", err)
	}
	return runs, nil
}
