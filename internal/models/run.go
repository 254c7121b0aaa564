package models

import (
	"time"

	"github.com/google/uuid"
)

// Pipeline operations recorded in transcription_runs.
const (
	OpTranscribe     = "transcribe"
	OpTranslateAudio = "translate_audio"
	OpTranslateText  = "translate_text"
)

// TranscriptionRun is one pipeline execution, successful or not.
type TranscriptionRun struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Operation   string     `json:"operation" db:"operation"`
	Provider    string     `json:"provider" db:"provider"`
	InputLang   string     `json:"input_lang,omitempty" db:"input_lang"`
	TargetLang  string     `json:"target_lang,omitempty" db:"target_lang"`
	ArtifactKey string     `json:"artifact_key,omitempty" db:"artifact_key"`
	Outcome     string     `json:"outcome" db:"outcome"`
	Error       string     `json:"error,omitempty" db:"error"`
	DurationMs  int64      `json:"duration_ms" db:"duration_ms"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
