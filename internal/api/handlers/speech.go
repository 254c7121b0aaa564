package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/RishijManna/SpeechToText-translation/internal/auth"
	"github.com/RishijManna/SpeechToText-translation/internal/models"
	"github.com/RishijManna/SpeechToText-translation/internal/storage"
	"github.com/RishijManna/SpeechToText-translation/internal/transcription"
	"github.com/RishijManna/SpeechToText-translation/internal/translation"
)

const (
	defaultTargetLang = "hi"
	defaultMaxUpload  = 32 << 20

	msgMissingAudioInput = "Missing audio file or language input"
	msgMissingInputs     = "Missing required inputs"
)

// Transcriber runs one transcription job to completion.
type Transcriber interface {
	Run(ctx context.Context, audio transcription.Audio, language string) (string, error)
	Provider() string
}

// Translator never fails; unavailable translations come back as a sentinel value.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) string
}

type RunRecorder interface {
	Record(ctx context.Context, run models.TranscriptionRun)
}

type PurgeScheduler interface {
	EnqueueArtifactPurge(ctx context.Context, key string, after time.Duration) error
}

type SpeechOptions struct {
	Recorder       RunRecorder    // optional
	Purger         PurgeScheduler // optional
	Retention      time.Duration
	MaxUploadBytes int64
}

type SpeechHandler struct {
	transcriber Transcriber
	translator  Translator
	storage     storage.Storage
	opts        SpeechOptions
}

func NewSpeechHandler(t Transcriber, tr Translator, store storage.Storage, opts SpeechOptions) *SpeechHandler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUpload
	}
	return &SpeechHandler{transcriber: t, translator: tr, storage: store, opts: opts}
}

type audioUpload struct {
	audio       transcription.Audio
	contentType string
	inputLang   string
	targetLang  string
}

// Upload transcribes the uploaded audio.
func (h *SpeechHandler) Upload(w http.ResponseWriter, r *http.Request) {
	up, ok := h.parseAudio(w, r, false, msgMissingAudioInput)
	if !ok {
		return
	}

	run := models.TranscriptionRun{Operation: models.OpTranscribe, InputLang: up.inputLang}
	text, ok := h.transcribe(w, r, up, &run)
	if !ok {
		return
	}

	h.finish(r.Context(), run, "ok", nil)
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// TranslateAudio transcribes the uploaded audio and translates the transcript.
func (h *SpeechHandler) TranslateAudio(w http.ResponseWriter, r *http.Request) {
	up, ok := h.parseAudio(w, r, true, msgMissingInputs)
	if !ok {
		return
	}

	run := models.TranscriptionRun{
		Operation:  models.OpTranslateAudio,
		InputLang:  up.inputLang,
		TargetLang: up.targetLang,
	}
	text, ok := h.transcribe(w, r, up, &run)
	if !ok {
		return
	}

	translated := h.translator.Translate(r.Context(), text, up.inputLang, up.targetLang)

	outcome := "ok"
	if translated == translation.Unavailable {
		outcome = "translation_unavailable"
	}
	h.finish(r.Context(), run, outcome, nil)
	writeJSON(w, http.StatusOK, map[string]string{
		"text":            text,
		"translated_text": translated,
	})
}

type translateTextRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
}

// TranslateText translates a JSON text payload from an auto-detected language.
func (h *SpeechHandler) TranslateText(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req translateTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.TargetLang == "" {
		req.TargetLang = defaultTargetLang
	}

	translated := h.translator.Translate(r.Context(), req.Text, translation.AutoDetect, req.TargetLang)

	outcome := "ok"
	if translated == translation.Unavailable {
		outcome = "translation_unavailable"
	}
	run := models.TranscriptionRun{
		Operation:  models.OpTranslateText,
		InputLang:  translation.AutoDetect,
		TargetLang: req.TargetLang,
		DurationMs: time.Since(start).Milliseconds(),
	}
	h.finish(r.Context(), run, outcome, nil)
	writeJSON(w, http.StatusOK, map[string]string{"translated_text": translated})
}

// parseAudio validates the multipart form. It writes the error response
// itself and reports false when the request cannot proceed.
func (h *SpeechHandler) parseAudio(w http.ResponseWriter, r *http.Request, needTarget bool, missingMsg string) (*audioUpload, bool) {
	if r.ContentLength > h.opts.MaxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "audio file too large"})
		return nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "audio file too large"})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": missingMsg})
		return nil, false
	}

	up := &audioUpload{
		inputLang:  r.FormValue("input_lang"),
		targetLang: r.FormValue("target_lang"),
	}
	if up.inputLang == "" || (needTarget && up.targetLang == "") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": missingMsg})
		return nil, false
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": missingMsg})
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read audio file"})
		return nil, false
	}
	if len(data) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": missingMsg})
		return nil, false
	}

	up.audio = transcription.Audio{Data: data, Filename: header.Filename}
	up.contentType = header.Header.Get("Content-Type")
	return up, true
}

// transcribe persists the artifact and runs the transcription job. On
// failure the error response has already been written.
func (h *SpeechHandler) transcribe(w http.ResponseWriter, r *http.Request, up *audioUpload, run *models.TranscriptionRun) (string, bool) {
	ctx := r.Context()
	start := time.Now()
	run.Provider = h.transcriber.Provider()

	key := storage.ArtifactKey(up.audio.Filename)
	if err := h.storage.Upload(ctx, key, bytes.NewReader(up.audio.Data), up.contentType); err != nil {
		slog.Error("failed to store audio artifact", "stage", "store", "key", key, "error", err)
		run.DurationMs = time.Since(start).Milliseconds()
		h.finish(ctx, *run, "store_failed", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store audio file"})
		return "", false
	}
	run.ArtifactKey = key
	h.schedulePurge(ctx, key)

	text, err := h.transcriber.Run(ctx, up.audio, up.inputLang)
	run.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		slog.Error("transcription pipeline failed",
			"stage", "transcribe",
			"provider", run.Provider,
			"operation", run.Operation,
			"error", err,
		)
		outcome := "failed"
		if errors.Is(err, context.Canceled) {
			outcome = "canceled"
		}
		h.finish(ctx, *run, outcome, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return "", false
	}
	return text, true
}

func (h *SpeechHandler) schedulePurge(ctx context.Context, key string) {
	if h.opts.Purger == nil || h.opts.Retention <= 0 {
		return
	}
	if err := h.opts.Purger.EnqueueArtifactPurge(ctx, key, h.opts.Retention); err != nil {
		slog.Warn("failed to schedule artifact purge", "key", key, "error", err)
	}
}

func (h *SpeechHandler) finish(ctx context.Context, run models.TranscriptionRun, outcome string, err error) {
	if h.opts.Recorder == nil {
		return
	}
	run.Outcome = outcome
	if err != nil {
		run.Error = err.Error()
	}
	if claims := auth.ClaimsFromContext(ctx); claims != nil {
		if id, perr := uuid.Parse(claims.Subject); perr == nil {
			run.UserID = &id
		}
	}
	h.opts.Recorder.Record(ctx, run)
}
