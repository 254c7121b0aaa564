package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/RishijManna/SpeechToText-translation/internal/auth"
	"github.com/RishijManna/SpeechToText-translation/internal/history"
	"github.com/RishijManna/SpeechToText-translation/internal/models"
)

type HistoryLister interface {
	List(ctx context.Context, q history.Query) ([]models.TranscriptionRun, error)
}

type HistoryHandler struct {
	svc HistoryLister
}

func NewHistoryHandler(svc HistoryLister) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

// List returns the caller's recent runs. Must be mounted behind Sessions.Require.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	runs, err := h.svc.List(r.Context(), history.Query{UserID: userID, Limit: limit, Offset: offset})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs, "count": len(runs)})
}
