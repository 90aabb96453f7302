package http

import (
	"encoding/json"
	"log"
	"net/http"

	"learnhub-quiz/internal/app"
)

// ProgressHandler serves read-only history and bookmark lookups.
type ProgressHandler struct {
	progress *app.ProgressService
}

func NewProgressHandler(progress *app.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

func (h *ProgressHandler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireGet(w, r)
	if !ok {
		return
	}
	history, err := h.progress.History(r.Context(), userID)
	if err != nil {
		log.Printf("load history for %s: %v", userID, err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, history)
}

func (h *ProgressHandler) ServeBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireGet(w, r)
	if !ok {
		return
	}
	bookmarks, err := h.progress.Bookmarks(r.Context(), userID)
	if err != nil {
		log.Printf("load bookmarks for %s: %v", userID, err)
		http.Error(w, "failed to load bookmarks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, bookmarks)
}

func requireGet(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return "", false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
