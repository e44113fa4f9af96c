package http

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ekisa-team/ttsform/internal/audio"
)

// AudioHandler dereferences playable audio locators.
type AudioHandler struct {
	store *audio.Store
}

// NewAudioHandler creates a new AudioHandler instance.
func NewAudioHandler(store *audio.Store) *AudioHandler {
	return &AudioHandler{store: store}
}

// Serve writes the payload behind /audio/{id}. Released locators answer 404.
func (h *AudioHandler) Serve(w http.ResponseWriter, r *http.Request) {
	blob, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, audio.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, "", blob.CreatedAt, bytes.NewReader(blob.Data))
}
