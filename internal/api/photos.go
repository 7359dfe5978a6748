package api

import (
	"net/http"

	"github.com/erazemk/boardtrack/internal/imaging"
	"github.com/erazemk/boardtrack/internal/store"
)

// PhotosHandler handles board photo upload and retrieval.
type PhotosHandler struct {
	Store *store.Store
}

// Upload handles PUT /api/items/{serial}/photo. The body is the raw image;
// it is normalized (sniffed, downscaled, re-encoded) before storage.
func (h *PhotosHandler) Upload(w http.ResponseWriter, r *http.Request) {
	serial := r.PathValue("serial")
	if h.Store.Snapshot().ItemIndex(serial) < 0 {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes)
	defer r.Body.Close()

	photo, err := imaging.Normalize(r.Body)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Store.SetPhoto(r.Context(), serial, photo.Data, photo.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to store photo")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo stored"})
}

// Get handles GET /api/items/{serial}/photo.
func (h *PhotosHandler) Get(w http.ResponseWriter, r *http.Request) {
	serial := r.PathValue("serial")

	data, mime, err := h.Store.Photo(r.Context(), serial)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to load photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo for item")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
