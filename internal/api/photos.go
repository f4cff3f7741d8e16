package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/visitorlog/internal/imaging"
	"github.com/erazemk/visitorlog/internal/store"
)

// UploadPhoto handles PUT /api/visitors/{id}/photo.
func (h *VisitorsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := visitorID(w, r)
	if id == "" {
		return
	}

	// Leave room for the multipart envelope around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "Photo too large or invalid form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Missing photo file")
		return
	}
	defer file.Close()

	photo, err := imaging.NormalizePhoto(file)
	if err != nil {
		if errors.Is(err, imaging.ErrTooLarge) || errors.Is(err, imaging.ErrUnsupported) {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to process photo", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.Store.SetPhoto(r.Context(), id, SessionUserID(r.Context()), photo); err != nil {
		storeError(w, err, "failed to store photo")
		return
	}

	h.Metrics.IncrementPhotosUploaded()
	slog.Info("visitor photo uploaded", "user", SessionUserID(r.Context()), "visitor", id, "bytes", len(photo))
	jsonResponse(w, http.StatusOK, messageResponse{Message: "Photo uploaded"})
}

// GetPhoto handles GET /api/visitors/{id}/photo.
func (h *VisitorsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id := visitorID(w, r)
	if id == "" {
		return
	}

	photo, err := h.Store.Photo(r.Context(), id, SessionUserID(r.Context()))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "Photo not found")
		return
	}
	if err != nil {
		storeError(w, err, "failed to get photo")
		return
	}

	w.Header().Set("Content-Type", imaging.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(photo)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Write(photo)
}
