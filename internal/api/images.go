package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/passbook/internal/imaging"
	"github.com/erazemk/passbook/internal/model"
	"github.com/erazemk/passbook/internal/store"
)

// UploadImage handles PUT /api/passes/{id}/images/{kind}.
func (h *PassesHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseImageKind(r.PathValue("kind"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, ok := h.pass(w, r)
	if !ok {
		return
	}

	// Allow some room for the multipart envelope.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+1<<10)
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	data, err := imaging.Process(file, kind)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	path, err := h.Assets.Save(p.ID, kind, data)
	if err != nil {
		slog.Error("failed to save image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	if err := store.SetPassImage(r.Context(), h.DB, p.ID, kind, path); err != nil {
		slog.Error("failed to set pass image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	slog.Info("pass image uploaded", "serial_number", p.SerialNumber, "kind", kind, "bytes", len(data))
	jsonResponse(w, http.StatusOK, map[string]string{"path": path})
}

// GetImage handles GET /api/passes/{id}/images/{kind}.
func (h *PassesHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseImageKind(r.PathValue("kind"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, ok := h.pass(w, r)
	if !ok {
		return
	}

	path := p.Image(kind)
	if path == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	data, err := h.Assets.Read(*path)
	if err != nil {
		slog.Error("failed to read image", "path", *path, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}

	w.Header().Set("Content-Type", imaging.MIME)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
