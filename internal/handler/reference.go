package handler

import (
	"log/slog"
	"net/http"

	"github.com/soraformula/soraformula/internal/service"
	"github.com/soraformula/soraformula/internal/validation"
)

type ReferenceHandler struct {
	referenceService *service.ReferenceService
}

func NewReferenceHandler(referenceService *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

func (h *ReferenceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, validation.ImageConstraints.MaxSize+maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Error("failed to close upload", "error", closeErr)
		}
	}()

	mimeType, err := validation.ValidateFile(header, validation.ImageConstraints)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	processed, err := h.referenceService.Upload(r.Context(), file, header.Filename, header.Size, mimeType)
	if err != nil {
		slog.Error("failed to store reference image", "error", err, "name", header.Filename)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	writeJSON(w, http.StatusCreated, processed)
}
