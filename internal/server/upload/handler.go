package upload

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
)

// maxUploadSize bounds a single image upload.
const maxUploadSize = 10 << 20 // 10 MiB

var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// Handler serves the image-upload route. A request without a usable image
// is not an error: the file is silently dropped and the client told that
// no image was provided.
type Handler struct {
	store  Storage
	logger logging.Logger
}

func NewHandler(store Storage, logger logging.Logger) *Handler {
	return &Handler{store: store, logger: logger.With("module", "upload")}
}

// PostImage handles PUT /post-image: one multipart file field named
// "image", plus an optional "oldPath" naming a previous file to clean up.
func (h *Handler) PostImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := auth.UserID(ctx); !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not Authenticated"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("image")
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]string{"message": "No Image Provided"})
		return
	}
	defer file.Close()

	// sniff the real content type, the client-sent header is not trusted
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"message": "Could Not Read File"})
		return
	}
	head = head[:n]

	if !allowedTypes[http.DetectContentType(head)] {
		// non-image uploads are dropped, not rejected
		respondJSON(w, http.StatusOK, map[string]string{"message": "No Image Provided"})
		return
	}

	name := uuid.New().String() + "-" + filepath.Base(header.Filename)
	storedPath, err := h.store.Save(ctx, name, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		h.logger.Error(ctx, "file store failed", "name", name, "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"message": "Could Not Store File"})
		return
	}

	if oldPath := r.FormValue("oldPath"); oldPath != "" && oldPath != "undefined" {
		// best-effort cleanup of the replaced file
		if err := h.store.Remove(ctx, oldPath); err != nil {
			h.logger.Warn(ctx, "old file cleanup failed", "path", oldPath, "error", err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message":  "File Stored",
		"filePath": storedPath,
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
