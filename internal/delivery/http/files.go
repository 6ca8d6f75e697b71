package http

import (
	"fmt"
	"net/http"
	"strings"
)

// handleGetAvatarFile serves a stored avatar from disk with its recorded
// content type. Files outside the avatars folder are invisible here even
// when the id exists.
func (h *Handler) handleGetAvatarFile(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	id, ok := pathInt(w, r, "file_id")
	if !ok {
		return
	}
	file, err := h.store.GetFileByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Not Found")
		return
	}
	if !strings.HasPrefix(file.FSFilename, "avatars/") {
		writeDetail(w, http.StatusNotFound, "Not Found")
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.Filename))
	http.ServeFile(w, r, h.files.Path(file.FSFilename))
}
