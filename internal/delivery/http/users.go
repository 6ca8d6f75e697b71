package http

import (
	"net/http"
	"time"

	"chatrooms/internal/avatar"
	"chatrooms/internal/domain"
	"chatrooms/internal/upload"
)

func (h *Handler) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user.UserFull)
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	id, ok := pathInt(w, r, "user_id")
	if !ok {
		return
	}
	user, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Not Found")
		return
	}
	// Public shape only; the email stays with its owner.
	writeJSON(w, http.StatusOK, user.User)
}

// handleUploadAvatar accepts a multipart image upload, stores it on disk and
// in the files table, and points the user's avatar at it. 202 because the
// avatar URL may lag a moment behind the response.
func (h *Handler) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	_, header, err := r.FormFile("upload_file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Missing upload_file field")
		return
	}

	data, filename, contentType, err := upload.AvatarPolicy.Accept(header)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "%s", err.Error())
		return
	}
	h.saveAvatar(w, r, user, data, filename, contentType)
}

// handleGenerateAvatar replaces the user's avatar with a fresh identicon.
func (h *Handler) handleGenerateAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	svg := avatar.Generate(user.Username + " avatar")
	h.saveAvatar(w, r, user, []byte(svg), user.Username+" avatar.svg", avatar.ContentType)
}

func (h *Handler) saveAvatar(w http.ResponseWriter, r *http.Request, user domain.UserDB, data []byte, filename, contentType string) {
	meta, err := h.files.Write(upload.AvatarPolicy.Folder, data, filename, contentType, time.Now().UTC())
	if err != nil {
		storeError(w, err, "")
		return
	}
	file, err := h.store.CreateFile(r.Context(), meta, user.ID)
	if err != nil {
		storeError(w, err, "")
		return
	}
	updated, err := h.store.UpdateUserAvatar(r.Context(), user.ID, file.ID)
	if err != nil {
		storeError(w, err, "Not Found")
		return
	}
	writeJSON(w, http.StatusAccepted, updated.UserFull)
}
