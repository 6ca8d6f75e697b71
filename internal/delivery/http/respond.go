package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"chatrooms/internal/database"
)

// detailResponse is the error body shape used across the API.
type detailResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("http: encode response: %v", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, detailResponse{Detail: fmt.Sprintf(format, args...)})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pathInt parses an integer path segment; a non-integer is a 404, the route
// simply does not exist.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not Found")
		return 0, false
	}
	return id, true
}

// pageFromQuery reads the pagination params shared by every list endpoint.
func pageFromQuery(w http.ResponseWriter, r *http.Request) (database.Page, bool) {
	page := database.DefaultPage()
	q := r.URL.Query()

	if raw := q.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid skip value")
			return database.Page{}, false
		}
		page.Skip = skip
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid limit value")
			return database.Page{}, false
		}
		page.Limit = limit
	}
	if raw := q.Get("sort_by"); raw != "" {
		page.SortBy = raw
	}
	if raw := q.Get("sort_dir"); raw != "" {
		page.SortDir = raw
	}
	return page, true
}

// storeError maps database failures to responses. notFoundDetail customizes
// the 404 body; everything unexpected is logged and becomes a plain 500.
func storeError(w http.ResponseWriter, err error, notFoundDetail string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "%s", notFoundDetail)
	case errors.Is(err, database.ErrInvalidColumn):
		writeDetail(w, http.StatusBadRequest, "Invalid sort parameters")
	case errors.Is(err, database.ErrDuplicate):
		writeDetail(w, http.StatusConflict, "Already exists")
	default:
		log.Printf("http: store error: %v", err)
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
