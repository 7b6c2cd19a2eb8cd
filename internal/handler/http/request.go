package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/handler/http/middleware"
	"github.com/medas/intern-tracker-go/internal/handler/http/response"
	"github.com/medas/intern-tracker-go/internal/pkg/validator"
)

// decodeJSON reports a malformed body and returns false. An empty body is
// accepted so decision endpoints can be called without a note.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst interface{}) bool {
	if r.Body == nil {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// pathID reads a record id from the URL. A value that is not an issued id
// cannot match any record and is answered as not found.
func pathID(w http.ResponseWriter, r *http.Request, key, notFound string) (string, bool) {
	id := chi.URLParam(r, key)
	if !validator.IsValidUUID(id) {
		response.NotFound(w, notFound)
		return "", false
	}
	return id, true
}

func currentActor(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return user.Actor{}, false
	}
	return actor, true
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// queryInt ignores values that are not integers and leaves the DTO default in place.
func queryInt(r *http.Request, key string) (int, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func pageMeta(page, limit int, total int64, totalPages int) *response.Meta {
	return &response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
