package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/diewo77/go-chantier/internal/httpx"
	"github.com/diewo77/go-chantier/internal/services"
)

// pathID reads the {id} segment of the matched route.
func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// writeServiceError maps the service error taxonomy onto HTTP statuses:
// not-found sentinels to 404, bad attachment requests to 400, everything else
// (including the renumber invariant violation) to 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case services.IsNotFound(err):
		httpx.JSONError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrBlocDetached):
		httpx.JSONError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, services.ErrRenumberLost):
		log.Printf("invariant violation: %v", err)
		httpx.JSONError(w, http.StatusInternalServerError, err.Error(), nil)
	default:
		log.Printf("internal error: %v", err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
