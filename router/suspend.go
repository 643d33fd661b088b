package router

import (
	"net/http"
	"strconv"
)

// Suspend allows moderation to suspend or restore an account
func (rt *Router) Suspend(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
		return
	}

	if !rt.isAdmin(req) {
		writeError(w, http.StatusUnauthorized, ErrorInvalidToken)
		return
	}

	if !req.URL.Query().Has("vanity") {
		writeError(w, http.StatusBadRequest, ErrorInvalidUser)
		return
	}

	suspend := true
	if req.URL.Query().Has("suspend") {
		d, err := strconv.ParseBool(req.URL.Query().Get("suspend"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid suspend query")
			return
		}
		suspend = d
	}

	id := req.URL.Query().Get("vanity")
	if err := rt.store.SetSuspended(req.Context(), id, suspend); err != nil {
		storeError(w, err, ErrorInvalidUser)
		return
	}

	rt.cache.Delete(profileKey(id))
	writeOk(w, Ok)
}
