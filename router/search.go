package router

import (
	"log"
	"net/http"
	"strings"

	"github.com/Gravitalia/nido/model"
)

// SearchHandler re-routes to the requested handler
func (rt *Router) SearchHandler(w http.ResponseWriter, req *http.Request) {
	parts := segments(req.URL.Path, "/search/")

	switch {
	case len(parts) == 1 && parts[0] == "users" && req.Method == http.MethodGet:
		rt.SearchUsers(w, req)
	case len(parts) == 1 && parts[0] == "posts" && req.Method == http.MethodGet:
		rt.SearchPosts(w, req)
	case len(parts) == 1 && parts[0] == "history":
		rt.History(w, req)
	case len(parts) == 2 && parts[0] == "history" && req.Method == http.MethodDelete:
		rt.DeleteHistory(w, req, parts[1])
	case len(parts) == 0 || len(parts) > 2:
		writeError(w, http.StatusNotFound, ErrorInvalidQuery)
	default:
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
	}
}

// saveSearch keeps the query in the history when asked to
func (rt *Router) saveSearch(req *http.Request, viewer, query, kind string) {
	if viewer == "" || req.URL.Query().Get("save") != "true" {
		return
	}

	if _, err := rt.store.SaveSearchHistory(req.Context(), viewer, query, kind); err != nil {
		log.Printf("(Search) Cannot save history of %s: %v", viewer, err)
	}
}

// SearchUsers ranks profiles matching q
func (rt *Router) SearchUsers(w http.ResponseWriter, req *http.Request) {
	viewer, ok := rt.viewer(w, req)
	if !ok {
		return
	}

	query := strings.TrimSpace(req.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, []model.Profile{})
		return
	}

	limit, _ := page(req, 20, 50)
	list, err := rt.store.SearchUsers(req.Context(), query, limit)
	if err != nil {
		storeError(w, err, ErrorInvalidQuery)
		return
	}

	rt.saveSearch(req, viewer, query, model.SearchPeople)
	writeJSON(w, http.StatusOK, withoutEmails(list))
}

// SearchPosts ranks posts matching q
func (rt *Router) SearchPosts(w http.ResponseWriter, req *http.Request) {
	viewer, ok := rt.viewer(w, req)
	if !ok {
		return
	}

	query := strings.TrimSpace(req.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, []model.Post{})
		return
	}

	limit, _ := page(req, 30, 50)
	list, err := rt.store.SearchPosts(req.Context(), viewer, query, limit)
	if err != nil {
		storeError(w, err, ErrorInvalidQuery)
		return
	}

	rt.saveSearch(req, viewer, query, model.SearchPosts)
	writeJSON(w, http.StatusOK, list)
}

// History lists, saves or clears the search history
func (rt *Router) History(w http.ResponseWriter, req *http.Request) {
	user, ok := rt.user(w, req)
	if !ok {
		return
	}

	switch req.Method {
	case http.MethodGet:
		limit, _ := page(req, 10, 50)
		list, err := rt.store.GetSearchHistory(req.Context(), user, limit)
		if err != nil {
			storeError(w, err, ErrorInvalidQuery)
			return
		}
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		var body model.HistoryBody
		if !decode(w, req, &body) {
			return
		}

		entry, err := rt.store.SaveSearchHistory(req.Context(), user, body.Query, body.Type)
		if err != nil {
			storeError(w, err, ErrorInvalidQuery)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	case http.MethodDelete:
		if err := rt.store.ClearSearchHistory(req.Context(), user); err != nil {
			storeError(w, err, ErrorInvalidQuery)
			return
		}
		writeOk(w, Ok)
	default:
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
	}
}

func (rt *Router) DeleteHistory(w http.ResponseWriter, req *http.Request, id string) {
	user, ok := rt.user(w, req)
	if !ok {
		return
	}

	if err := rt.store.DeleteSearchHistory(req.Context(), id, user); err != nil {
		storeError(w, err, ErrorInvalidQuery)
		return
	}

	writeOk(w, Ok)
}
