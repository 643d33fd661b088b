package router

import (
	"log"
	"net/http"
	"strings"

	"github.com/Gravitalia/nido/model"
)

// ListHandler allows to return the IDs of a relation list
func (rt *Router) ListHandler(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
		return
	}

	user, ok := rt.user(w, req)
	if !ok {
		return
	}

	target := user
	if other := req.URL.Query().Get("user"); other != "" {
		target = other
	}

	var (
		list []string
		err  error
	)
	switch strings.ToLower(strings.Trim(strings.TrimPrefix(req.URL.Path, "/list/"), "/")) {
	case "followers":
		list, err = rt.store.Followers(req.Context(), target)
	case "following":
		list, err = rt.store.Following(req.Context(), target)
	case "blocked":
		// blocks of other users are private
		list, err = rt.store.Blocked(req.Context(), user)
	default:
		writeError(w, http.StatusBadRequest, ErrorInvalidList)
		return
	}
	if err != nil {
		storeError(w, err, ErrorInvalidUser)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// Suggestions returns accounts to follow: friends of friends from the
// graph, completed by the most followed profiles
func (rt *Router) Suggestions(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
		return
	}

	user, ok := rt.user(w, req)
	if !ok {
		return
	}

	ctx := req.Context()
	limit, _ := page(req, 10, 50)

	ids, err := rt.graph.Suggestions(ctx, user, limit)
	if err != nil {
		log.Printf("(Suggestions) Graph failed for %s: %v", user, err)
		ids = nil
	}

	list, err := rt.store.ProfilesByIDs(ctx, ids)
	if err != nil {
		storeError(w, err, ErrorInvalidUser)
		return
	}

	if len(list) < limit {
		popular, err := rt.store.PopularProfiles(ctx, user, limit)
		if err != nil {
			storeError(w, err, ErrorInvalidUser)
			return
		}

		seen := make(map[string]bool, len(list))
		for _, p := range list {
			seen[p.ID] = true
		}
		for _, p := range popular {
			if len(list) >= limit {
				break
			}
			if !seen[p.ID] && p.ID != user {
				seen[p.ID] = true
				list = append(list, p)
			}
		}
	}

	writeJSON(w, http.StatusOK, withoutEmails(list))
}

// withoutEmails hides emails of profiles shown to other users
func withoutEmails(list []model.Profile) []model.Profile {
	for i := range list {
		list[i].Email = ""
	}
	return list
}

// Feed returns the timeline of the current user
func (rt *Router) Feed(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
		return
	}

	user, ok := rt.user(w, req)
	if !ok {
		return
	}

	limit, offset := page(req, 20, 50)
	posts, err := rt.store.TimelineFeed(req.Context(), user, limit, offset)
	if err != nil {
		storeError(w, err, ErrorInvalidUser)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}
