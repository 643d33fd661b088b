package router

import (
	"net/http"
	"strings"

	"github.com/Gravitalia/nido/model"
)

const NEW = "new"

// PostHandler re-routes to the requested handler
func (rt *Router) PostHandler(w http.ResponseWriter, req *http.Request) {
	id := strings.Trim(strings.TrimPrefix(req.URL.Path, "/posts/"), "/")

	switch {
	case id == "" || strings.Contains(id, "/"):
		writeError(w, http.StatusNotFound, ErrorInvalidPost)
	case id == NEW && req.Method == http.MethodPost:
		rt.NewPost(w, req)
	case id != NEW && req.Method == http.MethodGet:
		rt.GetPost(w, req, id)
	case id != NEW && req.Method == http.MethodDelete:
		rt.DeletePost(w, req, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
	}
}

// NewPost routes allows to create a new post
func (rt *Router) NewPost(w http.ResponseWriter, req *http.Request) {
	id, ok := rt.user(w, req)
	if !ok {
		return
	}

	var body model.PostBody
	if !decode(w, req, &body) {
		return
	}

	post, err := rt.store.CreatePost(req.Context(), id, body)
	if err != nil {
		storeError(w, err, ErrorInvalidPost)
		return
	}

	rt.cache.Delete(profileKey(id))
	rt.notifyPost(req.Context(), post)

	writeJSON(w, http.StatusCreated, post)
}

// GetPost routes to a post getter
func (rt *Router) GetPost(w http.ResponseWriter, req *http.Request, id string) {
	viewer, ok := rt.viewer(w, req)
	if !ok {
		return
	}

	post, err := rt.store.GetPost(req.Context(), id, viewer)
	if err != nil {
		storeError(w, err, ErrorInvalidPost)
		return
	}

	if viewer != post.AuthorID {
		if viewer != "" {
			blocked, err := rt.store.BlockedBetween(req.Context(), viewer, post.AuthorID)
			if err != nil {
				storeError(w, err, ErrorInvalidPost)
				return
			} else if blocked {
				writeError(w, http.StatusForbidden, ErrorInvalidPostAccess)
				return
			}
		}

		allowed, err := rt.store.CanAccessPosts(req.Context(), viewer, post.AuthorID)
		if err != nil {
			storeError(w, err, ErrorInvalidPost)
			return
		} else if !allowed {
			writeError(w, http.StatusForbidden, ErrorInvalidPostAccess)
			return
		}
	}

	writeJSON(w, http.StatusOK, post)
}

// DeletePost removes a post of the current user
func (rt *Router) DeletePost(w http.ResponseWriter, req *http.Request, id string) {
	user, ok := rt.user(w, req)
	if !ok {
		return
	}

	post, err := rt.store.GetPost(req.Context(), id, user)
	if err != nil {
		storeError(w, err, ErrorInvalidPost)
		return
	}

	if err := rt.store.DeletePost(req.Context(), id, user); err != nil {
		storeError(w, err, ErrorInvalidPost)
		return
	}

	rt.removeObject(req.Context(), user, post.ImageURL)
	rt.cache.Delete(profileKey(user))
	writeOk(w, Ok)
}
