package router

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/Gravitalia/nido/database"
	"github.com/Gravitalia/nido/helpers"
	"github.com/Gravitalia/nido/model"
)

const maxBioLength = 160

// UserHandler route /users/* route into the well path
func (rt *Router) UserHandler(w http.ResponseWriter, req *http.Request) {
	id := strings.Trim(strings.TrimPrefix(req.URL.Path, "/users/"), "/")

	switch {
	case id == "":
		writeError(w, http.StatusBadRequest, ErrorInvalidUser)
	case req.Method == http.MethodGet:
		rt.Users(w, req, id)
	case id == ME && req.Method == http.MethodPatch:
		rt.update(w, req)
	case id == ME && req.Method == http.MethodDelete:
		rt.Delete(w, req)
	default:
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
	}
}

// findProfile looks a profile up by ID, then by username. Only well
// formed IDs go through the cache
func (rt *Router) findProfile(ctx context.Context, id string) (model.Profile, error) {
	if helpers.IsID(id) {
		profile, err := rt.profile(ctx, id)
		if !errors.Is(err, database.ErrNotFound) {
			return profile, err
		}
	}

	list, err := rt.store.ProfilesByUsernames(ctx, []string{id})
	if err != nil {
		return model.Profile{}, err
	} else if len(list) == 0 {
		return model.Profile{}, database.ErrNotFound
	}

	return list[0], nil
}

// Users is the GET route
func (rt *Router) Users(w http.ResponseWriter, req *http.Request, id string) {
	ctx := req.Context()

	viewer, ok := rt.viewer(w, req)
	if !ok {
		return
	}

	if id == ME {
		if viewer == "" {
			writeError(w, http.StatusUnauthorized, ErrorInvalidToken)
			return
		}
		id = viewer
	}

	profile, err := rt.findProfile(ctx, id)
	if err != nil {
		storeError(w, err, ErrorInvalidUser)
		return
	}
	if profile.Suspended {
		writeError(w, http.StatusNotFound, ErrorInvalidUser)
		return
	}

	settings, err := rt.store.GetSettings(ctx, profile.ID)
	if err != nil {
		storeError(w, err, ErrorInvalidUser)
		return
	}

	view := model.ProfileView{
		Profile: profile,
		Public:  !settings.PrivateAccount,
		Posts:   make([]model.Post, 0),
	}

	if viewer == profile.ID {
		view.CanAccessPosts = true
	} else {
		view.Email = ""

		blockedByTarget := false
		if viewer != "" {
			if view.IsFollowing, err = rt.store.IsFollowing(ctx, viewer, profile.ID); err != nil {
				storeError(w, err, ErrorInvalidUser)
				return
			}
			if view.IsBlocked, err = rt.store.IsBlocked(ctx, viewer, profile.ID); err != nil {
				storeError(w, err, ErrorInvalidUser)
				return
			}
			if blockedByTarget, err = rt.store.IsBlocked(ctx, profile.ID, viewer); err != nil {
				storeError(w, err, ErrorInvalidUser)
				return
			}
		}

		view.CanAccessPosts = database.CanSeePosts(viewer, profile.ID, settings.PrivateAccount, view.IsFollowing) && !blockedByTarget
	}

	if view.CanAccessPosts {
		limit, offset := page(req, 20, 50)
		if view.Posts, err = rt.store.GetUserPosts(ctx, profile.ID, viewer, limit, offset); err != nil {
			storeError(w, err, ErrorInvalidUser)
			return
		}
	}

	writeJSON(w, http.StatusOK, view)
}

// validateUpdate trims and checks every field set in the body
func validateUpdate(body *model.UpdateBody) error {
	trim := func(field *string) {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
	trim(body.Username)
	trim(body.Email)
	trim(body.Bio)
	trim(body.Location)
	trim(body.Website)

	if body.Username != nil {
		if err := helpers.ValidateUsername(*body.Username); err != nil {
			return err
		}
	}
	if body.Email != nil {
		if err := helpers.ValidateEmail(*body.Email); err != nil {
			return err
		}
	}
	if body.Bio != nil && utf8.RuneCountInString(*body.Bio) > maxBioLength {
		return errors.New("bio is too long")
	}

	return nil
}

// update allows users to edit their profile
func (rt *Router) update(w http.ResponseWriter, req *http.Request) {
	id, ok := rt.user(w, req)
	if !ok {
		return
	}

	var body model.UpdateBody
	if !decode(w, req, &body) {
		return
	}

	if body.Empty() {
		writeError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	}
	if err := validateUpdate(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	previous, err := rt.profile(req.Context(), id)
	if err != nil {
		storeError(w, err, ErrorInvalidUser)
		return
	}

	profile, err := rt.store.UpdateProfile(req.Context(), id, body)
	if err != nil {
		storeError(w, err, ErrorInvalidUser)
		return
	}

	if body.AvatarURL != nil && *body.AvatarURL != previous.AvatarURL {
		rt.removeObject(req.Context(), id, previous.AvatarURL)
	}
	if body.CoverURL != nil && *body.CoverURL != previous.CoverURL {
		rt.removeObject(req.Context(), id, previous.CoverURL)
	}

	rt.cache.Delete(profileKey(id))
	rt.publisher.Publish(helpers.AuthSubject(id), model.AuthEvent{
		Type:   model.UserUpdated,
		UserID: id,
	})

	writeJSON(w, http.StatusOK, profile)
}

// Delete allows users to delete their account. Moderation may
// delete any account with the global token and ?user=
func (rt *Router) Delete(w http.ResponseWriter, req *http.Request) {
	var id string
	if rt.isAdmin(req) {
		id = req.URL.Query().Get("user")
		if id == "" {
			writeError(w, http.StatusBadRequest, ErrorInvalidUser)
			return
		}
	} else {
		claims, sent, err := rt.claims(req)
		if !sent || err != nil {
			writeError(w, http.StatusUnauthorized, ErrorInvalidToken)
			return
		}
		id = claims.Subject
		defer rt.sessions.Revoke(claims)
	}

	if err := rt.store.DeleteProfile(req.Context(), id); err != nil {
		storeError(w, err, ErrorInvalidUser)
		return
	}

	if err := rt.graph.DeleteUser(req.Context(), id); err != nil {
		log.Printf("(Delete) Cannot delete graph user %s: %v", id, err)
	}
	rt.cache.Delete(profileKey(id))
	rt.cache.Delete(unreadKey(id))
	rt.publisher.Publish(helpers.AuthSubject(id), model.AuthEvent{
		Type:   model.UserDeleted,
		UserID: id,
	})

	writeOk(w, Ok)
}

// SettingsHandler reads or edits the settings of the current user
func (rt *Router) SettingsHandler(w http.ResponseWriter, req *http.Request) {
	if strings.Trim(strings.TrimPrefix(req.URL.Path, "/settings/"), "/") != ME {
		writeError(w, http.StatusNotFound, ErrorInvalidUser)
		return
	}

	id, ok := rt.user(w, req)
	if !ok {
		return
	}

	switch req.Method {
	case http.MethodGet:
		settings, err := rt.store.GetSettings(req.Context(), id)
		if err != nil {
			storeError(w, err, ErrorInvalidUser)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	case http.MethodPatch:
		var body model.SettingsBody
		if !decode(w, req, &body) {
			return
		}

		settings, err := rt.store.UpdateSettings(req.Context(), id, body)
		if err != nil {
			storeError(w, err, ErrorInvalidUser)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	default:
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
	}
}
