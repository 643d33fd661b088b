package router

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Gravitalia/nido/database"
	"github.com/Gravitalia/nido/helpers"
	"github.com/Gravitalia/nido/model"
)

// AuthHandler re-routes to the requested handler
func (rt *Router) AuthHandler(w http.ResponseWriter, req *http.Request) {
	action := strings.Trim(strings.TrimPrefix(req.URL.Path, "/auth/"), "/")

	switch {
	case action == "signup" && req.Method == http.MethodPost:
		rt.SignUp(w, req)
	case action == "signin" && req.Method == http.MethodPost:
		rt.SignIn(w, req)
	case action == "signout" && req.Method == http.MethodPost:
		rt.SignOut(w, req)
	case action == "user" && req.Method == http.MethodGet:
		rt.CurrentUser(w, req)
	case action == "signup", action == "signin", action == "signout", action == "user":
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// session creates a token for profile and tells listeners
func (rt *Router) session(w http.ResponseWriter, status int, profile model.Profile) {
	token, expires, err := rt.sessions.CreateToken(profile.ID)
	if err != nil {
		log.Printf("(CreateToken) %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInvalidToken)
		return
	}

	rt.publisher.Publish(helpers.AuthSubject(profile.ID), model.AuthEvent{
		Type:   model.SignedIn,
		UserID: profile.ID,
	})

	writeJSON(w, status, model.Session{
		AccessToken: token,
		ExpiresAt:   expires,
		User:        profile,
	})
}

// SignUp creates an account with default settings
func (rt *Router) SignUp(w http.ResponseWriter, req *http.Request) {
	var body model.SignUpBody
	if !decode(w, req, &body) {
		return
	}

	body.Email = strings.TrimSpace(body.Email)
	body.Username = strings.TrimSpace(body.Username)
	if err := helpers.ValidateCredentials(body.Email, body.Username, body.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := helpers.HashPassword(body.Password)
	if err != nil {
		log.Printf("(HashPassword) %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInvalidBody)
		return
	}

	profile, err := rt.store.CreateProfile(req.Context(), model.Profile{
		ID:       helpers.NewID(),
		Username: body.Username,
		Email:    body.Email,
	}, hash)
	if err != nil {
		storeError(w, err, ErrorInvalidUser)
		return
	}

	if _, err := rt.store.UpdateSettings(req.Context(), profile.ID, model.SettingsBody{}); err != nil {
		log.Printf("(SignUp) Cannot save settings of %s: %v", profile.ID, err)
	}
	if err := rt.graph.CreateUser(req.Context(), profile.ID); err != nil {
		log.Printf("(SignUp) Cannot create graph user %s: %v", profile.ID, err)
	}

	rt.session(w, http.StatusCreated, profile)
}

// SignIn checks email and password
func (rt *Router) SignIn(w http.ResponseWriter, req *http.Request) {
	var body model.SignInBody
	if !decode(w, req, &body) {
		return
	}

	profile, hash, err := rt.store.GetCredentials(req.Context(), strings.TrimSpace(body.Email))
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, ErrorInvalidCredentials)
		return
	} else if err != nil {
		storeError(w, err, ErrorInvalidCredentials)
		return
	}

	if helpers.CheckPasswordHash(hash, body.Password) != nil {
		writeError(w, http.StatusUnauthorized, ErrorInvalidCredentials)
		return
	}
	if profile.Suspended {
		writeError(w, http.StatusForbidden, ErrorInvalidUser)
		return
	}

	rt.session(w, http.StatusOK, profile)
}

// SignOut revokes the token used for the request
func (rt *Router) SignOut(w http.ResponseWriter, req *http.Request) {
	claims, sent, err := rt.claims(req)
	if !sent || err != nil {
		writeError(w, http.StatusUnauthorized, ErrorInvalidToken)
		return
	}

	rt.sessions.Revoke(claims)
	rt.publisher.Publish(helpers.AuthSubject(claims.Subject), model.AuthEvent{
		Type:   model.SignedOut,
		UserID: claims.Subject,
	})

	writeOk(w, Ok)
}

// CurrentUser returns the profile behind the token
func (rt *Router) CurrentUser(w http.ResponseWriter, req *http.Request) {
	id, ok := rt.user(w, req)
	if !ok {
		return
	}

	profile, err := rt.store.GetProfile(req.Context(), id)
	if err != nil {
		storeError(w, err, ErrorInvalidUser)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
