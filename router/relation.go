package router

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/Gravitalia/nido/database"
	"github.com/Gravitalia/nido/helpers"
	"github.com/Gravitalia/nido/model"
)

// RelationHandler re-routes to the requested handler
func (rt *Router) RelationHandler(w http.ResponseWriter, req *http.Request) {
	relation, ok := helpers.RelationKind(strings.TrimPrefix(req.URL.Path, "/relation/"))
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorInvalidRelation)
		return
	}

	switch req.Method {
	case http.MethodGet:
		rt.Exists(w, req, relation)
	case http.MethodPost:
		rt.Relation(w, req, relation, database.Toggle)
	case http.MethodPut:
		rt.Relation(w, req, relation, database.Create)
	case http.MethodDelete:
		rt.Relation(w, req, relation, database.Remove)
	default:
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
	}
}

type setter func(ctx context.Context, user, target string) (model.RelationState, error)

// setters returns the store method creating, removing or toggling relation
func (rt *Router) setters(relation string) (toggle, create, remove setter) {
	switch relation {
	case model.RelationLike:
		return rt.store.ToggleLike, rt.store.Like, rt.store.Unlike
	case model.RelationFollow:
		return rt.store.ToggleFollow, rt.store.Follow, rt.store.Unfollow
	default:
		return rt.store.ToggleBlock, rt.store.Block, rt.store.Unblock
	}
}

// Relation is a route for allowing users to subscribe to each other,
// block each other or like posts, depending on the chosen route.
// POST toggles the relation, PUT creates it and DELETE removes it
func (rt *Router) Relation(w http.ResponseWriter, req *http.Request, relation string, mode database.Mode) {
	user, ok := rt.user(w, req)
	if !ok {
		return
	}

	var body model.SetBody
	if !decode(w, req, &body) {
		return
	}
	if body.ID = strings.TrimSpace(body.ID); body.ID == "" {
		writeError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	}

	ctx := req.Context()
	toggle, create, remove := rt.setters(relation)

	var (
		state model.RelationState
		err   error
		// created reports a relation that did not exist before
		created bool
	)
	switch mode {
	case database.Create:
		var existed bool
		if existed, err = rt.exists(ctx, relation, user, body.ID); err == nil {
			state, err = create(ctx, user, body.ID)
			created = !existed
		}
	case database.Remove:
		state, err = remove(ctx, user, body.ID)
	default:
		state, err = toggle(ctx, user, body.ID)
		created = state.Active
	}
	if err != nil {
		if relation == model.RelationLike {
			storeError(w, err, ErrorInvalidPost)
		} else {
			storeError(w, err, ErrorInvalidUser)
		}
		return
	}

	switch relation {
	case model.RelationLike:
		if created {
			rt.notifyLike(ctx, user, body.ID)
		}
	case model.RelationFollow:
		rt.mirror(ctx, user, body.ID, relation, state.Active)
		rt.cache.Delete(profileKey(user))
		rt.cache.Delete(profileKey(body.ID))
		if created {
			rt.notify(ctx, body.ID, user, model.NotificationFollow, "")
		}
	case model.RelationBlock:
		rt.mirror(ctx, user, body.ID, relation, state.Active)
		rt.cache.Delete(profileKey(user))
		rt.cache.Delete(profileKey(body.ID))
	}

	writeJSON(w, http.StatusOK, state)
}

func (rt *Router) notifyLike(ctx context.Context, user, post string) {
	liked, err := rt.store.GetPost(ctx, post, user)
	if err != nil {
		log.Printf("(Notify) Cannot get liked post %s: %v", post, err)
		return
	}
	rt.notify(ctx, liked.AuthorID, user, model.NotificationLike, post)
}

// mirror copies a relation change into the graph
func (rt *Router) mirror(ctx context.Context, user, to, relation string, active bool) {
	var err error
	if active {
		err = rt.graph.Relate(ctx, user, to, relation)
	} else {
		err = rt.graph.Unrelate(ctx, user, to, relation)
	}
	if err != nil {
		log.Printf("(Graph) Cannot mirror %s from %s to %s: %v", relation, user, to, err)
	}
}

// Exists handles route to know if a relation
// exists between two nodes
func (rt *Router) Exists(w http.ResponseWriter, req *http.Request, relation string) {
	user, ok := rt.user(w, req)
	if !ok {
		return
	}

	target := req.URL.Query().Get("target")
	if target == "" {
		writeError(w, http.StatusBadRequest, ErrorInvalidQuery)
		return
	}

	exists, err := rt.exists(req.Context(), relation, user, target)
	if err != nil {
		storeError(w, err, ErrorInvalidRelation)
		return
	}

	if exists {
		writeOk(w, OkExistent)
	} else {
		writeOk(w, OkNonExistent)
	}
}

func (rt *Router) exists(ctx context.Context, relation, user, target string) (bool, error) {
	switch relation {
	case model.RelationLike:
		return rt.store.IsLiked(ctx, user, target)
	case model.RelationFollow:
		return rt.store.IsFollowing(ctx, user, target)
	default:
		return rt.store.IsBlocked(ctx, user, target)
	}
}
