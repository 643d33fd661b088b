package router

import (
	"net/http"

	"github.com/Gravitalia/nido/model"
)

// NotificationHandler re-routes to the requested handler
func (rt *Router) NotificationHandler(w http.ResponseWriter, req *http.Request) {
	user, ok := rt.user(w, req)
	if !ok {
		return
	}

	parts := segments(req.URL.Path, "/notifications")
	switch {
	case len(parts) == 0 && req.Method == http.MethodGet:
		rt.listNotifications(w, req, user)
	case len(parts) == 1 && parts[0] == "unread" && req.Method == http.MethodGet:
		rt.unread(w, req, user)
	case len(parts) == 1 && parts[0] == "read" && req.Method == http.MethodPost:
		if err := rt.store.MarkAllAsRead(req.Context(), user); err != nil {
			storeError(w, err, ErrorInvalidNotification)
			return
		}
		rt.cache.Delete(unreadKey(user))
		writeOk(w, Ok)
	case len(parts) == 2 && parts[1] == "read" && req.Method == http.MethodPost:
		if err := rt.store.MarkAsRead(req.Context(), parts[0], user); err != nil {
			storeError(w, err, ErrorInvalidNotification)
			return
		}
		rt.cache.Delete(unreadKey(user))
		writeOk(w, Ok)
	case len(parts) == 1 && req.Method == http.MethodDelete:
		if err := rt.store.DeleteNotification(req.Context(), parts[0], user); err != nil {
			storeError(w, err, ErrorInvalidNotification)
			return
		}
		rt.cache.Delete(unreadKey(user))
		writeOk(w, Ok)
	case len(parts) > 2:
		writeError(w, http.StatusNotFound, ErrorInvalidNotification)
	default:
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
	}
}

func (rt *Router) listNotifications(w http.ResponseWriter, req *http.Request, user string) {
	limit, offset := page(req, 20, 50)
	list, err := rt.store.GetNotifications(req.Context(), user, limit, offset)
	if err != nil {
		storeError(w, err, ErrorInvalidNotification)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// unread counts unread notifications, through the cache
func (rt *Router) unread(w http.ResponseWriter, req *http.Request, user string) {
	var count model.UnreadCount
	if !rt.cache.Get(unreadKey(user), &count) {
		n, err := rt.store.UnreadCount(req.Context(), user)
		if err != nil {
			storeError(w, err, ErrorInvalidNotification)
			return
		}
		count.Count = n
		rt.cache.Set(unreadKey(user), count, unreadTTL)
	}

	writeJSON(w, http.StatusOK, count)
}
