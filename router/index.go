package router

import (
	"fmt"
	"net/http"
)

const ME = "@me"

// Every possible error list
const (
	ErrorAlreadyExists       = "Already exists"
	ErrorBlocked             = "Blocked relation"
	ErrorInvalidBucket       = "Invalid bucket"
	ErrorInvalidCredentials  = "Invalid email or password"
	ErrorInvalidList         = "Invalid list"
	ErrorInvalidNotification = "Invalid notification"
	ErrorInvalidPost         = "Invalid post"
	ErrorInvalidPostAccess   = "No access to this post"
	ErrorInvalidToken        = "Invalid token"
	ErrorInvalidBody         = "Invalid body"
	ErrorInvalidRelation     = "Invalid relation"
	ErrorInvalidQuery        = "Invalid query"
	ErrorInvalidUser         = "Invalid user"
	ErrorMethodNotAllowed    = "Method not allowed"
	ErrorNotImage            = "Content is not an image"
	ErrorSelfRelation        = "Cannot relate to yourself"
	ErrorSuspended           = "Suspended account"
	ErrorTooLarge            = "Content too large"
	ErrorTooManyRequests     = "Too many requests"
	ErrorUnableReadBody      = "Unable to read body"
	ErrorUploading           = "Error occurs when uploading content"
	ErrorWithDatabase        = "Couldn't get database reponse"
)

// Every OK message reponse
const (
	Ok            = "OK"
	OkExistent    = "existent"
	OkNonExistent = "non-existent"
)

func Index(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	fmt.Fprintf(w, "OK")
}
