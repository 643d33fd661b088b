package router

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/Gravitalia/nido/model"
	"github.com/Gravitalia/nido/storage"
)

const publicPrefix = "/storage/object/public"

// StorageHandler uploads images and serves stored files
func (rt *Router) StorageHandler(w http.ResponseWriter, req *http.Request) {
	if strings.HasPrefix(req.URL.Path, publicPrefix+"/") {
		if rt.files == nil {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		http.StripPrefix(publicPrefix, rt.files).ServeHTTP(w, req)
		return
	}

	if req.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
		return
	}
	rt.Upload(w, req)
}

// Upload stores the raw image body in a bucket and returns its URL
func (rt *Router) Upload(w http.ResponseWriter, req *http.Request) {
	user, ok := rt.user(w, req)
	if !ok {
		return
	}

	bucket := strings.Trim(strings.TrimPrefix(req.URL.Path, "/storage/"), "/")
	if err := storage.CheckBucket(bucket); err != nil {
		writeError(w, http.StatusBadRequest, ErrorInvalidBucket)
		return
	}

	if rt.storage == nil {
		writeError(w, http.StatusServiceUnavailable, ErrorUploading)
		return
	}

	defer req.Body.Close()
	data, err := io.ReadAll(http.MaxBytesReader(w, req.Body, rt.maxUploadBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, ErrorTooLarge)
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorUnableReadBody)
		return
	}

	contentType, err := storage.CheckImage(data, rt.maxUploadBytes)
	if errors.Is(err, storage.ErrTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, ErrorTooLarge)
		return
	} else if err != nil {
		writeError(w, http.StatusUnsupportedMediaType, ErrorNotImage)
		return
	}

	path := storage.ObjectPath(user, req.URL.Query().Get("filename"), contentType, rt.now())
	url, err := rt.storage.Upload(req.Context(), bucket, path, data, contentType)
	if err != nil {
		log.Printf("(Upload) Cannot store %s/%s: %v", bucket, path, err)
		writeError(w, http.StatusInternalServerError, ErrorUploading)
		return
	}

	writeJSON(w, http.StatusCreated, model.Upload{URL: url})
}

// removeObject deletes a stored file replaced or orphaned by owner.
// Links outside the storage or owned by someone else are left alone
func (rt *Router) removeObject(ctx context.Context, owner, link string) {
	if rt.storage == nil || link == "" {
		return
	}

	bucket, objectPath, ok := storage.Locate(link)
	if !ok || !strings.HasPrefix(objectPath, owner+"/") {
		return
	}

	if err := rt.storage.Remove(ctx, bucket, objectPath); err != nil {
		log.Printf("(removeObject) Cannot remove %s/%s: %v", bucket, objectPath, err)
	}
}
