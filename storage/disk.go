package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Disk stores objects as files, under <dir>/<bucket>/<path>
type Disk struct {
	dir       string
	publicURL string
}

func NewDisk(dir, publicURL string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Disk{dir: dir, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

func (d *Disk) file(bucket, objectPath string) (string, string, error) {
	if err := CheckBucket(bucket); err != nil {
		return "", "", err
	}

	cleaned, err := cleanPath(objectPath)
	if err != nil {
		return "", "", err
	}

	return filepath.Join(d.dir, bucket, filepath.FromSlash(cleaned)), cleaned, nil
}

// Upload writes data, replacing any object with the same path
func (d *Disk) Upload(_ context.Context, bucket, objectPath string, data []byte, _ string) (string, error) {
	name, cleaned, err := d.file(bucket, objectPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return "", err
	}

	tmp := name + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, name); err != nil {
		os.Remove(tmp)
		return "", err
	}

	return d.publicURL + "/" + bucket + "/" + cleaned, nil
}

// Remove deletes an object. A missing object is not an error
func (d *Disk) Remove(_ context.Context, bucket, objectPath string) error {
	name, _, err := d.file(bucket, objectPath)
	if err != nil {
		return err
	}

	if err := os.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Handler serves stored objects read-only, without directory listings
func (d *Disk) Handler() http.Handler {
	files := http.FileServer(http.Dir(d.dir))
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if req.URL.Path == "" || strings.HasSuffix(req.URL.Path, "/") {
			http.NotFound(w, req)
			return
		}
		files.ServeHTTP(w, req)
	})
}
