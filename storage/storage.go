package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// Buckets accepted by the storage
const (
	Avatars = "avatars"
	Covers  = "covers"
	Posts   = "posts"
)

var (
	ErrInvalidBucket = errors.New("invalid bucket")
	ErrInvalidPath   = errors.New("invalid object path")
	ErrNotImage      = errors.New("content is not an image")
	ErrTooLarge      = errors.New("content too large")
)

// Store keeps uploaded objects and returns their public URL
type Store interface {
	Upload(ctx context.Context, bucket, objectPath string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, bucket, objectPath string) error
}

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/bmp":  "bmp",
}

// CheckBucket rejects unknown buckets
func CheckBucket(bucket string) error {
	switch bucket {
	case Avatars, Covers, Posts:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidBucket, bucket)
}

// CheckImage sniffs the content type of data, which must be an
// image no larger than max bytes
func CheckImage(data []byte, max int64) (string, error) {
	if max > 0 && int64(len(data)) > max {
		return "", ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}

	return contentType, nil
}

// ObjectPath names an upload <user>/<unix millis>.<extension>. The
// extension comes from filename, or from the content type
func ObjectPath(user, filename, contentType string, now time.Time) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if !isAlnum(ext) {
		ext = ""
	}
	if ext == "" {
		ext = extensions[contentType]
	}
	if ext == "" {
		ext = "img"
	}

	return user + "/" + strconv.FormatInt(now.UnixMilli(), 10) + "." + ext
}

// Locate reads the bucket and object path back from a public URL,
// ending with <bucket>/<user>/<file>
func Locate(link string) (string, string, bool) {
	u, err := url.Parse(link)
	if err != nil || u.Path == "" {
		return "", "", false
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 3 {
		return "", "", false
	}

	parts = parts[len(parts)-3:]
	if CheckBucket(parts[0]) != nil {
		return "", "", false
	}

	objectPath, err := cleanPath(parts[1] + "/" + parts[2])
	if err != nil {
		return "", "", false
	}

	return parts[0], objectPath, true
}

func isAlnum(s string) bool {
	if s == "" || len(s) > 8 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// cleanPath refuses paths leaving their bucket
func cleanPath(objectPath string) (string, error) {
	cleaned := path.Clean("/" + objectPath)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(objectPath, "/") || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, objectPath)
	}
	return cleaned, nil
}
