package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"neeklo-backend/internal/shared/util"
)

// ErrNotFound is returned by Open for unknown keys.
var ErrNotFound = errors.New("object not found")

// ObjectStore archives lead briefs and other small documents.
type ObjectStore interface {
	// Save stores r under the owner's namespace and returns the generated storage key.
	Save(ctx context.Context, owner string, fileName string, contentType string, r io.Reader) (storageKey string, sizeBytes int64, err error)
	// Open returns the object stored under storageKey.
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// NewKey builds a portable storage key: yyyy/mm/dd/<owner hash>/<id>_<name>.
// Keys always use forward slashes.
func NewKey(owner, fileName string, now time.Time) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return path.Join(now.UTC().Format("2006/01/02"), util.HashOwnerKey(owner), id+"_"+name), nil
}

// ValidKey reports whether key is relative and free of traversal segments.
func ValidKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}
