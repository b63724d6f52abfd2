package model

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
)

// UploadPolicy bounds what identity documents are accepted.
type UploadPolicy struct {
	AllowedExtensions []string
	MaxSizeBytes      int64
}

// DefaultUploadPolicy mirrors the registration form contract: clear image
// of an ID card, at most 5 MiB.
func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{
		AllowedExtensions: []string{"jpg", "jpeg", "png"},
		MaxSizeBytes:      5 * 1024 * 1024,
	}
}

// Check validates a candidate upload against the policy.
func (p UploadPolicy) Check(filename string, size int64) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !slices.Contains(p.AllowedExtensions, ext) {
		return fmt.Errorf("file type %q is not allowed (allowed: %s)", ext, strings.Join(p.AllowedExtensions, ", "))
	}
	if size > p.MaxSizeBytes {
		return fmt.Errorf("file exceeds the maximum size of %d bytes", p.MaxSizeBytes)
	}
	return nil
}

// DocumentStore stores identity-document blobs and hands back an opaque
// reference key. Any error it reports surfaces to registrants as a
// validation failure, never as a crash.
type DocumentStore interface {
	Store(ctx context.Context, filename string, data []byte) (key string, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
