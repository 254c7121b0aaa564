package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/RishijManna/SpeechToText-translation/internal/config"
)

// Storage persists uploaded artifacts by key.
type Storage interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// ArtifactKey derives a request-unique storage key for an uploaded file,
// keeping only a sanitised extension from the client-supplied name.
func ArtifactKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return uuid.NewString() + ext
}

// New builds the backend named by cfg.Backend.
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Backend {
	case "local", "":
		return NewLocalStorage(cfg.UploadDir)
	case "supabase":
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			return nil, fmt.Errorf("supabase storage requires SUPABASE_URL and SUPABASE_SERVICE_KEY")
		}
		return NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseKey, cfg.Bucket), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
