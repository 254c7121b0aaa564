package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RishijManna/SpeechToText-translation/internal/config"
)

func TestArtifactKeyIsUniquePerCall(t *testing.T) {
	a := ArtifactKey("meeting.WAV")
	b := ArtifactKey("meeting.WAV")
	if a == b {
		t.Fatalf("two uploads of the same name produced the same key %q", a)
	}
	if !strings.HasSuffix(a, ".wav") {
		t.Errorf("key %q should keep the lowercased extension", a)
	}
	if k := ArtifactKey("../../etc/passwd"); strings.Contains(k, "/") || strings.Contains(k, "..") {
		t.Errorf("key %q leaks path elements from the client filename", k)
	}
	if k := ArtifactKey("noext"); strings.Contains(k, ".") {
		t.Errorf("key %q should have no extension", k)
	}
}

func TestLocalStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("NewLocalStorage() error = %v", err)
	}
	ctx := context.Background()

	if err := s.Upload(ctx, "a.wav", strings.NewReader("audio"), "audio/wav"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	rc, err := s.Download(ctx, "a.wav")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	got, _ := io.ReadAll(rc)
	rc.Close()
	if string(got) != "audio" {
		t.Errorf("Download() = %q, want audio", got)
	}

	if err := s.Delete(ctx, "a.wav"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "a.wav"); err != nil {
		t.Errorf("second Delete() error = %v, want nil", err)
	}
	if _, err := s.Download(ctx, "a.wav"); err == nil {
		t.Error("Download() after Delete should fail")
	}
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage() error = %v", err)
	}
	if err := s.Upload(context.Background(), "../escape.wav", strings.NewReader("x"), ""); err == nil {
		t.Fatal("Upload() with a traversal key should fail")
	}
}

func TestSupabaseStorage(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotAuth, gotType = r.Header.Get("Authorization"), r.Header.Get("Content-Type")
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL+"/", "svc-key", "audio")
	ctx := context.Background()

	if err := s.Upload(ctx, "k.mp3", strings.NewReader("data"), "audio/mpeg"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/storage/v1/object/audio/k.mp3" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if gotAuth != "Bearer svc-key" || gotType != "audio/mpeg" {
		t.Errorf("headers auth=%q type=%q", gotAuth, gotType)
	}

	if err := s.Delete(ctx, "k.mp3"); err != nil {
		t.Errorf("Delete() of a missing object error = %v, want nil", err)
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		cfg     config.StorageConfig
		wantErr bool
	}{
		{"local", config.StorageConfig{Backend: "local", UploadDir: filepath.Join(dir, "a")}, false},
		{"supabase", config.StorageConfig{Backend: "supabase", SupabaseURL: "http://x", SupabaseKey: "k", Bucket: "b"}, false},
		{"supabase without key", config.StorageConfig{Backend: "supabase", SupabaseURL: "http://x"}, true},
		{"unknown", config.StorageConfig{Backend: "ftp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
