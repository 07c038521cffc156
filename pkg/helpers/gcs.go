package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// MediaStore persists uploaded files and returns the URL they are served from.
// Delete takes a URL returned by Save; a missing object is not an error.
type MediaStore interface {
	Save(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// UploadObject uploads bytes from r into bucket/objectPath with the provided contentType
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath, contentType string, r io.Reader) (string, error) {
	wc := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(bucket, objectPath), nil
}

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}

// ObjectName builds a collision-free object path that keeps the upload's extension.
func ObjectName(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}

type GCSMediaStore struct {
	Client *storage.Client
	Bucket string
}

func NewGCSMediaStore(client *storage.Client, bucket string) *GCSMediaStore {
	return &GCSMediaStore{Client: client, Bucket: bucket}
}

func (s *GCSMediaStore) Save(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	return UploadObject(ctx, s.Client, s.Bucket, ObjectName(folder, filename), contentType, r)
}

func (s *GCSMediaStore) Delete(ctx context.Context, url string) error {
	name, ok := strings.CutPrefix(url, PublicURL(s.Bucket, ""))
	if !ok || name == "" {
		return fmt.Errorf("media url %q is not in bucket %s", url, s.Bucket)
	}
	err := s.Client.Bucket(s.Bucket).Object(name).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

// LocalMediaStore writes uploads under Dir and serves them from BaseURL.
type LocalMediaStore struct {
	Dir     string
	BaseURL string
}

func NewLocalMediaStore(dir, baseURL string) *LocalMediaStore {
	return &LocalMediaStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalMediaStore) Save(ctx context.Context, folder, filename, _ string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := ObjectName(folder, filename)
	dst := filepath.Join(s.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return s.BaseURL + "/" + name, nil
}

func (s *LocalMediaStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, ok := strings.CutPrefix(url, s.BaseURL+"/")
	if !ok || name == "" || !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("media url %q is not under %s", url, s.BaseURL)
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(name)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
