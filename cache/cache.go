package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache stores rendered pages by section (services, blog, ...) and slug.
type Cache interface {
	Get(ctx context.Context, section, slug string) ([]byte, bool)
	Set(ctx context.Context, section, slug string, page []byte) error
	// ClearSection drops every page of a section.
	ClearSection(ctx context.Context, section string) error
}

// generateHash generates an xxHash hash for the given string
func generateHash(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}

// FileCache keeps one HTML file per page under Dir/<section>/.
type FileCache struct {
	Dir    string
	MaxAge time.Duration
}

func NewFileCache(dir string, maxAge time.Duration) *FileCache {
	return &FileCache{Dir: dir, MaxAge: maxAge}
}

// Path returns the cache file for a page. Slugs are hashed so arbitrary
// characters never reach the filesystem.
func (f *FileCache) Path(section, slug string) string {
	return filepath.Join(f.Dir, section, generateHash(section+"/"+slug)+".html")
}

func (f *FileCache) Get(_ context.Context, section, slug string) ([]byte, bool) {
	path := f.Path(section, slug)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if f.MaxAge > 0 && time.Since(info.ModTime()) > f.MaxAge {
		return nil, false
	}

	page, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return page, true
}

func (f *FileCache) Set(_ context.Context, section, slug string, page []byte) error {
	if err := os.MkdirAll(filepath.Join(f.Dir, section), 0755); err != nil {
		return err
	}
	return os.WriteFile(f.Path(section, slug), page, 0644)
}

func (f *FileCache) ClearSection(_ context.Context, section string) error {
	err := os.RemoveAll(filepath.Join(f.Dir, section))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, string) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, string, []byte) error { return nil }
func (Nop) ClearSection(context.Context, string) error { return nil }
