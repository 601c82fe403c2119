package catalog

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Upload directories under the media root.
const (
	CategoryImageDir    = "categories"
	SubcategoryImageDir = "subcategories"
	ProductImageDir     = "products/original"
)

// MediaStore copies uploaded files under the media root.
type MediaStore struct {
	root string
}

func NewMediaStore(root string) *MediaStore {
	return &MediaStore{root: root}
}

// Import copies src into dir and returns the media-relative path. When dir
// already holds a file with the same stem (apple.jpg vs apple.png) the copy
// gets a uuid suffix, so files and their derived thumbnails never collide.
func (m *MediaStore) Import(src, dir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer in.Close()

	name := filepath.Base(src)
	rel := path.Join(dir, name)
	if m.stemTaken(dir, name) {
		ext := path.Ext(name)
		uniqueID := strings.SplitN(uuid.New().String(), "-", 2)[0]
		rel = path.Join(dir, strings.TrimSuffix(name, ext)+"_"+uniqueID+ext)
	}

	target := m.abs(rel)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", rel, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("copy %s: %w", rel, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", rel, err)
	}
	return rel, nil
}

func (m *MediaStore) stemTaken(dir, name string) bool {
	entries, err := os.ReadDir(m.abs(dir))
	if err != nil {
		return false
	}
	stem := strings.TrimSuffix(name, path.Ext(name))
	for _, e := range entries {
		if strings.TrimSuffix(e.Name(), path.Ext(e.Name())) == stem {
			return true
		}
	}
	return false
}

func (m *MediaStore) abs(rel string) string {
	return filepath.Join(m.root, filepath.FromSlash(rel))
}
