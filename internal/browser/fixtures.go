package browser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aleister1102/toughcanvas/internal/common"
)

const fileScheme = "file://"

// FixtureResolver maps relative file:// page URLs onto absolute paths under a
// base directory. Remote URLs pass through untouched.
type FixtureResolver struct {
	baseDir string
}

// NewFixtureResolver resolves fixtures against baseDir
func NewFixtureResolver(baseDir string) (*FixtureResolver, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to resolve fixture base dir %q", baseDir)
	}
	return &FixtureResolver{baseDir: abs}, nil
}

// BaseDir returns the absolute base directory
func (r *FixtureResolver) BaseDir() string {
	return r.baseDir
}

// LocalPath returns the on-disk path of a file:// URL, without its query or fragment
func (r *FixtureResolver) LocalPath(raw string) (string, error) {
	rest, ok := strings.CutPrefix(raw, fileScheme)
	if !ok || rest == "" {
		return "", common.NewValidationError("url", raw, "not a file:// fixture URL")
	}

	path, _ := splitSuffix(rest)
	if !filepath.IsAbs(filepath.FromSlash(path)) {
		path = filepath.Join(r.baseDir, filepath.FromSlash(path))
	}
	return filepath.Clean(path), nil
}

// Exists reports whether the fixture behind a file:// URL is present
func (r *FixtureResolver) Exists(raw string) (bool, error) {
	path, err := r.LocalPath(raw)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// Resolve returns the URL to hand to the browser. Missing fixtures are errors.
func (r *FixtureResolver) Resolve(raw string) (string, error) {
	if !strings.HasPrefix(raw, fileScheme) {
		return raw, nil
	}

	path, err := r.LocalPath(raw)
	if err != nil {
		return "", err
	}
	ok, err := r.Exists(raw)
	if err != nil {
		return "", common.WrapErrorf(err, "failed to stat fixture %s", path)
	}
	if !ok {
		return "", common.WrapErrorf(common.ErrNotFound, "fixture %s", path)
	}

	_, suffix := splitSuffix(strings.TrimPrefix(raw, fileScheme))
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return fileScheme + slashed + suffix, nil
}

// splitSuffix separates a path from its ?query or #fragment
func splitSuffix(rest string) (string, string) {
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		return rest[:i], rest[i:]
	}
	return rest, ""
}
