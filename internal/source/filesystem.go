package source

import (
	"os"
	"path/filepath"
	"strings"
)

// defaultSearchDir is always consulted last for global references.
const defaultSearchDir = "."

// FilesystemFetcher resolves references against the local filesystem. Global
// references are searched across an ordered list of directories, falling back
// to the working directory; identities are cleaned absolute paths.
type FilesystemFetcher struct {
	searchPaths []string
}

// NewFilesystemFetcher returns a fetcher with no extra search directories.
func NewFilesystemFetcher() *FilesystemFetcher {
	return &FilesystemFetcher{}
}

// AddPath appends dir to the global search order. Directories are consulted
// in the order they were added.
func (f *FilesystemFetcher) AddPath(dir string) {
	f.searchPaths = append(f.searchPaths, dir)
}

// Resolve implements Fetcher.
func (f *FilesystemFetcher) Resolve(ref Reference) (string, error) {
	if ref.Local {
		return f.resolveLocal(ref)
	}
	return f.resolveGlobal(ref)
}

// Fetch implements Fetcher.
func (f *FilesystemFetcher) Fetch(ref Reference) (File, error) {
	identity, err := f.Resolve(ref)
	if err != nil {
		return File{}, err
	}
	data, err := os.ReadFile(identity)
	if err != nil {
		return File{}, &NotFoundError{Ref: ref}
	}
	return File{Identity: identity, Content: string(data)}, nil
}

func (f *FilesystemFetcher) resolveGlobal(ref Reference) (string, error) {
	name := ref.Name

	// Absolute paths resolve by existence check alone.
	if filepath.IsAbs(name) {
		if !isFile(name) {
			return "", &NotFoundError{Ref: ref}
		}
		return filepath.Clean(name), nil
	}

	// Paths explicitly marked relative resolve against the working directory.
	if strings.HasPrefix(name, "./") || strings.HasPrefix(name, ".\\") {
		return normalize(name, ref)
	}

	// Flat names are searched across the configured directories.
	for _, dir := range f.searchPaths {
		if candidate := filepath.Join(dir, name); isFile(candidate) {
			return normalize(candidate, ref)
		}
	}
	if candidate := filepath.Join(defaultSearchDir, name); isFile(candidate) {
		return normalize(candidate, ref)
	}
	return "", &NotFoundError{Ref: ref}
}

func (f *FilesystemFetcher) resolveLocal(ref Reference) (string, error) {
	// An absolute name stands on its own; joining it onto the parent
	// would mangle it.
	if filepath.IsAbs(ref.Name) {
		return normalize(ref.Name, ref)
	}

	base := ref.Parent
	if isFile(base) {
		base = filepath.Dir(base)
	}
	return normalize(filepath.Join(base, ref.Name), ref)
}

// normalize turns path into a cleaned absolute identity, failing when the
// file does not exist.
func normalize(path string, ref Reference) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil || !isFile(abs) {
		return "", &NotFoundError{Ref: ref}
	}
	return abs, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
