package source

import "path"

// MemoryFetcher serves files from an in-memory map keyed by name. Identities
// are the map keys themselves; local references resolve against the parent
// key's slash-separated directory. Intended for tests and embedding.
type MemoryFetcher struct {
	files map[string]string
}

// NewMemoryFetcher returns an empty in-memory fetcher.
func NewMemoryFetcher() *MemoryFetcher {
	return &MemoryFetcher{files: make(map[string]string)}
}

// AddFile registers content under name.
func (m *MemoryFetcher) AddFile(name, content string) {
	m.files[name] = content
}

// Resolve implements Fetcher.
func (m *MemoryFetcher) Resolve(ref Reference) (string, error) {
	key := m.key(ref)
	if _, ok := m.files[key]; !ok {
		return "", &NotFoundError{Ref: ref}
	}
	return key, nil
}

// Fetch implements Fetcher.
func (m *MemoryFetcher) Fetch(ref Reference) (File, error) {
	key, err := m.Resolve(ref)
	if err != nil {
		return File{}, err
	}
	return File{Identity: key, Content: m.files[key]}, nil
}

func (m *MemoryFetcher) key(ref Reference) string {
	if !ref.Local {
		return ref.Name
	}
	return path.Join(path.Dir(ref.Parent), ref.Name)
}
