// Package source resolves file references to canonical identities and
// retrieves their raw content.
package source

import "fmt"

// Reference names a file to be resolved. A global reference is searched
// across the fetcher's configured directories; a local reference is resolved
// relative to the file identified by Parent.
type Reference struct {
	Name   string
	Parent string // identity of the including file; empty for global references
	Local  bool
}

// Global returns a reference searched across the configured directories.
func Global(name string) Reference {
	return Reference{Name: name}
}

// LocalTo returns a reference resolved relative to parent's directory.
func LocalTo(name, parent string) Reference {
	return Reference{Name: name, Parent: parent, Local: true}
}

func (r Reference) String() string {
	if r.Local {
		return fmt.Sprintf("%q (local to %s)", r.Name, r.Parent)
	}
	return fmt.Sprintf("<%s>", r.Name)
}

// NotFoundError reports a reference that could not be resolved or fetched.
type NotFoundError struct {
	Ref Reference
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found %s", e.Ref)
}

// File is a fetched file: its canonical identity and full raw content.
type File struct {
	Identity string
	Content  string
}

// Fetcher resolves references and retrieves content. Both methods fail with
// *NotFoundError when the reference does not name an existing file.
type Fetcher interface {
	// Resolve maps ref to its canonical identity without reading content.
	Resolve(ref Reference) (string, error)
	// Fetch resolves ref and reads its full content.
	Fetch(ref Reference) (File, error)
}
