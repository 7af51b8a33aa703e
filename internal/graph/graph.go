// Package graph builds the include dependency graph of a source tree.
package graph

import (
	"errors"
	"strings"

	"preproc/internal/directive"
	"preproc/internal/source"
)

// InsertionPoint records where in a file another file's content is spliced in.
type InsertionPoint struct {
	Index  int    // 0-based line index of the directive
	Target string // identity of the included file
}

// Record is one graph entry: a file's full content plus its insertion points
// in top-to-bottom discovery order.
type Record struct {
	Content string
	Points  []InsertionPoint
}

// Graph maps each discovered file's identity to its record. Map order
// carries no meaning; the order of each record's points does.
type Graph map[string]*Record

// maxDepth bounds include nesting so a runaway chain fails cleanly instead
// of exhausting the stack.
const maxDepth = 4096

// ErrDepthExceeded reports an include chain nested deeper than maxDepth.
var ErrDepthExceeded = errors.New("include depth exceeded")

// Build discovers every file transitively reachable from seed and returns
// the seed's resolved identity together with the finished graph. The first
// unresolvable reference or malformed directive aborts the whole build; no
// partial graph is returned.
func Build(seed string, fetcher source.Fetcher, parser directive.LineParser) (string, Graph, error) {
	ref := source.LocalTo(seed, "./")
	identity, err := fetcher.Resolve(ref)
	if err != nil {
		return "", nil, err
	}

	g := make(Graph)
	if err := visit(ref, g, fetcher, parser, 0); err != nil {
		return "", nil, err
	}
	return identity, g, nil
}

func visit(ref source.Reference, g Graph, fetcher source.Fetcher, parser directive.LineParser, depth int) error {
	if depth > maxDepth {
		return ErrDepthExceeded
	}

	file, err := fetcher.Fetch(ref)
	if err != nil {
		return err
	}

	// The placeholder must land before any child is visited; it is what
	// stops a cyclic include from recursing forever.
	g[file.Identity] = &Record{}

	points, err := directive.Scan(Lines(file.Content), parser)
	if err != nil {
		return err
	}

	record := &Record{Content: file.Content}
	for _, p := range points {
		childRef := referenceFor(p.Directive, file.Identity)
		target, err := fetcher.Resolve(childRef)
		if err != nil {
			return err
		}

		// A later directive to an already-recorded target within the
		// same file is dropped.
		if record.hasPoint(target) {
			continue
		}
		if _, seen := g[target]; !seen {
			if err := visit(childRef, g, fetcher, parser, depth+1); err != nil {
				return err
			}
		}
		record.Points = append(record.Points, InsertionPoint{Index: p.Line, Target: target})
	}

	g[file.Identity] = record
	return nil
}

func referenceFor(d directive.Directive, parent string) source.Reference {
	if d.Kind == directive.IncludeLocal {
		return source.LocalTo(d.Name, parent)
	}
	return source.Global(d.Name)
}

func (r *Record) hasPoint(target string) bool {
	for _, p := range r.Points {
		if p.Target == target {
			return true
		}
	}
	return false
}

// Lines splits text into lines the way the preprocessor counts them: a
// trailing newline terminates the final line rather than opening an empty
// one, and \r\n endings are accepted.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
