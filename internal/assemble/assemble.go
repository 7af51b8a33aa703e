// Package assemble flattens a dependency graph into a single output text.
package assemble

import (
	"errors"
	"sort"
	"strings"

	"preproc/internal/graph"
)

// ErrEmptyGraph reports an assembly request over a graph with no entries.
var ErrEmptyGraph = errors.New("empty dependency graph")

const joinSeparator = "\n"

// Roots returns the graph keys that no insertion point references, sorted so
// emission order is stable. When every key is referenced (a pure cycle with
// no entry point) it falls back to the smallest key; that choice is
// implementation-defined, not something callers should rely on across
// implementations.
func Roots(g graph.Graph) []string {
	referenced := make(map[string]struct{})
	for _, rec := range g {
		for _, p := range rec.Points {
			referenced[p.Target] = struct{}{}
		}
	}

	var roots []string
	for identity := range g {
		if _, ok := referenced[identity]; !ok {
			roots = append(roots, identity)
		}
	}
	sort.Strings(roots)

	if len(roots) == 0 && len(g) > 0 {
		roots = []string{sortedKeys(g)[0]}
	}
	return roots
}

// Assemble walks the graph depth-first from its roots, splicing every
// included file into place of its directive line. Each file's content is
// emitted at most once per assembly; a directive whose target has already
// been emitted contributes nothing, which is what keeps cyclic and shared
// includes finite.
func Assemble(g graph.Graph) (string, error) {
	if len(g) == 0 {
		return "", ErrEmptyGraph
	}

	var out []string
	visited := make(map[string]struct{})
	for _, root := range Roots(g) {
		emit(root, g, visited, &out)
	}
	return strings.Join(out, joinSeparator), nil
}

func emit(identity string, g graph.Graph, visited map[string]struct{}, out *[]string) {
	if _, ok := visited[identity]; ok {
		return
	}
	visited[identity] = struct{}{}

	rec := g[identity]
	lines := graph.Lines(rec.Content)

	cursor := 0
	for _, p := range rec.Points {
		*out = append(*out, lines[cursor:p.Index]...)
		emit(p.Target, g, visited, out)
		cursor = p.Index + 1 // the directive line itself is dropped
	}
	*out = append(*out, lines[cursor:]...)
}

func sortedKeys(g graph.Graph) []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
