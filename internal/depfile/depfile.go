// Package depfile emits build-tool dependency lines for a finished graph.
package depfile

import (
	"sort"
	"strings"

	"preproc/internal/graph"
)

// Emit renders `target: dep dep ...` listing every identity in g, sorted so
// the line is deterministic. stripPrefix, when non-empty, is removed from
// the front of each identity that carries it. Path separators are normalized
// to forward slashes so make-style tools accept the line.
func Emit(target, stripPrefix string, g graph.Graph) string {
	names := make([]string, 0, len(g))
	for identity := range g {
		if stripPrefix != "" {
			identity = strings.TrimPrefix(identity, stripPrefix)
		}
		names = append(names, identity)
	}
	sort.Strings(names)

	line := target + ": " + strings.Join(names, " ")
	return strings.ReplaceAll(line, `\`, "/")
}
