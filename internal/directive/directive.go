// Package directive recognizes include directives embedded in comment lines.
package directive

import (
	"fmt"
	"strings"
	"unicode"
)

// Kind distinguishes the two include forms.
type Kind int

const (
	// IncludeGlobal is the <name> form, searched across configured directories.
	IncludeGlobal Kind = iota
	// IncludeLocal is the "name" form, resolved relative to the including file.
	IncludeLocal
)

// Directive is a single recognized include command.
type Directive struct {
	Kind Kind
	Name string
}

// Point is a recognized directive together with the 0-based index of the
// line it occupies.
type Point struct {
	Line      int
	Directive Directive
}

// ParseError reports a directive-looking line that failed to parse.
type ParseError struct {
	Line int // 0-based index of the offending line
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// LineParser classifies one line of text. ok is false when the line is not a
// directive at all; err is non-nil when the line looks like a directive but
// is malformed.
type LineParser interface {
	ParseLine(line string) (d Directive, ok bool, err error)
}

// Scan runs parser over every line in order and collects the recognized
// include directives. The first malformed line aborts the scan with a
// *ParseError carrying its index.
func Scan(lines []string, parser LineParser) ([]Point, error) {
	var points []Point
	for i, line := range lines {
		d, ok, err := parser.ParseLine(line)
		if err != nil {
			return nil, &ParseError{Line: i, Msg: err.Error()}
		}
		if ok {
			points = append(points, Point{Line: i, Directive: d})
		}
	}
	return points, nil
}

// CommentParser recognizes directives introduced by a comment marker
// immediately followed by `&`:
//
//	<marker>& include ( "<" <name> ">" | `"` <name> `"` )
//
// Any other text after the marker-and-ampersand prefix is a malformed
// directive; lines without the prefix are ignored.
type CommentParser struct {
	marker string
}

// NewCommentParser returns a parser for the given comment marker,
// e.g. "//" or "#".
func NewCommentParser(marker string) *CommentParser {
	return &CommentParser{marker: marker}
}

// ParseLine implements LineParser.
func (p *CommentParser) ParseLine(line string) (Directive, bool, error) {
	rem, found := strings.CutPrefix(line, p.marker)
	if !found {
		return Directive{}, false, nil
	}
	rem, found = strings.CutPrefix(rem, "&")
	if !found {
		return Directive{}, false, nil
	}

	com, found := strings.CutPrefix(strings.TrimLeftFunc(rem, unicode.IsSpace), "include")
	if !found {
		return Directive{}, false, fmt.Errorf("invalid preproc statement `%s`", rem)
	}
	com = strings.TrimSpace(com)

	if name, ok := cutAround(com, "<", ">"); ok {
		return Directive{Kind: IncludeGlobal, Name: name}, true, nil
	}
	if name, ok := cutAround(com, `"`, `"`); ok {
		return Directive{Kind: IncludeLocal, Name: name}, true, nil
	}
	return Directive{}, false, fmt.Errorf("invalid include statement `%s`", rem)
}

func cutAround(s, prefix, suffix string) (string, bool) {
	inner, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return "", false
	}
	return strings.CutSuffix(inner, suffix)
}
