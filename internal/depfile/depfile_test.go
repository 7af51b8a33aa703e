package depfile

import (
	"testing"

	"preproc/internal/graph"
)

func TestEmit(t *testing.T) {
	t.Parallel()

	g := graph.Graph{
		"src/a.txt": &graph.Record{},
		"src/b.txt": &graph.Record{},
		"lib/c.txt": &graph.Record{},
	}

	got := Emit("a.i", "", g)
	want := "a.i: lib/c.txt src/a.txt src/b.txt"
	if got != want {
		t.Errorf("Emit = %q, want %q", got, want)
	}
}

func TestEmitStripPrefix(t *testing.T) {
	t.Parallel()

	g := graph.Graph{
		"src/a.txt": &graph.Record{},
		"src/b.txt": &graph.Record{},
	}

	got := Emit("a.i", "src/", g)
	want := "a.i: a.txt b.txt"
	if got != want {
		t.Errorf("Emit = %q, want %q", got, want)
	}
}

func TestEmitNormalizesSeparators(t *testing.T) {
	t.Parallel()

	g := graph.Graph{
		`src\a.txt`: &graph.Record{},
	}

	got := Emit(`out\a.i`, "", g)
	want := "out/a.i: src/a.txt"
	if got != want {
		t.Errorf("Emit = %q, want %q", got, want)
	}
}

func TestEmitEmptyGraph(t *testing.T) {
	t.Parallel()

	if got := Emit("a.i", "", graph.Graph{}); got != "a.i: " {
		t.Errorf("Emit = %q", got)
	}
}
