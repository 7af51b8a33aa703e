package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runCommand executes cmd with args, capturing combined cobra output.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func createChain(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, dir, "a.file", "A begin\n//&include <b.file>\nA end")
	writeTestFile(t, dir, "b.file", "B begin\n//&include <c.file>\nB end")
	writeTestFile(t, dir, "c.file", "C only")
	return dir
}

func TestBuildCommand(t *testing.T) {
	dir := createChain(t)
	chdir(t, dir)

	out, err := runCommand(t, newBuildCmd(), "a.file")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote a.i")

	data, err := os.ReadFile("a.i")
	require.NoError(t, err)
	assert.Equal(t, "A begin\nB begin\nC only\nB end\nA end", string(data))
}

func TestBuildCommandOutputFlag(t *testing.T) {
	dir := createChain(t)
	chdir(t, dir)

	_, err := runCommand(t, newBuildCmd(), "-o", "flat.out", "a.file")
	require.NoError(t, err)

	data, err := os.ReadFile("flat.out")
	require.NoError(t, err)
	assert.Contains(t, string(data), "C only")
}

func TestBuildCommandMultipleInputs(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "x.file", "X")
	writeTestFile(t, dir, "y.file", "Y")
	chdir(t, dir)

	_, err := runCommand(t, newBuildCmd(), "x.file", "y.file")
	require.NoError(t, err)
	for _, output := range []string{"x.i", "y.i"} {
		if _, err := os.Stat(output); err != nil {
			t.Errorf("missing output %s: %v", output, err)
		}
	}

	_, err = runCommand(t, newBuildCmd(), "-o", "one.out", "x.file", "y.file")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output cannot be combined")
}

func TestBuildCommandIncludeDir(t *testing.T) {
	dir := t.TempDir()
	inc := filepath.Join(dir, "include")
	writeTestFile(t, dir, "main.file", "top\n//&include <util.file>\nbottom")
	writeTestFile(t, inc, "util.file", "util body")
	chdir(t, dir)

	_, err := runCommand(t, newBuildCmd(), "-I", inc, "main.file")
	require.NoError(t, err)

	data, err := os.ReadFile("main.i")
	require.NoError(t, err)
	assert.Equal(t, "top\nutil body\nbottom", string(data))
}

func TestBuildCommandMarkerFlag(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "main.py", "# top\n#&include <util.py>\nprint()")
	writeTestFile(t, dir, "util.py", "def util(): pass")
	chdir(t, dir)

	_, err := runCommand(t, newBuildCmd(), "-c", "#", "main.py")
	require.NoError(t, err)

	data, err := os.ReadFile("main.i")
	require.NoError(t, err)
	assert.Equal(t, "# top\ndef util(): pass\nprint()", string(data))
}

func TestBuildCommandManifest(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "preproc.toml", `
marker = "#"
include = ["vendor"]

[output]
extension = "flat"
`)
	writeTestFile(t, dir, "main.py", "#&include <dep.py>\nmain")
	writeTestFile(t, filepath.Join(dir, "vendor"), "dep.py", "dep")
	chdir(t, dir)

	_, err := runCommand(t, newBuildCmd(), "main.py")
	require.NoError(t, err)

	data, err := os.ReadFile("main.flat")
	require.NoError(t, err)
	assert.Equal(t, "dep\nmain", string(data))
}

func TestBuildCommandDepsFile(t *testing.T) {
	dir := createChain(t)
	chdir(t, dir)

	_, err := runCommand(t, newBuildCmd(), "--deps", "a.d", "a.file")
	require.NoError(t, err)

	data, err := os.ReadFile("a.d")
	require.NoError(t, err)
	line := string(data)
	assert.True(t, strings.HasPrefix(line, "a.i: "), "got %q", line)
	for _, name := range []string{"a.file", "b.file", "c.file"} {
		assert.Contains(t, line, name)
	}
}

func TestBuildCommandIncremental(t *testing.T) {
	dir := createChain(t)
	chdir(t, dir)

	_, err := runCommand(t, newBuildCmd(), "a.file")
	require.NoError(t, err)
	before, err := os.ReadFile("a.i")
	require.NoError(t, err)

	// Change an included file but keep the output newer; the incremental
	// build must leave the stale output alone.
	writeTestFile(t, dir, "c.file", "C changed")
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes("a.i", future, future))

	_, err = runCommand(t, newBuildCmd(), "--incremental", "a.file")
	require.NoError(t, err)
	after, err := os.ReadFile("a.i")
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	// Without the flag the output is rebuilt.
	_, err = runCommand(t, newBuildCmd(), "a.file")
	require.NoError(t, err)
	rebuilt, err := os.ReadFile("a.i")
	require.NoError(t, err)
	assert.Contains(t, string(rebuilt), "C changed")
}

func TestBuildCommandParseError(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "bad.file", "//&wrong <not read>")
	chdir(t, dir)

	_, err := runCommand(t, newBuildCmd(), "bad.file")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 0")
	assert.Contains(t, err.Error(), "wrong <not read>")
}

func TestBuildCommandNotFound(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := runCommand(t, newBuildCmd(), "missing.file")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestDepsCommand(t *testing.T) {
	dir := createChain(t)
	chdir(t, dir)

	out, err := runCommand(t, newDepsCmd(), "a.file")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "a.i: "), "got %q", out)
	for _, name := range []string{"a.file", "b.file", "c.file"} {
		assert.Contains(t, out, name)
	}
}

func TestDepsCommandStripPrefix(t *testing.T) {
	dir := createChain(t)
	chdir(t, dir)

	prefix := dir + string(filepath.Separator)
	out, err := runCommand(t, newDepsCmd(), "--strip-prefix", prefix, "-t", "a.o", "a.file")
	require.NoError(t, err)
	assert.Equal(t, "a.o: a.file b.file c.file\n", out)
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := runCommand(t, newInitCmd())
	require.NoError(t, err)

	data, err := os.ReadFile("preproc.toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), `marker = "//"`)

	// Refuses to clobber without --force.
	_, err = runCommand(t, newInitCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runCommand(t, newInitCmd(), "--force")
	require.NoError(t, err)
}

func TestInitCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	out, err := runCommand(t, newInitCmd(), "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, `marker = "//"`)

	_, err = os.Stat("preproc.toml")
	assert.True(t, os.IsNotExist(err), "dry-run must not write the manifest")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, newVersionCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "preproc ")
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
