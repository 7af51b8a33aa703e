package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"preproc/internal/assemble"
	"preproc/internal/config"
	"preproc/internal/depfile"
	"preproc/internal/directive"
	"preproc/internal/graph"
	"preproc/internal/source"
)

var wroteColor = color.New(color.FgGreen)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] <file>...",
		Short: "Flatten a file and everything it includes into one output",
		Long: `Build resolves every include directive reachable from each input file and
writes one flattened output per input. Global includes (<name>) are searched
across the -I directories and the working directory; local includes ("name")
resolve relative to the including file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: buildExecution,
	}

	cmd.Flags().StringArrayP("include", "I", nil, "directory to search for global includes (repeatable)")
	cmd.Flags().StringP("comment", "c", "", "comment marker introducing directives (default //)")
	cmd.Flags().StringP("output", "o", "", "output file (default: input with extension replaced by .i)")
	cmd.Flags().String("deps", "", "also write a build-tool dependency line to this file")
	cmd.Flags().Bool("incremental", false, "skip inputs whose output is newer than every included file")
	return cmd
}

// buildOptions carries the flag values shared by every input in one build
// invocation.
type buildOptions struct {
	includeDirs []string
	marker      string
	output      string
	depsPath    string
	incremental bool
	stdout      io.Writer
}

func buildExecution(cmd *cobra.Command, args []string) error {
	includeDirs, err := cmd.Flags().GetStringArray("include")
	if err != nil {
		return err
	}
	marker, err := cmd.Flags().GetString("comment")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	depsPath, err := cmd.Flags().GetString("deps")
	if err != nil {
		return err
	}
	incremental, err := cmd.Flags().GetBool("incremental")
	if err != nil {
		return err
	}

	if len(args) > 1 && output != "" {
		return fmt.Errorf("--output cannot be combined with multiple inputs")
	}
	if len(args) > 1 && depsPath != "" {
		return fmt.Errorf("--deps cannot be combined with multiple inputs")
	}

	opts := buildOptions{
		includeDirs: includeDirs,
		marker:      marker,
		output:      output,
		depsPath:    depsPath,
		incremental: incremental,
		stdout:      cmd.OutOrStdout(),
	}

	var g errgroup.Group
	for _, input := range args {
		input := input
		g.Go(func() error {
			return buildOne(input, opts)
		})
	}
	return g.Wait()
}

func buildOne(input string, opts buildOptions) error {
	cfg, err := config.Discover(input)
	if err != nil {
		return err
	}

	marker := cfg.Marker
	if opts.marker != "" {
		marker = opts.marker
	}

	fetcher := source.NewFilesystemFetcher()
	for _, dir := range opts.includeDirs {
		fetcher.AddPath(dir)
	}
	for _, dir := range cfg.Include {
		fetcher.AddPath(dir)
	}
	parser := directive.NewCommentParser(marker)

	root, g, err := graph.Build(input, fetcher, parser)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	logger.Debug("dependency graph built",
		zap.String("root", root),
		zap.Int("files", len(g)))

	output := opts.output
	if output == "" {
		output = defaultOutput(input, cfg.Output.Extension)
	}

	if opts.incremental && outputIsFresh(output, g) {
		logger.Debug("output up to date", zap.String("output", output))
		return nil
	}

	text, err := assemble.Assemble(g)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	if opts.depsPath != "" {
		line := depfile.Emit(output, "", g)
		if err := os.WriteFile(opts.depsPath, []byte(line+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", opts.depsPath, err)
		}
	}

	for _, identity := range sortedIdentities(g) {
		logger.Debug("processed", zap.String("file", identity))
	}
	_, _ = wroteColor.Fprintf(opts.stdout, "wrote %s\n", output)
	return nil
}

// defaultOutput derives the output name by replacing the input's extension,
// e.g. main.file -> main.i.
func defaultOutput(input, ext string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + ext
}

// outputIsFresh reports whether output exists and is newer than every file
// in the graph.
func outputIsFresh(output string, g graph.Graph) bool {
	info, err := os.Stat(output)
	if err != nil {
		return false
	}
	mtime := info.ModTime()

	for identity := range g {
		fi, err := os.Stat(identity)
		if err != nil {
			return false
		}
		if !fi.ModTime().Before(mtime) {
			return false
		}
	}
	return true
}

func sortedIdentities(g graph.Graph) []string {
	ids := make([]string, 0, len(g))
	for identity := range g {
		ids = append(ids, identity)
	}
	sort.Strings(ids)
	return ids
}
