package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"preproc/internal/config"
	"preproc/internal/depfile"
	"preproc/internal/directive"
	"preproc/internal/graph"
	"preproc/internal/source"
)

func newDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps [flags] <file>",
		Short: "Print a build-tool dependency line for a file",
		Long: `Deps builds the dependency graph for the given file and prints a single
make-compatible line of the form

	<target>: <file> <file> ...

listing every file the target transitively includes.`,
		Args: cobra.ExactArgs(1),
		RunE: depsExecution,
	}

	cmd.Flags().StringArrayP("include", "I", nil, "directory to search for global includes (repeatable)")
	cmd.Flags().StringP("comment", "c", "", "comment marker introducing directives (default //)")
	cmd.Flags().StringP("target", "t", "", "dependency-line target (default: input with extension replaced by .i)")
	cmd.Flags().String("strip-prefix", "", "path prefix to remove from emitted identities")
	return cmd
}

func depsExecution(cmd *cobra.Command, args []string) error {
	includeDirs, err := cmd.Flags().GetStringArray("include")
	if err != nil {
		return err
	}
	marker, err := cmd.Flags().GetString("comment")
	if err != nil {
		return err
	}
	target, err := cmd.Flags().GetString("target")
	if err != nil {
		return err
	}
	stripPrefix, err := cmd.Flags().GetString("strip-prefix")
	if err != nil {
		return err
	}

	input := args[0]
	cfg, err := config.Discover(input)
	if err != nil {
		return err
	}
	if marker == "" {
		marker = cfg.Marker
	}

	fetcher := source.NewFilesystemFetcher()
	for _, dir := range includeDirs {
		fetcher.AddPath(dir)
	}
	for _, dir := range cfg.Include {
		fetcher.AddPath(dir)
	}

	_, g, err := graph.Build(input, fetcher, directive.NewCommentParser(marker))
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	if target == "" {
		target = defaultOutput(input, cfg.Output.Extension)
	}

	fmt.Fprintln(cmd.OutOrStdout(), depfile.Emit(target, stripPrefix, g))
	return nil
}
