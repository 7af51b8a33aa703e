package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"preproc/internal/config"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter preproc.toml manifest",
		Long: `Init writes a starter preproc.toml manifest to the given path (or the
working directory). An existing manifest is left untouched unless --force
is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: initExecution,
	}

	cmd.Flags().Bool("force", false, "overwrite an existing manifest")
	cmd.Flags().Bool("dry-run", false, "print the manifest instead of writing it")
	return cmd
}

const starterManifest = `# preproc project manifest
#
# marker introduces preprocessor directives; a line starting with
# "<marker>&include" is an include directive.
marker = "//"

# Directories searched, in order, for global includes (<name>).
include = []

[output]
# Extension given to flattened output files.
extension = "i"
`

func initExecution(cmd *cobra.Command, args []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprint(cmd.OutOrStdout(), starterManifest)
		return nil
	}

	path := config.ManifestName
	if len(args) > 0 {
		path = args[0]
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, config.ManifestName)
		}
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	if err := os.WriteFile(path, []byte(starterManifest), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	return nil
}
