// preproc flattens include directives embedded in comment lines into a
// single output file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"preproc/internal/version"
)

var (
	verbose bool

	// logger defaults to a nop so command functions stay callable from
	// tests without the cobra lifecycle.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "preproc",
	Short: "Minimal include-directive source preprocessor",
	Long: `preproc resolves include directives embedded in comment lines
(for example //&include <util.h>), follows them transitively, and writes a
single flattened file with every include spliced into place of its
directive line. Cyclic and repeated includes are emitted once.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newDepsCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
