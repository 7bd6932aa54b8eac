package main

import (
	"fmt"
	"os"

	"dataviz/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose bool

	// Logger
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vizcli",
	Short: "vizcli - infer and draw charts from CSV, JSON, XLSX and Parquet files",
	Long: `vizcli loads a tabular file, previews it and builds the chart the
dataviz server would draw for a pair of columns.

Categorical X with numeric Y gives a bar chart, two numeric columns give a
scatter plot, anything else gives grouped frequency bars.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		l, err := logging.New(level, true)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newColumnsCmd())
	rootCmd.AddCommand(newSuggestCmd())
	rootCmd.AddCommand(newPlotCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
