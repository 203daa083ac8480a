// Package cli implements the panelzero command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/penzero00/Panel-Zero/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "panelzero",
	Short: "Review academic documents and highlight issues in place",
	Long: `panelzero runs academic documents through a panel of reviewers and
writes the findings back onto the document as severity-coded highlights,
without touching any other formatting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to config file (default .panelzero.yml if present)")
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(chunkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// loadConfig resolves the configuration for a command invocation.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}
