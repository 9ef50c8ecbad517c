package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "tagscan",
		Short: "Asset tag inventory from photos of patrimony labels",
		Long: `Tagscan reads numeric asset tags from photos of inventory labels and
builds a per-location inventory table grouped by category.

Photos can be submitted through the web API (serve) or processed in bulk from
the command line (scan). Recognition accuracy can be measured against a
labelled dataset (eval).`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newEvalCmd())
	cmd.AddCommand(newCategoriesCmd())

	return cmd
}
