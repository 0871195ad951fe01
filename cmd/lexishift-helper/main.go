// Package main provides the lexishift-helper binary: the background worker
// that keeps per-profile rulesets, stores, and status records fresh, plus
// the maintenance subcommands around them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	app := &appContext{}

	cmd := &cobra.Command{
		Use:   "lexishift-helper",
		Short: "LexiShift background learning helper",
		Long: `lexishift-helper maintains the learning data of a LexiShift profile:
it periodically regenerates vocabulary replacement rules from dictionary
and frequency resources, scans read content for exposures, and keeps the
spaced-repetition store, signal journal, and status record up to date.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.dataDir, "data-dir", "", "Data root (default: platform data directory)")
	pf.StringVar(&app.profileID, "profile", "", "Profile identifier (default: default)")
	pf.StringVar(&app.logMode, "log-mode", "dev", "Logger mode (dev, prod)")

	cmd.AddCommand(
		newRunCmd(app),
		newOnceCmd(app),
		newGrowCmd(app),
		newScanCmd(app),
		newExportCodeCmd(app),
		newImportCodeCmd(app),
		newStatusCmd(app),
		newVersionCmd(),
	)
	return cmd
}
