package cmd

import (
	logger "github.com/pagevault/pagevault/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	debug   bool
	baseDir string
	Logger  logger.Logger

	VaultCmd = &cobra.Command{
		Use:   "vault",
		Short: "Manage protected documents in the vault",
		Long:  `Provides ingestion, page viewing, original download, deletion, and access statistics for protected documents.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing vault command with verbose=%t, debug=%t, dir=%s", verbose, debug, baseDir)
		},
	}
)

func init() {
	VaultCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	VaultCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	VaultCmd.PersistentFlags().StringVar(&baseDir, "dir", ".", "base directory holding the vault")

	VaultCmd.AddCommand(initCmd)
	VaultCmd.AddCommand(ingestCmd)
	VaultCmd.AddCommand(listCmd)
	VaultCmd.AddCommand(pageCmd)
	VaultCmd.AddCommand(downloadCmd)
	VaultCmd.AddCommand(deleteCmd)
	VaultCmd.AddCommand(statsCmd)
}

// Helper functions for testing

// GetVaultCmd returns the VaultCmd for testing.
func GetVaultCmd() *cobra.Command {
	return VaultCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	baseDir = "."
	resetIngestCommandState()
	resetAccessFlagState()
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}

// SetBaseDir sets the base directory for testing.
func SetBaseDir(dir string) {
	baseDir = dir
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
