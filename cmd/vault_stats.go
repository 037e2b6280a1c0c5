package cmd

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pagevault/pagevault/internal/audit"
	verrors "github.com/pagevault/pagevault/internal/errors"
	"github.com/pagevault/pagevault/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats <document-id>",
	Short: "Shows access counts for a document from the audit log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting stats command")
		spinner, cleanup := startSpinner("Reading audit log...", verbose)
		defer cleanup()

		docID := args[0]
		env, err := loadEnvironment()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load vault environment: %v", err)
		}
		defer env.close()

		counts, err := env.gate.Stats(cmd.Context(), docID)
		if err != nil {
			if errors.Is(err, verrors.ErrNotFound) {
				finalMessage := color.RedString("✗") + " Document " + ui.Highlight.Sprint(docID) + " was not found"
				spinner.FinalMSG = finalMessage
				return nil
			}
			return Logger.ErrorfAndReturn("failed to read audit log: %v", err)
		}

		Logger.Infof("Stats command completed successfully for document %s", docID)
		finalMessage := color.GreenString("✓") + " Access counts for " + ui.Highlight.Sprint(docID) + "\n" +
			"Page views: " + ui.Highlight.Sprintf("%d", counts[audit.EventRasterView]) + "\n" +
			"Original downloads: " + ui.Highlight.Sprintf("%d", counts[audit.EventOriginalDownload])
		spinner.FinalMSG = finalMessage
		return nil
	},
}
