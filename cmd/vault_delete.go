package cmd

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	verrors "github.com/pagevault/pagevault/internal/errors"
	"github.com/pagevault/pagevault/internal/ui"
)

var (
	deleteEmail    string
	deleteName     string
	deleteTier     string
	deleteElevated bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Deactivates a document and removes its artifacts",
	Long:  `Marks the document inactive and purges its ciphertext, wrapped key, metadata, and page images. Requires the admin tier. Audit history is retained.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting delete command")
		spinner, cleanup := startSpinner("Deleting document...", verbose)
		defer cleanup()

		docID := args[0]
		caller, err := identityFromFlags(deleteEmail, deleteName, deleteTier, deleteElevated)
		if err != nil {
			return Logger.ErrorfAndReturn("invalid identity flags: %v", err)
		}

		env, err := loadEnvironment()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load vault environment: %v", err)
		}
		defer env.close()

		Logger.Debugf("Deleting document %s as %s", docID, caller.Email)
		if err := env.gate.Delete(cmd.Context(), caller, docID); err != nil {
			switch {
			case errors.Is(err, verrors.ErrAuthorization):
				finalMessage := color.RedString("✗") + " Deletion requires the " + ui.Highlight.Sprint("admin") + " tier"
				spinner.FinalMSG = finalMessage
				return nil
			case errors.Is(err, verrors.ErrNotFound):
				finalMessage := color.RedString("✗") + " Document " + ui.Highlight.Sprint(docID) + " was not found"
				spinner.FinalMSG = finalMessage
				return nil
			default:
				return Logger.ErrorfAndReturn("failed to delete document: %v", err)
			}
		}

		Logger.Infof("Delete command completed successfully for document %s", docID)
		finalMessage := color.GreenString("✓") + " Document " + ui.Highlight.Sprint(docID) + " deleted\n" +
			color.CyanString("→") + " Its audit history is retained"
		spinner.FinalMSG = finalMessage
		return nil
	},
}

func init() {
	addIdentityFlags(deleteCmd, &deleteEmail, &deleteName, &deleteTier, &deleteElevated)
}
