package cmd

import (
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pagevault/pagevault/internal/access"
	verrors "github.com/pagevault/pagevault/internal/errors"
	"github.com/pagevault/pagevault/internal/ui"
)

var (
	downloadEmail    string
	downloadName     string
	downloadTier     string
	downloadElevated bool
	downloadOut      string
)

var downloadCmd = &cobra.Command{
	Use:   "download <document-id>",
	Short: "Decrypts and downloads the original document",
	Long:  `Downloads the decrypted original. The acting identity must hold the elevated download entitlement; regular viewers are limited to watermarked page images.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting download command")
		spinner, cleanup := startSpinner("Downloading original...", verbose)
		defer cleanup()

		docID := args[0]
		viewer, err := identityFromFlags(downloadEmail, downloadName, downloadTier, downloadElevated)
		if err != nil {
			return Logger.ErrorfAndReturn("invalid identity flags: %v", err)
		}

		env, err := loadEnvironment()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load vault environment: %v", err)
		}
		defer env.close()

		Logger.Debugf("Downloading original of document %s for %s", docID, viewer.Email)
		data, err := env.gate.OriginalDownload(cmd.Context(), viewer, docID, access.DownloadRequest{
			ClientIP:  "127.0.0.1",
			UserAgent: "pagevault-cli",
		})
		if err != nil {
			switch {
			case errors.Is(err, verrors.ErrAuthorization):
				finalMessage := color.RedString("✗") + " Identity " + ui.Highlight.Sprint(viewer.Email) +
					" may not download originals\n" +
					color.CyanString("→") + " Pass " + ui.Flag.Sprint("--elevated") + " only for identities holding the entitlement"
				spinner.FinalMSG = finalMessage
				return nil
			case errors.Is(err, verrors.ErrNotFound):
				finalMessage := color.RedString("✗") + " Document " + ui.Highlight.Sprint(docID) + " was not found"
				spinner.FinalMSG = finalMessage
				return nil
			default:
				Logger.Errorf("Failed to download original: %v", err)
				finalMessage := color.RedString("✗") + " Failed to decrypt document " + ui.Highlight.Sprint(docID) + "\n" +
					color.RedString("Error: ") + err.Error()
				spinner.FinalMSG = finalMessage
				return nil
			}
		}

		out := downloadOut
		if out == "" {
			out = docID + ".pdf"
		}
		if err := os.WriteFile(out, data, 0600); err != nil {
			return Logger.ErrorfAndReturn("failed to write original: %v", err)
		}

		Logger.Infof("Download command completed successfully. Wrote %d bytes to %s", len(data), out)
		finalMessage := color.GreenString("✓") + " Original saved to " + ui.Path.Sprint(out)
		spinner.FinalMSG = finalMessage
		return nil
	},
}

func init() {
	addIdentityFlags(downloadCmd, &downloadEmail, &downloadName, &downloadTier, &downloadElevated)
	downloadCmd.Flags().StringVar(&downloadOut, "out", "", "output file (defaults to <document-id>.pdf)")
}
