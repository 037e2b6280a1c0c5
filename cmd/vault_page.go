package cmd

import (
	"errors"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	verrors "github.com/pagevault/pagevault/internal/errors"
	"github.com/pagevault/pagevault/internal/raster"
	"github.com/pagevault/pagevault/internal/ui"
)

var (
	pageEmail    string
	pageName     string
	pageTier     string
	pageElevated bool
	pageOut      string
)

var pageCmd = &cobra.Command{
	Use:   "page <document-id> <page-number>",
	Short: "Fetches one watermarked page image of a protected document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting page command")
		spinner, cleanup := startSpinner("Fetching page...", verbose)
		defer cleanup()

		docID := args[0]
		page, err := strconv.Atoi(args[1])
		if err != nil {
			return Logger.ErrorfAndReturn("invalid page number %q: %v", args[1], err)
		}

		viewer, err := identityFromFlags(pageEmail, pageName, pageTier, pageElevated)
		if err != nil {
			return Logger.ErrorfAndReturn("invalid identity flags: %v", err)
		}

		env, err := loadEnvironment()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load vault environment: %v", err)
		}
		defer env.close()

		Logger.Debugf("Fetching page %d of document %s for %s", page, docID, viewer.Email)
		data, err := env.gate.RasterPage(cmd.Context(), viewer, docID, page)
		if err != nil {
			if errors.Is(err, verrors.ErrNotFound) {
				finalMessage := color.RedString("✗") + " Page " + ui.Highlight.Sprintf("%d", page) +
					" of document " + ui.Highlight.Sprint(docID) + " was not found"
				spinner.FinalMSG = finalMessage
				return nil
			}
			return Logger.ErrorfAndReturn("failed to fetch page: %v", err)
		}

		out := pageOut
		if out == "" {
			out = raster.PageFileName(page)
		}
		if err := os.WriteFile(out, data, 0600); err != nil {
			return Logger.ErrorfAndReturn("failed to write page image: %v", err)
		}

		Logger.Infof("Page command completed successfully. Wrote %d bytes to %s", len(data), out)
		finalMessage := color.GreenString("✓") + " Page saved to " + ui.Path.Sprint(out)
		spinner.FinalMSG = finalMessage
		return nil
	},
}

func init() {
	addIdentityFlags(pageCmd, &pageEmail, &pageName, &pageTier, &pageElevated)
	pageCmd.Flags().StringVar(&pageOut, "out", "", "output file (defaults to the page image name)")
}
