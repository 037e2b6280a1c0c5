package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pagevault/pagevault/internal/ingest"
	"github.com/pagevault/pagevault/internal/ui"
)

var (
	ingestFile        string
	ingestTitle       string
	ingestAuthor      string
	ingestDescription string
	ingestEmail       string
	ingestName        string
	ingestTier        string
	ingestElevated    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Encrypts a PDF and renders its watermarked page images",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting ingest command")
		spinner, cleanup := startSpinner("Ingesting document...", verbose)
		defer cleanup()

		uploader, err := identityFromFlags(ingestEmail, ingestName, ingestTier, ingestElevated)
		if err != nil {
			return Logger.ErrorfAndReturn("invalid identity flags: %v", err)
		}

		Logger.Debugf("Reading document from %s", ingestFile)
		data, err := os.ReadFile(ingestFile)
		if err != nil {
			finalMessage := color.RedString("✗") + " Failed to read " + ui.Path.Sprint(ingestFile) + "\n" +
				color.RedString("Error: ") + err.Error()
			spinner.FinalMSG = finalMessage
			return nil
		}

		env, err := loadEnvironment()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load vault environment: %v", err)
		}
		defer env.close()

		title := ingestTitle
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(ingestFile), filepath.Ext(ingestFile))
		}

		Logger.Infof("Ingesting %s (%d bytes) for %s", ingestFile, len(data), uploader.Email)
		res, err := env.ingestor.Ingest(cmd.Context(), ingest.Options{
			Title:       title,
			Author:      ingestAuthor,
			Description: ingestDescription,
			Filename:    filepath.Base(ingestFile),
			ContentType: "application/pdf",
			Data:        data,
			Uploader:    uploader,
		})
		if err != nil {
			Logger.Errorf("Failed to ingest document: %v", err)
			finalMessage := color.RedString("✗") + " Failed to ingest " + ui.Path.Sprint(ingestFile) + "\n" +
				color.RedString("Error: ") + err.Error()
			spinner.FinalMSG = finalMessage
			return nil
		}

		doc := res.Document
		Logger.Infof("Ingest command completed successfully. Document %s with %d pages", doc.ID, doc.PageCount)
		finalMessage := color.GreenString("✓") + " Document protected successfully!\n" +
			"ID: " + ui.Highlight.Sprint(doc.ID) + "\n" +
			"Pages: " + ui.Highlight.Sprintf("%d", doc.PageCount) + "\n" +
			color.CyanString("→") + " Run " + ui.Code.Sprint("pagevault vault page "+doc.ID+" 1") + " to view the first page"
		spinner.FinalMSG = finalMessage
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "path of the PDF to protect (required)")
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "document title (defaults to the file name)")
	ingestCmd.Flags().StringVar(&ingestAuthor, "author", "", "document author")
	ingestCmd.Flags().StringVar(&ingestDescription, "description", "", "document description")
	addIdentityFlags(ingestCmd, &ingestEmail, &ingestName, &ingestTier, &ingestElevated)
	_ = ingestCmd.MarkFlagRequired("file")
}

// resetIngestCommandState resets ingest flags for testing.
func resetIngestCommandState() {
	ingestFile = ""
	ingestTitle = ""
	ingestAuthor = ""
	ingestDescription = ""
	ingestEmail = ""
	ingestName = ""
	ingestTier = "standard"
	ingestElevated = false
}
