package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pagevault/pagevault/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists active documents, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting list command")
		spinner, cleanup := startSpinner("Listing documents...", verbose)
		defer cleanup()

		env, err := loadEnvironment()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load vault environment: %v", err)
		}
		defer env.close()

		docs, err := env.store.ListActive(cmd.Context())
		if err != nil {
			return Logger.ErrorfAndReturn("failed to list documents: %v", err)
		}

		if len(docs) == 0 {
			finalMessage := color.CyanString("→") + " No active documents in the vault"
			spinner.FinalMSG = finalMessage
			return nil
		}

		var b strings.Builder
		b.WriteString(color.GreenString("✓") + fmt.Sprintf(" %d active document(s)\n", len(docs)))
		for _, doc := range docs {
			b.WriteString("  " + ui.Highlight.Sprint(doc.ID) +
				"  " + doc.Title +
				"  " + ui.Muted.Sprintf("%d pages, %s", doc.PageCount, doc.CreatedAt.Format("2006-01-02")) + "\n")
		}

		Logger.Infof("List command completed successfully. %d documents", len(docs))
		spinner.FinalMSG = strings.TrimRight(b.String(), "\n")
		return nil
	},
}
