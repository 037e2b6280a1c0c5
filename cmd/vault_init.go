package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pagevault/pagevault/internal/configs"
	"github.com/pagevault/pagevault/internal/keystore"
	"github.com/pagevault/pagevault/internal/store"
	"github.com/pagevault/pagevault/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initializes the vault: config, keypair, and metadata database",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")
		spinner, cleanup := startSpinner("Initializing vault...", verbose)
		defer cleanup()

		if err := os.MkdirAll(baseDir, 0700); err != nil {
			return Logger.ErrorfAndReturn("failed to create vault directory: %v", err)
		}

		Logger.Debugf("Writing default settings to %s", baseDir)
		settings := configs.Default(baseDir)
		if err := configs.Save(baseDir, settings); err != nil {
			return Logger.ErrorfAndReturn("failed to save vault config: %v", err)
		}

		Logger.Debugf("Initializing process keypair")
		keys := keystore.New(settings.Keys.PublicKeyFile, settings.Keys.PrivateKeyFile, settings.Keys.RSABits)
		if err := keys.Initialize(); err != nil {
			Logger.Errorf("Failed to initialize keypair: %v", err)
			finalMessage := color.RedString("✗") + " Failed to initialize the vault keypair\n" +
				color.RedString("Error: ") + err.Error()
			spinner.FinalMSG = finalMessage
			return nil
		}

		Logger.Debugf("Opening metadata database at %s", settings.Storage.DatabaseFile)
		st, err := store.Open(settings.Storage.DatabaseFile)
		if err != nil {
			Logger.Errorf("Failed to open metadata database: %v", err)
			finalMessage := color.RedString("✗") + " Failed to create the metadata database\n" +
				color.RedString("Error: ") + err.Error()
			spinner.FinalMSG = finalMessage
			return nil
		}
		if err := st.Close(); err != nil {
			Logger.Warnf("Failed to close metadata database: %v", err)
		}

		if err := os.MkdirAll(settings.Storage.VaultPath, 0700); err != nil {
			return Logger.ErrorfAndReturn("failed to create artifact directory: %v", err)
		}

		Logger.Infof("Init command completed successfully")
		finalMessage := color.GreenString("✓") + " Vault initialized at " + ui.Path.Sprint(baseDir) + "\n" +
			color.CyanString("→") + " Run " + ui.Code.Sprint("pagevault vault ingest --file <document.pdf>") + " to protect your first document"
		spinner.FinalMSG = finalMessage
		return nil
	},
}
