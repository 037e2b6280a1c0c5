package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/pagevault/pagevault/internal/access"
	"github.com/pagevault/pagevault/internal/audit"
	"github.com/pagevault/pagevault/internal/configs"
	"github.com/pagevault/pagevault/internal/identity"
	"github.com/pagevault/pagevault/internal/ingest"
	"github.com/pagevault/pagevault/internal/keystore"
	logger "github.com/pagevault/pagevault/internal/logging"
	"github.com/pagevault/pagevault/internal/raster"
	"github.com/pagevault/pagevault/internal/store"
	"github.com/pagevault/pagevault/internal/ui"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	err := s.Color("cyan")
	if err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		Logger.Debugf("Starting spinner in non-verbose mode")
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		// Restore log output first.
		if !verbose && !debug {
			Logger.Debugf("Restoring log output")
			log.SetOutput(os.Stdout)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		// Stop the spinner first to clear the spinner line.
		if !verbose && !debug {
			Logger.Debugf("Stopping spinner")
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// environment bundles every collaborator a vault command needs, built from
// the settings under the base directory.
type environment struct {
	settings *configs.Settings
	store    *store.GormStore
	keys     *keystore.Manager
	audit    *audit.Log
	ingestor *ingest.Ingestor
	gate     *access.Gate
}

// loadEnvironment wires the full pipeline from the config under baseDir.
// The keypair is initialized (generated on first use) as part of loading.
func loadEnvironment() (*environment, error) {
	Logger.Debugf("Loading vault settings from %s", baseDir)
	settings, err := configs.Load(baseDir)
	if err != nil {
		return nil, err
	}

	keys := keystore.New(settings.Keys.PublicKeyFile, settings.Keys.PrivateKeyFile, settings.Keys.RSABits)
	if err := keys.Initialize(); err != nil {
		return nil, err
	}

	st, err := store.Open(settings.Storage.DatabaseFile)
	if err != nil {
		return nil, err
	}

	mark, err := raster.NewWatermarker(settings.Watermark.FontSize, settings.Watermark.Opacity)
	if err != nil {
		return nil, err
	}
	converter := raster.NewConverter(settings.Raster.DPI, settings.Raster.JPEGQuality, mark)

	zlog, err := logger.NewZap(debug)
	if err != nil {
		return nil, err
	}

	auditLog := audit.New(settings.Storage.AuditFile)
	ingestor := ingest.New(st, keys, converter, settings.Storage.VaultPath, zlog)
	gate := access.New(st, keys, auditLog, ingestor, settings.Storage.VaultPath, zlog)

	return &environment{
		settings: settings,
		store:    st,
		keys:     keys,
		audit:    auditLog,
		ingestor: ingestor,
		gate:     gate,
	}, nil
}

func (e *environment) close() {
	if err := e.store.Close(); err != nil {
		Logger.Warnf("Failed to close document store: %v", err)
	}
}

// resetAccessFlagState resets the shared access-command flags for testing.
func resetAccessFlagState() {
	pageEmail, pageName, pageTier, pageElevated, pageOut = "", "", "standard", false, ""
	downloadEmail, downloadName, downloadTier, downloadElevated, downloadOut = "", "", "standard", false, ""
	deleteEmail, deleteName, deleteTier, deleteElevated = "", "", "standard", false
}

// addIdentityFlags registers the shared acting-identity flags on a command.
func addIdentityFlags(cmd *cobra.Command, email, name, tier *string, elevated *bool) {
	cmd.Flags().StringVar(email, "email", "", "acting identity email (required)")
	cmd.Flags().StringVar(name, "name", "", "acting identity display name")
	cmd.Flags().StringVar(tier, "tier", "standard", "acting identity tier: standard, vip, or admin")
	cmd.Flags().BoolVar(elevated, "elevated", false, "identity holds the elevated download entitlement")
	_ = cmd.MarkFlagRequired("email")
}

// identityFromFlags builds the acting identity from the shared identity
// flags. The email doubles as the identity ID for CLI invocations.
func identityFromFlags(email, name, tier string, elevated bool) (identity.Identity, error) {
	if email == "" {
		return identity.Identity{}, fmt.Errorf("an identity email is required")
	}
	t, err := identity.ParseTier(tier)
	if err != nil {
		return identity.Identity{}, err
	}
	return identity.Identity{
		ID:               email,
		Email:            email,
		DisplayName:      name,
		Tier:             t,
		ElevatedDownload: elevated,
	}, nil
}
