package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/pagevault/pagevault/cmd"
)

var rootCmd = &cobra.Command{
	Use:   "pagevault",
	Short: "PageVault - envelope encryption and watermarked page delivery for documents.",
	Long: `PageVault protects uploaded documents end to end: each PDF is encrypted
under its own AES-256-GCM key, the key is wrapped with a per-installation
RSA keypair, and every page is rendered to a watermarked JPEG carrying the
uploader's identity.

Features:
  - Envelope encryption with a per-document data key
  - Watermarked page images for everyday viewing
  - Elevated entitlement gating for original downloads
  - Append-only audit log of every page view and download

Usage:
  pagevault vault <command> [flags]

Run 'pagevault help vault' for the list of vault commands.
`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		banner := figure.NewColorFigure("PageVault", "alligator2", "green", true)
		banner.Print()
		fmt.Println()
		fmt.Println("Run 'pagevault --help' to see available commands.")
	},
}

func main() {
	rootCmd.AddCommand(cmd.VaultCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
