package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qtinst",
		Short: "Install Qt binary distributions from the online mirror network",
		Long: `Qtinst resolves, downloads, verifies and unpacks prebuilt Qt binary
archives for a (host, target, version, arch) tuple and arranges them
into a usable installation tree.

Cross-compile targets (android, ios, wasm, Windows-on-ARM) can install
their host-native desktop companion in the same run with --autodesktop.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	rootCmd.AddCommand(NewInstallCmd())
	rootCmd.AddCommand(NewListCmd())

	return rootCmd
}
