package cli

import (
	"fmt"

	"github.com/qtinst/qtinst/internal/fetch"
	"github.com/qtinst/qtinst/internal/index"
	"github.com/qtinst/qtinst/internal/installer"
	"github.com/qtinst/qtinst/internal/models"
	"github.com/qtinst/qtinst/internal/planner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type installConfig struct {
	OutputDir   string
	Modules     []string
	Extensions  []string
	Archives    []string
	AutoDesktop bool
	Base        string
	NoHash      bool
	Concurrency int
}

// NewInstallCmd creates the install-qt command
func NewInstallCmd() *cobra.Command {
	var config installConfig

	cmd := &cobra.Command{
		Use:   "install-qt <host> <target> <version> [<arch>]",
		Short: "Download, verify and unpack a Qt installation",
		Long: `Resolves the requested modules, extensions and archives against the
remote catalog, downloads the archives with sha256 verification,
extracts them and patches the resulting tree so it is immediately
usable.`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseSelection(args, &config)
			if err != nil {
				return err
			}

			logrus.Infof("Installing Qt %s for %s/%s (%s)...",
				sel.Version, sel.Host, sel.Target, sel.Arch)

			client := fetch.NewClient()
			pl := planner.New(index.NewLoader(client), config.Base)
			plan, err := pl.Plan(cmd.Context(), *sel)
			if err != nil {
				return err
			}

			ins := installer.New(client, installer.Options{
				OutputDir:        config.OutputDir,
				DownloadWorkers:  config.Concurrency,
				SkipVerification: config.NoHash,
			})
			return ins.Run(cmd.Context(), plan)
		},
	}

	cmd.Flags().StringVarP(&config.OutputDir, "outputdir", "O", "./Qt", "Installation root directory")
	cmd.Flags().StringSliceVarP(&config.Modules, "modules", "m", nil, "Additional modules to install")
	cmd.Flags().StringSliceVar(&config.Extensions, "extensions", nil, "Extension packages to install (6.8+)")
	cmd.Flags().StringSliceVar(&config.Archives, "archives", nil, "Narrow the base package to matching archives")
	cmd.Flags().BoolVar(&config.AutoDesktop, "autodesktop", false, "Also install the desktop companion for cross-compile targets")
	cmd.Flags().StringVar(&config.Base, "base", "", "Mirror base URL override")
	cmd.Flags().BoolVar(&config.NoHash, "nohash", false, "Skip sha256 verification of downloaded archives")
	cmd.Flags().IntVar(&config.Concurrency, "concurrency", 0, "Parallel download limit (0 = default)")

	return cmd
}

func parseSelection(args []string, config *installConfig) (*planner.Selection, error) {
	host, target := args[0], args[1]
	if err := validateHostTarget(host, target); err != nil {
		return nil, err
	}

	version, err := models.ParseVersion(args[2])
	if err != nil {
		return nil, err
	}

	arch := ""
	if len(args) > 3 {
		arch = args[3]
	}
	if arch == "" {
		arch = planner.DefaultArch(host, target, version)
		logrus.Debugf("No architecture given, defaulting to %s", arch)
	}

	return &planner.Selection{
		Host:           host,
		Target:         target,
		Arch:           arch,
		Version:        version,
		Modules:        config.Modules,
		Extensions:     config.Extensions,
		ArchiveFilters: config.Archives,
		AutoDesktop:    config.AutoDesktop,
	}, nil
}

func validateHostTarget(host, target string) error {
	switch host {
	case "linux", "mac", "windows", "all_os":
	default:
		return &models.QtError{
			Type: models.ErrInvalidArgument,
			Err:  fmt.Errorf("unknown host %q (want linux, mac, windows or all_os)", host),
		}
	}
	switch target {
	case "desktop", "android", "ios", "wasm":
	default:
		return &models.QtError{
			Type: models.ErrInvalidArgument,
			Err:  fmt.Errorf("unknown target %q (want desktop, android, ios or wasm)", target),
		}
	}
	return nil
}
