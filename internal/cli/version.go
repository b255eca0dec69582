package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/licenseprep/curricula/pkg/updater"
	"github.com/licenseprep/curricula/pkg/version"
)

func newVersionCommand(a *app) *cobra.Command {
	var checkUpdates bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprint(out, version.GetDetailedVersionInfo())

			if !checkUpdates {
				return nil
			}
			info, err := updater.NewChecker(a.log).CheckForUpdates()
			if err != nil {
				return fmt.Errorf("check for updates: %w", err)
			}
			if info == nil || !info.IsAvailable {
				fmt.Fprintln(out, "You are on the latest version.")
				return nil
			}
			fmt.Fprintf(out, "Update available: %s -> %s\n%s\n", info.CurrentVersion, info.LatestVersion, info.DownloadURL)
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkUpdates, "check-updates", false, "check GitHub for a newer release")
	return cmd
}
