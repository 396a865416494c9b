package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svelte-tools/svelte-check-go/internal/version"
)

var versionVerbose bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the checker version",
	Run: func(cmd *cobra.Command, args []string) {
		if versionVerbose {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetDetailedVersion())
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.GetShortVersion())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionVerbose, "verbose", false, "print full build information")
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version.GetShortVersion()
}
