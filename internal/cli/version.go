// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wrljet/hercformula/pkg/manifest"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hercformula version %s\n", Version)
		fmt.Fprintf(cmd.OutOrStdout(), "Installs %s %s\n", manifest.DefaultName, manifest.DefaultVersion)
		fmt.Fprintln(cmd.OutOrStdout(), manifest.DefaultHomepage)
	},
}
