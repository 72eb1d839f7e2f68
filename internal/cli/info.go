// internal/cli/info.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wrljet/hercformula/pkg/platform"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show formula metadata",
	Long:  `Display the description, homepage, source and license of the formula.`,
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	f, err := loadFormula()
	if err != nil {
		return fmt.Errorf("loading formula: %w", err)
	}

	sha := f.SHA256
	if !f.Verified() {
		sha = "(none, verification disabled)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Formula:     %s\n", f.Name)
	fmt.Fprintf(out, "Version:     %s\n", f.Version)
	fmt.Fprintf(out, "Description: %s\n", f.Desc)
	fmt.Fprintf(out, "Homepage:    %s\n", f.Homepage)
	fmt.Fprintf(out, "URL:         %s\n", f.URL)
	fmt.Fprintf(out, "SHA256:      %s\n", sha)
	fmt.Fprintf(out, "License:     %s\n", f.License)
	if f.Head != "" {
		fmt.Fprintf(out, "HEAD:        %s (%s)\n", f.Head, f.Branch)
	}

	plat := platform.Detect()
	fmt.Fprintf(out, "Platform:    %s\n", plat)
	if !plat.Supported() {
		fmt.Fprintf(out, "Warning: the published binaries are built for macOS\n")
	}

	return nil
}
