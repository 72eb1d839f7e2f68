// internal/cli/list.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the install manifest",
	Long:  `List the binaries copied from bin/ and the directories copied into the prefix.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	f, err := loadFormula()
	if err != nil {
		return fmt.Errorf("loading formula: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Binaries (%d):\n", len(f.Binaries))
	for _, name := range f.Binaries {
		fmt.Fprintf(out, "  bin/%s\n", name)
	}

	fmt.Fprintf(out, "\nDirectories:\n")
	for _, dir := range f.Dirs {
		fmt.Fprintf(out, "  %s/\n", dir)
	}

	return nil
}
