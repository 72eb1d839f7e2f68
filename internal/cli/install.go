// internal/cli/install.go
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/wrljet/hercformula"
)

var (
	installSource      string
	installBinDir      string
	installPrefix      string
	installHead        bool
	installOnly        []string
	installDryRun      bool
	installKeepArchive bool
	installForce       bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the SDL-Hercules binaries",
	Long: `Fetch the SDL-Hercules binary distribution and install it.

The binaries of the install manifest are copied from bin/ of the source tree
into the bin directory; lib and share are copied into the prefix when present.

Examples:
  hercformula install
  hercformula install --head
  hercformula install --source ./sdl-hercules-binaries-macos-0.9.7 --bin /usr/local/bin --prefix /usr/local/hercules
  hercformula install --only hercules,dasdinit --dry-run`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installSource, "source", "", "already-extracted source tree (skips the download)")
	installCmd.Flags().StringVar(&installBinDir, "bin", "", "binary target directory (default <prefix>/bin)")
	installCmd.Flags().StringVar(&installPrefix, "prefix", "", "install prefix (default <install_path>/Cellar/<name>/<version>)")
	installCmd.Flags().BoolVar(&installHead, "head", false, "install from the HEAD git repository")
	installCmd.Flags().StringSliceVar(&installOnly, "only", nil, "install only these manifest entries")
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "show what would be installed")
	installCmd.Flags().BoolVar(&installKeepArchive, "keep-archive", false, "keep the downloaded archive in the cache")
	installCmd.Flags().BoolVar(&installForce, "force", false, "download again even if the archive is cached")
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	formula, err := loadFormula()
	if err != nil {
		return fmt.Errorf("loading formula: %w", err)
	}

	if installBinDir == "" && config.BinDir != "" {
		installBinDir = config.BinDir
	}

	mgr, err := hercformula.NewManager(formula, &hercformula.Config{
		InstallPath: config.InstallPath,
		CachePath:   config.CachePath,
		Timeout:     config.Timeout,
		Debug:       config.Debug,
		Logger:      debugLogger(cmd.ErrOrStderr()),
		Reporter:    log.New(cmd.OutOrStdout(), "", 0),
	})
	if err != nil {
		return fmt.Errorf("initializing installer: %w", err)
	}

	result, err := mgr.Install(ctx, &hercformula.InstallOptions{
		SourceDir:   installSource,
		Head:        installHead,
		BinDir:      installBinDir,
		Prefix:      installPrefix,
		Only:        installOnly,
		DryRun:      installDryRun,
		KeepArchive: installKeepArchive || config.KeepArchive,
		Force:       installForce,
	})
	if err != nil {
		return err
	}

	if config.Debug {
		fmt.Fprintf(cmd.ErrOrStderr(), "installed %d binaries, %d dirs (%d files), skipped %v\n",
			len(result.Binaries), len(result.Dirs), result.Files, result.SkippedDirs)
	}
	return nil
}
