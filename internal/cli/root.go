// internal/cli/root.go
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/wrljet/hercformula"
	"github.com/wrljet/hercformula/pkg/core"
	"github.com/wrljet/hercformula/pkg/registry"
)

// Version is the hercformula release
const Version = "0.1.0"

var (
	cfgFile     string
	formulaFile string
	debug       bool
	config      *core.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hercformula",
	Short: "SDL-Hercules-390 binary installer",
	Long: `hercformula - SDL-Hercules-390 binary installer

Installs the prebuilt SDL-Hercules-390 emulator and its DASD and tape
utilities into a Homebrew-style Cellar.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/hercformula/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&formulaFile, "formula", "", "TOML formula definition overriding the built-in one")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if debug {
		config.Debug = true
	}
	if formulaFile != "" {
		config.Formula = formulaFile
	}
}

// loadFormula returns the formula named in the config, or the built-in one
func loadFormula() (*hercformula.Formula, error) {
	if config.Formula == "" {
		return hercformula.Default(), nil
	}
	return registry.Load(config.Formula)
}

// debugLogger returns the logger handed to the library
func debugLogger(w io.Writer) *log.Logger {
	if config.Debug {
		return log.New(w, "[hercformula] ", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}
