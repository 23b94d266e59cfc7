// Package cmd provides the command line entry points.
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fuelpin/calculator"
)

var (
	cfgFile string
	verbose bool

	cfg calculator.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fuelpin",
	Short: "Fuel pin depletion with Dancoff-corrected self-shielding",
	Long: `fuelpin models a single nuclear fuel pin: equal-area fuel rings,
Dancoff corrections from isolated and lattice cells, self-shielded cross
sections, transport on the pin cell and predictor-corrector depletion.

Examples:
  fuelpin run --config conf/config.ini
  fuelpin serve --config conf/config.ini`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "conf/config.ini", "ini config file, missing file means defaults")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	var err error
	cfg, err = calculator.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if verbose {
		cfg.LogLevel = log.DebugLevel
	}
	log.SetLevel(cfg.LogLevel)
}
