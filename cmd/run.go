package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fuelpin/calculator"
	"fuelpin/depletion"
	"fuelpin/nucdata"
)

var jsonOutput bool

// runCmd runs one depletion sequence and prints the state points
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one depletion sequence for the configured pin",
	Args:  cobra.NoArgs,
	RunE:  runSequence,
}

func init() {
	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "print one JSON report per state point on stdout")
}

func runSequence(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c, err := calculator.NewPinCalculator(cfg, nucdata.TwoGroup(), depletion.Builtin(), nil)
	if err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	enc := json.NewEncoder(cmd.OutOrStdout())
	for r := range c.GetCalcHub().Reports {
		if !jsonOutput {
			continue
		}
		if err := enc.Encode(r); err != nil {
			log.Warn("encode report: ", err)
		}
	}
	return <-done
}
