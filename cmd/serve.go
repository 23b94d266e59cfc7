package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"fuelpin/calculator"
	"fuelpin/depletion"
	"fuelpin/metrics"
	"fuelpin/nucdata"
	"fuelpin/server"
)

// serveCmd pushes step reports to websocket clients
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve depletion runs over websocket at /ws and metrics at /metrics",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	lib, chain := nucdata.TwoGroup(), depletion.Builtin()
	s := server.NewServer(cfg, upgrader, func() (calculator.Calculator, error) {
		return calculator.NewPinCalculator(cfg, lib, chain, m)
	}, reg)
	return s.Serve(ctx)
}
