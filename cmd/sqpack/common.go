package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/rpcpool/sqpack-go/metrics"
	"github.com/rpcpool/sqpack-go/sqpack"
)

// FlagMetricsAddr opts a command into exposing its Metrics over
// /metrics, mirroring the teacher's opt-in RPC-server listen flags:
// metrics are wired for free (WithMetrics), the HTTP exposition is a
// separate decision.
var FlagMetricsAddr = &cli.StringFlag{
	Name:    "metrics-addr",
	Usage:   "If set, serve Prometheus metrics on this address (e.g. :9090) for the duration of the command",
	EnvVars: []string{"SQPACK_METRICS_ADDR"},
}

// dataDirFlags is the flag set every subcommand that opens a GameData
// shares.
func dataDirFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{FlagDataDir, FlagMetricsAddr}, extra...)
}

// openGameData wires metrics (and, if --metrics-addr is set, serves
// them over HTTP for the command's lifetime) before opening a
// GameData rooted at --data-dir.
func openGameData(c *cli.Context) (*sqpack.GameData, error) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	if addr := c.String("metrics-addr"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: addr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				klog.Errorf("metrics server on %s: %v", addr, err)
			}
		}()
		klog.Infof("serving metrics on http://%s/metrics", addr)
	}

	return sqpack.New(c.String("data-dir"), sqpack.WithMetrics(m))
}
