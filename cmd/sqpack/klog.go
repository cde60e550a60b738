package main

import (
	"flag"
	"fmt"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

// NewKlogFlagSet mirrors klog's own flag.FlagSet into urfave/cli
// flags, so klog's verbosity/output knobs are reachable as ordinary
// CLI flags instead of requiring -flagset= passthrough.
func NewKlogFlagSet() []cli.Flag {
	fs := flag.NewFlagSet("klog", flag.PanicOnError)
	klog.InitFlags(fs)

	fs.Set("v", "2")
	fs.Set("logtostderr", "true")

	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose (klog -v=4) logging",
			EnvVars: []string{"SQPACK_VERBOSE"},
			Action: func(cctx *cli.Context, v bool) error {
				if v {
					fs.Set("v", "4")
				}
				return nil
			},
		},
		&cli.BoolFlag{
			Name:    "very-verbose",
			Aliases: []string{"VV"},
			Usage:   "Enable very verbose (klog -v=8) logging",
			EnvVars: []string{"SQPACK_VERY_VERBOSE"},
			Action: func(cctx *cli.Context, v bool) error {
				if v {
					fs.Set("v", "8")
				}
				return nil
			},
		},
		&cli.StringFlag{
			Name:    "log_file",
			Usage:   "If non-empty, use this log file instead of stderr",
			EnvVars: []string{"SQPACK_LOG_FILE"},
			Action: func(cctx *cli.Context, v string) error {
				if v != "" {
					fs.Set("logtostderr", "false")
					fs.Set("log_file", v)
				}
				return nil
			},
		},
		&cli.StringFlag{
			Name:    "vmodule",
			Usage:   "comma-separated list of pattern=N settings for file-filtered logging",
			EnvVars: []string{"SQPACK_VMODULE"},
			Action: func(cctx *cli.Context, v string) error {
				if v != "" {
					fs.Set("vmodule", v)
				}
				return nil
			},
		},
		&cli.IntFlag{
			Name:    "v",
			Usage:   "number for the log level verbosity",
			EnvVars: []string{"SQPACK_V"},
			Action: func(cctx *cli.Context, v int) error {
				if v > 0 {
					fs.Set("v", fmt.Sprint(v))
				}
				return nil
			},
		},
	}
}
