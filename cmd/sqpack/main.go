// Command sqpack is the CLI front end over the sqpack library: it
// resolves, reads, lists, and inspects entries in a SqPack data
// directory without reimplementing any decode logic itself.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

var gitCommitSHA = ""

// FlagDataDir is shared by every subcommand that opens a GameData.
var FlagDataDir = &cli.StringFlag{
	Name:     "data-dir",
	Aliases:  []string{"d"},
	Usage:    "Path to the SqPack data directory (contains ffxiv/, ex1/, ex2/, ...)",
	EnvVars:  []string{"SQPACK_DATA_DIR"},
	Required: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, syscall.SIGTERM, syscall.SIGINT)

		select {
		case <-interrupt:
			fmt.Println()
			klog.Info("received interrupt signal")
			cancel()
		case <-ctx.Done():
		}

		signal.Stop(interrupt)
	}()

	app := &cli.App{
		Name:        "sqpack",
		Version:     gitCommitSHA,
		Description: "CLI to read, list, and inspect entries in a SqPack game-data archive.",
		Before: func(c *cli.Context) error {
			return nil
		},
		Flags: NewKlogFlagSet(),
		Commands: []*cli.Command{
			newCmd_Read(),
			newCmd_Ls(),
			newCmd_Sheet(),
			newCmd_Verify(),
			newCmd_IndexWarm(),
			newCmd_Version(),
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.RunContext(ctx, os.Args); err != nil {
		klog.Fatal(err)
	}
}
