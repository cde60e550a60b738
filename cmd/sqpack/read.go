package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

func newCmd_Read() *cli.Command {
	return &cli.Command{
		Name:        "read",
		Usage:       "Read one file's bytes out of a SqPack data directory.",
		Description: "Resolves a logical path (e.g. exd/root.exl) to bytes and writes them to stdout or --out.",
		ArgsUsage:   "<path>",
		Flags: dataDirFlags(&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "Write the decoded bytes to this file instead of stdout",
		}),
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("sqpack read: missing <path> argument")
			}

			gd, err := openGameData(c)
			if err != nil {
				return fmt.Errorf("sqpack read: opening data dir: %w", err)
			}
			defer gd.Close()

			raw, err := gd.Read(path)
			if err != nil {
				return fmt.Errorf("sqpack read: %w", err)
			}
			if raw == nil {
				return fmt.Errorf("sqpack read: %q not found", path)
			}
			klog.V(1).Infof("read %q: %d bytes", path, len(raw))

			if out := c.String("out"); out != "" {
				if err := os.WriteFile(out, raw, 0o644); err != nil {
					return fmt.Errorf("sqpack read: writing %q: %w", out, err)
				}
				return nil
			}
			_, err = os.Stdout.Write(raw)
			return err
		},
	}
}
