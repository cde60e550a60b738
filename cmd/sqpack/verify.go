package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/rpcpool/sqpack-go/datafile"
)

func newCmd_Verify() *cli.Command {
	return &cli.Command{
		Name:        "verify",
		Usage:       "Verify a path resolves and, for Standard records, its decoded length matches its declared record size.",
		Description: "Checks that read(P) length equals the record's declared raw_file_size; the length check applies to Standard records only.",
		ArgsUsage:   "<path>",
		Flags: dataDirFlags(&cli.BoolFlag{
			Name:  "debug",
			Usage: "Dump the decoded record header and index entry structurally",
		}),
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("sqpack verify: missing <path> argument")
			}

			gd, err := openGameData(c)
			if err != nil {
				return fmt.Errorf("sqpack verify: opening data dir: %w", err)
			}
			defer gd.Close()

			hdr, entry, ok, err := gd.Stat(path)
			if err != nil {
				return fmt.Errorf("sqpack verify: %w", err)
			}
			if !ok {
				return fmt.Errorf("sqpack verify: %q not found", path)
			}

			if c.Bool("debug") {
				spew.Dump(entry)
				spew.Dump(hdr)
			}

			raw, err := gd.Read(path)
			if err != nil {
				return fmt.Errorf("sqpack verify: decoding %q: %w", path, err)
			}

			fmt.Printf("%s: file_type=%s declared=%s decoded=%s\n",
				path, hdr.FileType, humanize.Bytes(uint64(hdr.RawFileSize)), humanize.Bytes(uint64(len(raw))))

			// §8 invariant 2 only binds Standard records to their
			// declared raw_file_size; Model records emit a
			// reordered/re-headered layout with no such contract.
			if hdr.FileType == datafile.FileTypeStandard && uint32(len(raw)) != hdr.RawFileSize {
				return fmt.Errorf("sqpack verify: %q: decoded length %d does not match declared raw_file_size %d",
					path, len(raw), hdr.RawFileSize)
			}
			fmt.Println("OK")
			return nil
		},
	}
}
