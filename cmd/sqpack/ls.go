package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

func newCmd_Ls() *cli.Command {
	return &cli.Command{
		Name:        "ls",
		Usage:       "List every index entry known for a folder's owning (repository, category).",
		Description: "Entries are hash-addressed: SqPack's index does not carry a path back out, so only hash/offset/data-file-id are shown.",
		ArgsUsage:   "<folder>",
		Flags:       dataDirFlags(),
		Action: func(c *cli.Context) error {
			folder := c.Args().First()
			if folder == "" {
				return fmt.Errorf("sqpack ls: missing <folder> argument")
			}

			gd, err := openGameData(c)
			if err != nil {
				return fmt.Errorf("sqpack ls: opening data dir: %w", err)
			}
			defer gd.Close()

			entries, err := gd.List(folder)
			if err != nil {
				return fmt.Errorf("sqpack ls: %w", err)
			}

			fmt.Printf("%d entries\n", len(entries))
			for _, e := range entries {
				fmt.Printf("hash=%016x  dat=%d  offset=%s (%d blocks)\n",
					e.Hash, e.DataFileID, humanize.Bytes(uint64(e.ByteOffset())), e.OffsetBlocks)
			}
			return nil
		},
	}
}
