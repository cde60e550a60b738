package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

func newCmd_Sheet() *cli.Command {
	return &cli.Command{
		Name:        "sheet",
		Usage:       "Read and decode an Excel sheet's rows as JSON.",
		Description: "Looks the sheet up in the root.exl sheet directory, reads its EXH schema, then decodes every page's rows.",
		ArgsUsage:   "<sheet-name>",
		Flags: dataDirFlags(&cli.StringFlag{
			Name:  "lang",
			Usage: "Language qualifier for the page filename (e.g. en, ja, de, fr, chs, cht, ko); empty for non-localized sheets",
		}),
		Action: func(c *cli.Context) error {
			name := c.Args().First()
			if name == "" {
				return fmt.Errorf("sqpack sheet: missing <sheet-name> argument")
			}
			lang := c.String("lang")

			gd, err := openGameData(c)
			if err != nil {
				return fmt.Errorf("sqpack sheet: opening data dir: %w", err)
			}
			defer gd.Close()

			exh, err := gd.ReadSheet(name)
			if err != nil {
				return fmt.Errorf("sqpack sheet: %w", err)
			}
			klog.V(1).Infof("sheet %q: %d columns, %d pages, %d rows", name, len(exh.Columns), len(exh.Pages), exh.RowCount)

			type row struct {
				ID    uint32        `json:"id"`
				Cells []interface{} `json:"cells"`
			}
			var out []row
			for _, page := range exh.Pages {
				rows, err := gd.ReadPage(name, exh, page, lang)
				if err != nil {
					return fmt.Errorf("sqpack sheet: reading page starting at %d: %w", page.StartID, err)
				}
				for _, r := range rows {
					cells := make([]interface{}, len(r.Cells))
					for i, cell := range r.Cells {
						cells[i] = cellValue(cell)
					}
					out = append(out, row{ID: r.ID, Cells: cells})
				}
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
