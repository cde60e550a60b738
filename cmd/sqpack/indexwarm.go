package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/rpcpool/sqpack-go/category"
)

// allCategoryIDs lists every fixed category, in table order (§3).
var allCategoryIDs = []category.ID{
	category.Common, category.BgCommon, category.Bg, category.Cut,
	category.Chara, category.Shader, category.UI, category.Sound,
	category.Vfx, category.UIScript, category.Exd, category.GameScript,
	category.Music, category.SqpackTest, category.Debug,
}

func newCmd_IndexWarm() *cli.Command {
	return &cli.Command{
		Name:        "index-warm",
		Usage:       "Eagerly parse every (repository, category) index pair, warming the in-process cache.",
		Description: "Visits every discovered repository × the fixed category table and lists it, forcing index.Store to load and cache each pair's .index table (or its .index2 table where .index is absent).",
		Flags:       dataDirFlags(),
		Action: func(c *cli.Context) error {
			gd, err := openGameData(c)
			if err != nil {
				return fmt.Errorf("sqpack index-warm: opening data dir: %w", err)
			}
			defer gd.Close()

			repos := gd.Repositories()
			total := len(repos) * len(allCategoryIDs)
			bar := progressbar.Default(int64(total), "warming indices")

			var warmed, empty int
			for _, repo := range repos {
				for _, cat := range allCategoryIDs {
					// A trailing dummy segment satisfies pathresolve's
					// minimum token count; Resolve only consults the
					// first two tokens when the first names a repository.
					entries, err := gd.List(repo.Name + "/" + cat.Name() + "/_")
					if err != nil {
						return fmt.Errorf("sqpack index-warm: %s/%s: %w", repo.Name, cat.Name(), err)
					}
					if len(entries) == 0 {
						empty++
					} else {
						warmed++
					}
					bar.Add(1)
				}
			}
			fmt.Println()
			klog.Infof("warmed %d non-empty index tables (%d empty/absent) across %d repositories", warmed, empty, len(repos))
			return nil
		},
	}
}
