package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"cultivar.farm/internal/persistence/indexdb"
	"cultivar.farm/internal/persistence/savefile"
	"cultivar.farm/internal/sim/catalogs"
	"cultivar.farm/internal/sim/tuning"
	"cultivar.farm/internal/sim/world"
)

// Save inspection tool: print a save's header, list the index, and
// verify that a restored save reproduces the digest the index recorded.
func main() {
	var (
		savePath  = flag.String("save", "", "path to .save.zst to inspect")
		indexPath = flag.String("index", "", "path to index.db to list (optional)")
		configDir = flag.String("configs", "./configs", "config directory")
		limit     = flag.Int("limit", 20, "max index rows to list")
		verify    = flag.Bool("verify", false, "restore the save and recompute its state digest")
	)
	flag.Parse()

	if *savePath == "" && *indexPath == "" {
		fmt.Fprintln(os.Stderr, "missing -save or -index")
		os.Exit(2)
	}

	if *indexPath != "" {
		if err := listIndex(*indexPath, *limit); err != nil {
			fmt.Fprintln(os.Stderr, "list index:", err)
			os.Exit(1)
		}
	}

	if *savePath == "" {
		return
	}

	save, err := savefile.Load(*savePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load save:", err)
		os.Exit(1)
	}
	fmt.Printf("save v%d farm=%s day=%d season=%s money=%d level=%d fields=%d alerts=%d\n",
		save.Header.Version, save.Header.FarmID, save.Day, save.Season, save.Money,
		save.Level, len(save.Fields), len(save.Alerts))

	if !*verify {
		return
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}
	var tune tuning.Tuning
	tune.ApplyDefaults()
	tune.SeasonLengthDays = save.SeasonLengthDays

	w, err := world.New(world.ConfigFromTuning(tune, save.Seed), cats)
	if err != nil {
		fmt.Fprintln(os.Stderr, "world:", err)
		os.Exit(1)
	}
	if err := w.RestoreFromSave(save); err != nil {
		fmt.Fprintln(os.Stderr, "restore:", err)
		os.Exit(1)
	}
	fmt.Printf("digest %s\n", w.StateDigest())
}

func listIndex(path string, limit int) error {
	idx, err := indexdb.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer idx.Close()

	rows, err := idx.Saves(context.Background(), limit)
	if err != nil {
		return err
	}
	for _, r := range rows {
		fmt.Printf("#%d %s day=%d season=%s money=%d level=%d %s digest=%s\n",
			r.ID, r.CreatedAt, r.Day, r.Season, r.Money, r.Level, filepath.Base(r.Path), r.Digest)
	}
	return nil
}
