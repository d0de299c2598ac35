package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"cultivar.farm/internal/persistence/savefile"
)

type SeasonArchiveMeta struct {
	SeasonNumber     int    `json:"season_number"`
	Season           string `json:"season"`
	EndDay           int    `json:"end_day"`
	Seed             int64  `json:"seed"`
	Save             string `json:"save"`
	CreatedAt        string `json:"created_at"`
	SeasonLengthDays int    `json:"season_length_days"`
}

// ArchiveSeasonSave copies a season-end save into
// `farmDir/archives/season_<NNN>/`. Days are 1-based, so season k ends
// on day k*seasonLengthDays. Returns archived=false for any other day.
func ArchiveSeasonSave(farmDir, savePath string, save savefile.SaveV1) (season int, archivedPath string, archived bool, err error) {
	seasonLen := save.SeasonLengthDays
	if seasonLen <= 0 {
		return 0, "", false, nil
	}
	if save.Day%seasonLen != 0 {
		return 0, "", false, nil
	}
	season = save.Day / seasonLen
	if season <= 0 {
		return 0, "", false, nil
	}

	archiveDir := filepath.Join(farmDir, "archives", fmt.Sprintf("season_%03d", season))
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return 0, "", false, err
	}

	dst := filepath.Join(archiveDir, filepath.Base(savePath))
	if err := copyFile(savePath, dst); err != nil {
		return 0, "", false, err
	}

	meta := SeasonArchiveMeta{
		SeasonNumber:     season,
		Season:           save.Season,
		EndDay:           save.Day,
		Seed:             save.Seed,
		Save:             filepath.Base(dst),
		CreatedAt:        time.Now().UTC().Format(time.RFC3339Nano),
		SeasonLengthDays: seasonLen,
	}
	if b, err := json.MarshalIndent(meta, "", "  "); err == nil {
		_ = os.WriteFile(filepath.Join(archiveDir, "meta.json"), b, 0o644)
	}

	return season, dst, true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
