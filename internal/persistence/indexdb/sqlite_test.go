package indexdb

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatal("want error for empty path")
	}
}

func TestLatestSaveEmptyIndex(t *testing.T) {
	idx := openTestIndex(t)
	_, ok, err := idx.LatestSave(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if ok {
		t.Fatal("empty index must report no latest save")
	}
}

func TestRecordAndLatestSave(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	rows := []SaveRow{
		{Day: 1, Season: "Summer", Money: 500, Level: 1, Path: "saves/1.save.zst", Digest: "d1"},
		{Day: 2, Season: "Summer", Money: 650, Level: 1, Path: "saves/2.save.zst", Digest: "d2"},
		{Day: 3, Season: "Summer", Money: 420, Level: 2, Path: "saves/3.save.zst", Digest: "d3"},
	}
	for _, r := range rows {
		if err := idx.RecordSave(ctx, r); err != nil {
			t.Fatalf("record day %d: %v", r.Day, err)
		}
	}

	latest, ok, err := idx.LatestSave(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !ok {
		t.Fatal("want a latest save")
	}
	if latest.Day != 3 || latest.Path != "saves/3.save.zst" || latest.Digest != "d3" || latest.Level != 2 {
		t.Fatalf("latest=%+v want day 3 row", latest)
	}
	if latest.CreatedAt == "" {
		t.Fatal("created_at must be filled in when omitted")
	}
}

func TestSavesNewestFirstWithLimit(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	for day := 1; day <= 5; day++ {
		err := idx.RecordSave(ctx, SaveRow{
			Day: day, Season: "Summer", Money: 500, Level: 1,
			Path: "saves/x.save.zst", Digest: "d",
		})
		if err != nil {
			t.Fatalf("record day %d: %v", day, err)
		}
	}

	got, err := idx.Saves(ctx, 3)
	if err != nil {
		t.Fatalf("saves: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len=%d want 3", len(got))
	}
	for i, wantDay := range []int{5, 4, 3} {
		if got[i].Day != wantDay {
			t.Fatalf("row %d day=%d want %d", i, got[i].Day, wantDay)
		}
	}

	all, err := idx.Saves(ctx, 0)
	if err != nil {
		t.Fatalf("saves: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("default limit listing len=%d want 5", len(all))
	}
}

func TestReopenKeepsRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")
	ctx := context.Background()

	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := idx.RecordSave(ctx, SaveRow{Day: 7, Season: "Autumn", Money: 900, Level: 2, Path: "saves/7.save.zst", Digest: "d7"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	idx2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx2.Close()

	latest, ok, err := idx2.LatestSave(ctx)
	if err != nil || !ok {
		t.Fatalf("latest after reopen: ok=%t err=%v", ok, err)
	}
	if latest.Day != 7 {
		t.Fatalf("day=%d want 7", latest.Day)
	}
}
