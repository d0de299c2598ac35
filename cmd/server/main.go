package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"cultivar.farm/internal/gen"
	"cultivar.farm/internal/persistence/archive"
	"cultivar.farm/internal/persistence/indexdb"
	persistlog "cultivar.farm/internal/persistence/log"
	"cultivar.farm/internal/persistence/mirror"
	"cultivar.farm/internal/persistence/savefile"
	"cultivar.farm/internal/sim/catalogs"
	"cultivar.farm/internal/sim/tuning"
	"cultivar.farm/internal/sim/world"
	"cultivar.farm/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		farmID     = flag.String("farm", "farm_1", "farm id")
		seed       = flag.Int64("seed", 1337, "world seed (used only when starting a fresh farm)")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite save index")

		savePath   = flag.String("save", "", "path to save to load (optional)")
		loadLatest = flag.Bool("load_latest_save", true, "load latest save from data dir if present (when -save is empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", tp)
			tune.ApplyDefaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	farmDir := filepath.Join(*dataDir, "farms", *farmID)
	_ = os.MkdirAll(farmDir, 0o755)

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(farmDir, "index.db"))
		if err != nil {
			logger.Fatalf("open save index: %v", err)
		}
		defer idx.Close()
	}

	w, err := world.New(world.ConfigFromTuning(tune, *seed), cats)
	if err != nil {
		logger.Fatalf("world: %v", err)
	}

	saveToLoad := strings.TrimSpace(*savePath)
	if saveToLoad == "" && *loadLatest {
		saveToLoad = latestSave(farmDir)
	}
	if saveToLoad != "" {
		save, err := savefile.Load(saveToLoad)
		if err != nil {
			logger.Fatalf("load save: %v", err)
		}
		if save.Header.FarmID != "" && save.Header.FarmID != *farmID {
			logger.Fatalf("save farm id mismatch: flag=%s save=%s", *farmID, save.Header.FarmID)
		}
		if err := w.RestoreFromSave(save); err != nil {
			logger.Fatalf("restore save: %v", err)
		}
		logger.Printf("resumed from save=%s day=%d", filepath.Base(saveToLoad), w.Day())
	}

	dayLog := persistlog.NewDayLogger(farmDir)
	alertLog := persistlog.NewAlertLogger(farmDir)
	defer dayLog.Close()
	defer alertLog.Close()
	w.SetDayLogger(dayLog)
	w.SetAlertLogger(alertLog)

	ctx, cancel := signalContext()
	defer cancel()

	generator, cleanup := buildGenerator(ctx, tune, *configDir, *seed, logger)
	defer cleanup()

	saveMirror := buildMirror(*dataDir, logger)
	defer saveMirror.Close()

	srv := ws.NewServer(w, generator, logger)
	srv.OnAdvance = func(w *world.World) {
		path := filepath.Join(farmDir, "saves", fmt.Sprintf("%d.save.zst", w.Day()))
		save := w.ExportSave(*farmID)
		if err := savefile.Write(path, save); err != nil {
			logger.Printf("write save: %v", err)
			return
		}
		saveMirror.Enqueue(path)
		if season, archivedPath, ok, err := archive.ArchiveSeasonSave(farmDir, path, save); err != nil {
			logger.Printf("archive season save: %v", err)
		} else if ok {
			logger.Printf("archived season %d save=%s", season, filepath.Base(archivedPath))
			saveMirror.Enqueue(archivedPath)
		}
		if idx != nil {
			row := indexdb.SaveRow{
				Day:    w.Day(),
				Season: string(w.Season()),
				Money:  w.Money(),
				Level:  w.Progress().Level,
				Path:   path,
				Digest: w.StateDigest(),
			}
			if err := idx.RecordSave(context.Background(), row); err != nil {
				logger.Printf("index save: %v", err)
			}
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/ws", srv.Handler())

	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = httpSrv.Shutdown(ctx2)
	}()

	logger.Printf("farm=%s seed=%d day=%d listening on %s", *farmID, *seed, w.Day(), *addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

// buildGenerator wires the remote model behind the deterministic
// fallback. Without an API key the farm runs fully offline.
func buildGenerator(ctx context.Context, tune tuning.Tuning, configDir string, seed int64, logger *log.Logger) (gen.Generator, func()) {
	fallback := gen.NewFallback(world.SeededRNG(seed + 1))
	cleanup := func() {}

	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		logger.Printf("GEMINI_API_KEY not set; using deterministic generator only")
		return gen.NewFailover(nil, fallback, logger), cleanup
	}

	schemaPath := filepath.Join(configDir, "changeset.schema.json")
	remote, err := gen.NewRemote(ctx, apiKey, tune.Remote.Model, schemaPath, time.Duration(tune.Remote.TimeoutSec)*time.Second)
	if err != nil {
		logger.Printf("remote generator unavailable (%v); using deterministic generator only", err)
		return gen.NewFailover(nil, fallback, logger), cleanup
	}
	logger.Printf("remote generator: model=%s", tune.Remote.Model)
	return gen.NewFailover(remote, fallback, logger), remote.Close
}

// buildMirror reads MIRROR_* env config. Returns nil (a no-op mirror)
// when unset; nil method receivers are safe on mirror.Mirror.
func buildMirror(dataDir string, logger *log.Logger) *mirror.Mirror {
	endpoint := strings.TrimSpace(os.Getenv("MIRROR_ENDPOINT"))
	if endpoint == "" {
		return nil
	}
	bucket, err := mirror.NewBucket(
		endpoint,
		os.Getenv("MIRROR_BUCKET"),
		os.Getenv("MIRROR_ACCESS_KEY_ID"),
		os.Getenv("MIRROR_SECRET_ACCESS_KEY"),
	)
	if err != nil {
		logger.Printf("save mirror disabled: %v", err)
		return nil
	}
	logger.Printf("save mirror: endpoint=%s", endpoint)
	return mirror.New(bucket, dataDir, os.Getenv("MIRROR_PREFIX"), 2, logger)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func latestSave(farmDir string) string {
	dir := filepath.Join(farmDir, "saves")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var best string
	var bestDay int
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".save.zst") {
			continue
		}
		day, err := strconv.Atoi(strings.TrimSuffix(name, ".save.zst"))
		if err != nil {
			continue
		}
		if best == "" || day > bestDay {
			bestDay = day
			best = filepath.Join(dir, name)
		}
	}
	return best
}
