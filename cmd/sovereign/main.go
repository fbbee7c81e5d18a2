package main

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/DaanHessen/sovereign-tui/internal/engine"
	"github.com/DaanHessen/sovereign-tui/internal/journal"
	"github.com/DaanHessen/sovereign-tui/internal/store"
	"github.com/DaanHessen/sovereign-tui/internal/text"
	"github.com/DaanHessen/sovereign-tui/internal/ui"
	"github.com/DaanHessen/sovereign-tui/internal/util"
	"github.com/DaanHessen/sovereign-tui/internal/world"
)

var (
	version      = "0.1.0-alpha"
	seedAlphabet = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg, err := util.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	cfg.Version = version

	flag.StringVar(&cfg.SeedText, "seed", cfg.SeedText, "Campaign seed string (optional; random if omitted)")
	flag.StringVar(&cfg.DSN, "dsn", cfg.DSN, "PostgreSQL DSN for save slots")
	flag.StringVar(&cfg.TuningPath, "tuning", cfg.TuningPath, "Scenario tuning YAML")
	flag.StringVar(&cfg.Theme, "theme", cfg.Theme, "Colour theme: catppuccin|dracula|gruvbox|solarized_dark")
	flag.BoolVar(&cfg.Offline, "offline", cfg.Offline, "Run without the save database")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "sovereign [--seed S] [--dsn DSN] [--tuning FILE] [--theme NAME] [--offline] | migrate up|down | export PATH | import PATH | version\n")
	}
	flag.Parse()

	closeLog := setupLogging(cfg.LogPath)
	defer closeLog()

	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "version":
			fmt.Println("sovereign", version)
			return
		case "migrate":
			if len(args) < 2 {
				log.Fatal("migrate requires 'up' or 'down'")
			}
			runMigrate(cfg, args[1])
			return
		case "export":
			if len(args) < 2 {
				log.Fatal("export requires a path")
			}
			runExport(cfg, args[1])
			return
		case "import":
			if len(args) < 2 {
				log.Fatal("import requires a path")
			}
			runImport(cfg, args[1])
			return
		default:
			flag.Usage()
			os.Exit(2)
		}
	}

	cfg.SeedText = strings.TrimSpace(cfg.SeedText)
	if cfg.SeedText == "" {
		generated, err := generateSeed()
		if err != nil {
			log.Fatalf("failed to generate seed: %v", err)
		}
		cfg.SeedText = generated
		fmt.Printf("New campaign seed: %s\n", cfg.SeedText)
	}

	tuning, err := util.LoadTuning(cfg.TuningPath)
	if err != nil {
		log.Fatalf("tuning: %v", err)
	}

	ctx := context.Background()
	deps := ui.Deps{Narrator: text.NewTemplateNarrator()}

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		log.Fatalf("failed to open journal: %v", err)
	}
	defer j.Close()
	deps.Journal = j

	if !cfg.Offline {
		db, err := openStore(ctx, cfg)
		if err != nil {
			// Saves are optional; the campaign still runs.
			slog.Warn("save database unavailable", "err", err)
		} else {
			defer db.Close()
			deps.Saves = store.NewSaveRepo(db)
		}
	}

	if err := ui.Run(ctx, cfg, tuning, deps); err != nil {
		log.Fatal(err)
	}
}

// openStore applies pending migrations and connects.
func openStore(ctx context.Context, cfg util.Config) (*store.DB, error) {
	mig, err := store.NewMigrator(cfg.DSN, "")
	if err != nil {
		return nil, err
	}
	migCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := mig.Up(migCtx); err != nil && !errors.Is(err, store.ErrNoChange) {
		return nil, fmt.Errorf("migrations failed: %w", err)
	}
	return store.Open(ctx, cfg)
}

func runMigrate(cfg util.Config, action string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	migrator, err := store.NewMigrator(cfg.DSN, "")
	if err != nil {
		log.Fatal(err)
	}
	switch action {
	case "up":
		if err := migrator.Up(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
			log.Fatal(err)
		}
		fmt.Println("Migrations applied")
	case "down":
		if err := migrator.Down(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
			log.Fatal(err)
		}
		fmt.Println("Migrations rolled back")
	default:
		log.Fatal("unknown migrate action; use up|down")
	}
}

// runExport writes the latest save slot to path.
func runExport(cfg util.Config, path string) {
	ctx := context.Background()
	db, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	sv, err := store.NewSaveRepo(db).Latest(ctx)
	if err != nil {
		log.Fatalf("no save to export: %v", err)
	}
	if err := store.ExportFile(path, sv.Name, sv.State, sv.Ledger, sv.Factions); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Exported %q (%s) to %s\n", sv.Name, sv.GameDate, path)
}

// runImport validates an export and stores it as a new save slot.
func runImport(cfg util.Config, path string) {
	hdr, doc, err := store.ImportFile(path)
	if err != nil {
		log.Fatalf("import %s: %v", path, err)
	}
	tuning, err := util.LoadTuning(cfg.TuningPath)
	if err != nil {
		log.Fatalf("tuning: %v", err)
	}
	base, _ := world.NewCampaign(tuning)
	state := engine.Reduce(base, engine.LoadGame{Data: doc})

	ctx := context.Background()
	db, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	ledger := engine.AELedger{}
	for tag, ae := range hdr.Ledger {
		ledger.Add(tag, ae)
	}
	id, err := store.NewSaveRepo(db).Create(ctx, hdr.Name, state, ledger, hdr.Factions)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Imported %q (%s) as save %s\n", hdr.Name, hdr.Date, id)
}

// setupLogging sends slog output to path; the terminal belongs to the shell.
func setupLogging(path string) func() {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
		return func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("open log: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})))
	return func() { f.Close() }
}

func generateSeed() (string, error) {
	buf := make([]byte, 15) // 24 characters base32
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToLower(seedAlphabet.EncodeToString(buf)), nil
}
