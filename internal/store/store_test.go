package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/DaanHessen/sovereign-tui/internal/engine"
	"github.com/DaanHessen/sovereign-tui/internal/util"
)

func TestExportRoundTrip(t *testing.T) {
	s := engine.DefaultNationState()
	s = engine.ReduceAll(s, engine.TakeLoan{}, engine.AddAlly{Tag: "CAS"}, engine.SelectProvinceID(7))
	ledger := engine.AELedger{"ENG": 42.5}
	factions := engine.DefaultFactions()
	factions[0].Happiness = 12
	var buf bytes.Buffer
	if err := WriteExport(&buf, "autumn", s, ledger, factions); err != nil {
		t.Fatalf("WriteExport: %v", err)
	}
	hdr, doc, err := ReadExport(&buf)
	if err != nil {
		t.Fatalf("ReadExport: %v", err)
	}
	if hdr.Name != "autumn" || hdr.Date != s.Date || hdr.Player != "FRA" {
		t.Fatalf("header %+v", hdr)
	}
	if hdr.Ledger["ENG"] != 42.5 {
		t.Fatalf("ledger %v", hdr.Ledger)
	}
	if len(hdr.Factions) != len(factions) || hdr.Factions[0].Happiness != 12 {
		t.Fatalf("factions %+v", hdr.Factions)
	}
	got := engine.Reduce(engine.DefaultNationState(), engine.LoadGame{Data: doc})
	if got.Loans != 1 || !got.AlliedWith("CAS") || got.SelectedProvince == nil || *got.SelectedProvince != 7 {
		t.Fatalf("state did not survive export: %+v", got)
	}
}

func TestWriteExportRejectsUnencodableHeader(t *testing.T) {
	var buf bytes.Buffer
	err := WriteExport(&buf, "bad", engine.DefaultNationState(), engine.AELedger{"ENG": math.NaN()}, nil)
	if err == nil {
		t.Fatalf("expected an error for a NaN ledger entry")
	}
	if buf.Len() != 0 {
		t.Fatalf("wrote %d bytes before failing", buf.Len())
	}
}

func TestDecodeSave(t *testing.T) {
	s := engine.Reduce(engine.DefaultNationState(), engine.UpdateTreasury{Delta: 11})
	stateB, _ := json.Marshal(s)
	factionB, _ := json.Marshal(engine.DefaultFactions())
	state, ledger, factions, err := decodeSave(stateB, []byte(`{"ENG":3}`), factionB)
	if err != nil {
		t.Fatalf("decodeSave: %v", err)
	}
	if state.Treasury != s.Treasury || ledger.Get("ENG") != 3 || len(factions) != len(engine.DefaultFactions()) {
		t.Fatalf("decoded %+v %v %d factions", state, ledger, len(factions))
	}
	for name, doc := range map[string]string{
		"malformed":  `{"date":`,
		"wrong type": `{"date":"1444-11-11","player_nation":"FRA","treasury":"lots","manpower":1,"max_manpower":2,"stability":0}`,
		"empty":      ``,
	} {
		if _, _, _, err := decodeSave([]byte(doc), nil, nil); err == nil {
			t.Fatalf("%s state decoded without error", name)
		}
	}
	if _, _, _, err := decodeSave(stateB, []byte(`[1,2]`), nil); err == nil {
		t.Fatalf("bad ledger decoded without error")
	}
}

func writeRaw(t *testing.T, lines ...string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	bw := bufio.NewWriter(enc)
	for _, l := range lines {
		bw.WriteString(l + "\n")
	}
	bw.Flush()
	enc.Close()
	return &buf
}

func TestReadExportRejectsInvalidState(t *testing.T) {
	buf := writeRaw(t,
		`{"version":1,"name":"bad","date":"1444-11-11","player":"FRA"}`,
		`{"date":"1444-11-11","player_nation":"FRA","treasury":1,"manpower":5,"max_manpower":10,"stability":9}`,
	)
	if _, _, err := ReadExport(buf); err == nil {
		t.Fatalf("expected schema violation for stability 9")
	}
}

func TestReadExportRejectsMissingFields(t *testing.T) {
	buf := writeRaw(t, `{"version":1}`, `{"treasury":1}`)
	if _, _, err := ReadExport(buf); err == nil {
		t.Fatalf("expected schema violation for missing fields")
	}
}

func TestReadExportRejectsVersion(t *testing.T) {
	buf := writeRaw(t, `{"version":7}`, `{}`)
	if _, _, err := ReadExport(buf); err == nil {
		t.Fatalf("expected version error")
	}
}

func TestReadExportRejectsPlainJSON(t *testing.T) {
	if _, _, err := ReadExport(bytes.NewBufferString(`{"version":1}`)); err == nil {
		t.Fatalf("expected zstd error")
	}
}

func TestExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "save.sov")
	if err := ExportFile(path, "file", engine.DefaultNationState(), nil, nil); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	hdr, _, err := ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if hdr.Name != "file" {
		t.Fatalf("header %+v", hdr)
	}
	if _, _, err := ImportFile(filepath.Join(t.TempDir(), "missing.sov")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestMigrationsPaired(t *testing.T) {
	dir := filepath.Join("..", "..", "db", "migrations")
	ups, _ := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	downs, _ := filepath.Glob(filepath.Join(dir, "*.down.sql"))
	if len(ups) == 0 || len(ups) != len(downs) {
		t.Fatalf("unpaired migrations: %d up, %d down", len(ups), len(downs))
	}
}

func TestNewMigratorRequiresDSN(t *testing.T) {
	if _, err := NewMigrator("", ""); err == nil {
		t.Fatalf("expected error for empty DSN")
	}
}

// TestSaveRepoPostgres runs against a real database when SOVEREIGN_TEST_DSN is set.
func TestSaveRepoPostgres(t *testing.T) {
	dsn := os.Getenv("SOVEREIGN_TEST_DSN")
	if dsn == "" {
		t.Skip("SOVEREIGN_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	mig, err := NewMigrator(dsn, filepath.Join("..", "..", "db", "migrations"))
	if err != nil {
		t.Fatal(err)
	}
	if err := mig.Up(ctx); err != nil && !errors.Is(err, ErrNoChange) {
		t.Fatalf("migrate: %v", err)
	}
	db, err := Open(ctx, util.Config{DSN: dsn})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	repo := NewSaveRepo(db)
	s := engine.Reduce(engine.DefaultNationState(), engine.UpdateTreasury{Delta: 11})
	factions := engine.DefaultFactions()
	factions[1].Happiness = 7
	id, err := repo.Create(ctx, "test", s, engine.AELedger{"ENG": 3}, factions)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State.Treasury != s.Treasury || got.Ledger.Get("ENG") != 3 || len(got.Factions) != len(factions) || got.Factions[1].Happiness != 7 {
		t.Fatalf("round trip lost data: %+v", got)
	}
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
