package store

import (
	"context"
	"database/sql"
	"encoding/json"
	errs "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DaanHessen/sovereign-tui/internal/engine"
	"github.com/DaanHessen/sovereign-tui/internal/util"
)

var (
	ErrNoChange = errs.New("no change")
	ErrNotFound = errs.New("save not found")
)

// DB wraps gorm.DB for repositories and exposes Close.
type DB struct {
	gorm *gorm.DB
	sql  *sql.DB
}

func (d *DB) Close() error { return d.sql.Close() }

// Open connects to DB per config.
func Open(ctx context.Context, cfg util.Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("missing DSN")
	}
	// Postgres-only. The terminal belongs to the shell, so gorm stays quiet.
	gdb, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, wrap(err, "open postgres")
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, wrap(err, "unwrap sql.DB")
	}
	sdb.SetConnMaxLifetime(30 * time.Minute)
	sdb.SetMaxOpenConns(10)
	sdb.SetMaxIdleConns(5)
	if err := sdb.PingContext(ctx); err != nil {
		return nil, wrap(err, "ping postgres")
	}
	return &DB{gorm: gdb, sql: sdb}, nil
}

// WithTx executes fn within a database transaction.
func (d *DB) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.gorm.WithContext(ctx).Transaction(fn)
}

// MaxSaves is how many save slots are kept; Create prunes the oldest beyond it.
const MaxSaves = 50

// Save is one stored campaign snapshot.
type Save struct {
	ID        uuid.UUID
	Name      string
	GameDate  string
	PlayerTag string
	State     engine.NationState
	Ledger    engine.AELedger
	Factions  []engine.Faction
	CreatedAt time.Time
}

// SaveRepo persists save slots.
type SaveRepo struct{ db *DB }

func NewSaveRepo(db *DB) *SaveRepo { return &SaveRepo{db: db} }

const saveColumns = `id, name, game_date, player_tag, state, ae_ledger, factions, created_at`

// Create stores the campaign under name and returns the new save id.
func (r *SaveRepo) Create(ctx context.Context, name string, state engine.NationState, ledger engine.AELedger, factions []engine.Faction) (uuid.UUID, error) {
	id := uuid.New()
	stateB, err := json.Marshal(state)
	if err != nil {
		return uuid.Nil, wrap(err, "encode state")
	}
	if ledger == nil {
		ledger = engine.AELedger{}
	}
	ledgerB, err := json.Marshal(ledger)
	if err != nil {
		return uuid.Nil, wrap(err, "encode ledger")
	}
	if factions == nil {
		factions = []engine.Faction{}
	}
	factionsB, err := json.Marshal(factions)
	if err != nil {
		return uuid.Nil, wrap(err, "encode factions")
	}
	err = r.db.WithTx(ctx, func(tx *gorm.DB) error {
		err := tx.Exec(`INSERT INTO saves(id, name, game_date, player_tag, state, ae_ledger, factions) VALUES (?,?,?,?,?,?,?)`,
			id, name, state.Date, state.PlayerNation, stateB, ledgerB, factionsB).Error
		if err != nil {
			return wrap(err, "insert save")
		}
		err = tx.Exec(`DELETE FROM saves WHERE id IN (SELECT id FROM saves ORDER BY created_at DESC OFFSET ?)`, MaxSaves).Error
		return wrap(err, "prune saves")
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Get loads one save by id.
func (r *SaveRepo) Get(ctx context.Context, id uuid.UUID) (Save, error) {
	row := r.db.gorm.WithContext(ctx).Raw(`SELECT `+saveColumns+` FROM saves WHERE id = ?`, id).Row()
	return scanSave(row)
}

// Latest loads the most recent save.
func (r *SaveRepo) Latest(ctx context.Context) (Save, error) {
	row := r.db.gorm.WithContext(ctx).Raw(`SELECT ` + saveColumns + ` FROM saves ORDER BY created_at DESC LIMIT 1`).Row()
	return scanSave(row)
}

// SaveSummary is a listing row without the state payload.
type SaveSummary struct {
	ID        uuid.UUID
	Name      string
	GameDate  string
	PlayerTag string
	CreatedAt time.Time
}

// List returns up to limit saves, newest first.
func (r *SaveRepo) List(ctx context.Context, limit int) ([]SaveSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.gorm.WithContext(ctx).Raw(`SELECT id, name, game_date, player_tag, created_at FROM saves ORDER BY created_at DESC LIMIT ?`, limit).Rows()
	if err != nil {
		return nil, wrap(err, "list saves")
	}
	defer rows.Close()
	var out []SaveSummary
	for rows.Next() {
		var s SaveSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.GameDate, &s.PlayerTag, &s.CreatedAt); err != nil {
			return nil, wrap(err, "scan save")
		}
		out = append(out, s)
	}
	return out, wrap(rows.Err(), "iterate saves")
}

// Delete removes a save. Deleting a missing save returns ErrNotFound.
func (r *SaveRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.gorm.WithContext(ctx).Exec(`DELETE FROM saves WHERE id = ?`, id)
	if res.Error != nil {
		return wrap(res.Error, "delete save")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSave(row *sql.Row) (Save, error) {
	var (
		s                         Save
		stateB, ledgerB, factionB []byte
	)
	if err := row.Scan(&s.ID, &s.Name, &s.GameDate, &s.PlayerTag, &stateB, &ledgerB, &factionB, &s.CreatedAt); err != nil {
		if errs.Is(err, sql.ErrNoRows) {
			return Save{}, ErrNotFound
		}
		return Save{}, wrap(err, "scan save")
	}
	var err error
	s.State, s.Ledger, s.Factions, err = decodeSave(stateB, ledgerB, factionB)
	if err != nil {
		return Save{}, errors.Wrapf(err, "save %s", s.ID)
	}
	return s, nil
}

// decodeSave turns the stored JSON columns back into a campaign. A state document that
// fails the schema is an error rather than a silent fresh start.
func decodeSave(stateB, ledgerB, factionB []byte) (engine.NationState, engine.AELedger, []engine.Faction, error) {
	if err := ValidateState(stateB); err != nil {
		return engine.NationState{}, nil, nil, err
	}
	// Decode through the reducer so stored documents get the same clamps as any other load.
	state := engine.Reduce(engine.DefaultNationState(), engine.LoadGame{Data: stateB})
	ledger := engine.AELedger{}
	if len(ledgerB) > 0 {
		if err := json.Unmarshal(ledgerB, &ledger); err != nil {
			return engine.NationState{}, nil, nil, wrap(err, "decode ledger")
		}
	}
	var factions []engine.Faction
	if len(factionB) > 0 {
		if err := json.Unmarshal(factionB, &factions); err != nil {
			return engine.NationState{}, nil, nil, wrap(err, "decode factions")
		}
	}
	return state, ledger, factions, nil
}

// Helper error wrap
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
