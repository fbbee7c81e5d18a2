package store

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/DaanHessen/sovereign-tui/internal/engine"
)

// ExportVersion is written into every export header.
const ExportVersion = 1

//go:embed schemas/nation_state.schema.json
var nationStateSchema []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// ExportHeader is the first line of an export file.
type ExportHeader struct {
	Version  int                `json:"version"`
	Name     string             `json:"name"`
	Date     string             `json:"date"`
	Player   string             `json:"player"`
	Ledger   map[string]float64 `json:"ae_ledger,omitempty"`
	Factions []engine.Faction   `json:"factions,omitempty"`
}

func stateSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("nation_state.schema.json", bytes.NewReader(nationStateSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = c.Compile("nation_state.schema.json")
	})
	return compiledSchema, schemaErr
}

// ValidateState checks a state document against the bundled schema.
func ValidateState(doc []byte) error {
	schema, err := stateSchema()
	if err != nil {
		return errors.Wrap(err, "compile schema")
	}
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return errors.Wrap(err, "decode state")
	}
	if err := schema.Validate(v); err != nil {
		return errors.Wrap(err, "invalid state")
	}
	return nil
}

// WriteExport writes a zstd stream: a JSON header line followed by the state document.
func WriteExport(w io.Writer, name string, state engine.NationState, ledger engine.AELedger, factions []engine.Faction) error {
	hb, err := json.Marshal(ExportHeader{
		Version:  ExportVersion,
		Name:     name,
		Date:     state.Date,
		Player:   state.PlayerNation,
		Ledger:   ledger,
		Factions: factions,
	})
	if err != nil {
		return errors.Wrap(err, "encode header")
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return errors.Wrap(err, "zstd writer")
	}
	bw := bufio.NewWriter(enc)

	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return errors.Wrap(err, "write header")
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return errors.Wrap(err, "write header")
	}
	if err := json.NewEncoder(bw).Encode(state); err != nil {
		enc.Close()
		return errors.Wrap(err, "encode state")
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return errors.Wrap(err, "flush export")
	}
	return errors.Wrap(enc.Close(), "close zstd")
}

// ReadExport decodes an export stream, validating the state document before returning it raw
// so callers can feed it to LoadGame.
func ReadExport(r io.Reader) (ExportHeader, json.RawMessage, error) {
	var hdr ExportHeader
	dec, err := zstd.NewReader(r)
	if err != nil {
		return hdr, nil, errors.Wrap(err, "zstd reader")
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return hdr, nil, errors.Wrap(err, "read header")
	}
	if err := json.Unmarshal(line, &hdr); err != nil {
		return hdr, nil, errors.Wrap(err, "decode header")
	}
	if hdr.Version != ExportVersion {
		return hdr, nil, errors.Errorf("unsupported export version %d", hdr.Version)
	}
	body, err := io.ReadAll(br)
	if err != nil {
		return hdr, nil, errors.Wrap(err, "read state")
	}
	body = bytes.TrimSpace(body)
	if err := ValidateState(body); err != nil {
		return hdr, nil, err
	}
	return hdr, json.RawMessage(body), nil
}

// ExportFile writes an export to path, creating parent directories.
func ExportFile(path, name string, state engine.NationState, ledger engine.AELedger, factions []engine.Faction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create export dir")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrap(err, "open export")
	}
	if err := WriteExport(f, name, state, ledger, factions); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close export")
}

// ImportFile reads an export from path.
func ImportFile(path string) (ExportHeader, json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return ExportHeader{}, nil, errors.Wrap(err, "open export")
	}
	defer f.Close()
	return ReadExport(f)
}
