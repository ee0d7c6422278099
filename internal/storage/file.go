package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"iptv-desk/internal/core"
)

// File persists each collection as one JSON file under a data directory —
// the four top-level keys of the original local-storage layout. Writes go
// through a temp file and rename so a crash mid-write never truncates a
// collection.
type File struct {
	dir string
}

// NewFile creates the data directory if needed and returns the backend.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

const (
	clientsFile  = "clients.json"
	serversFile  = "servers.json"
	cashFlowFile = "cashflow.json"
	notesFile    = "notes.json"
)

func (f *File) Load(ctx context.Context) (*core.Snapshot, error) {
	snap := &core.Snapshot{
		Clients:  []core.Client{},
		Servers:  []core.Server{},
		CashFlow: []core.CashFlowEntry{},
		Notes:    []core.Note{},
	}
	if err := f.read(clientsFile, &snap.Clients); err != nil {
		return nil, err
	}
	if err := f.read(serversFile, &snap.Servers); err != nil {
		return nil, err
	}
	if err := f.read(cashFlowFile, &snap.CashFlow); err != nil {
		return nil, err
	}
	if err := f.read(notesFile, &snap.Notes); err != nil {
		return nil, err
	}
	return snap, nil
}

func (f *File) SaveClients(ctx context.Context, clients []core.Client) error {
	return f.write(clientsFile, clients)
}

func (f *File) SaveServers(ctx context.Context, servers []core.Server) error {
	return f.write(serversFile, servers)
}

func (f *File) SaveCashFlow(ctx context.Context, entries []core.CashFlowEntry) error {
	return f.write(cashFlowFile, entries)
}

func (f *File) SaveNotes(ctx context.Context, notes []core.Note) error {
	return f.write(notesFile, notes)
}

// read unmarshals one collection file. A missing file means the collection
// has never been persisted and is left empty.
func (f *File) read(name string, v any) error {
	raw, err := os.ReadFile(filepath.Join(f.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (f *File) write(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	path := filepath.Join(f.dir, name)
	tmp, err := os.CreateTemp(f.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
