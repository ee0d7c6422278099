package core

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Snapshot is the full-collection export format and the shape backends load.
// The four keys mirror the original persisted-state layout.
type Snapshot struct {
	Clients  []Client        `json:"clients" jsonschema_description:"All client records keyed by their stable temp_id"`
	Servers  []Server        `json:"servers" jsonschema_description:"All panel records including their transaction logs"`
	CashFlow []CashFlowEntry `json:"cashFlow" jsonschema_description:"The append-only income/expense ledger"`
	Notes    []Note          `json:"notes" jsonschema_description:"Free-form notes"`
}

// Export returns a deep snapshot of the four collections.
func (s *Store) Export() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Clients:  append([]Client{}, s.clients...),
		Servers:  append([]Server{}, s.servers...),
		CashFlow: append([]CashFlowEntry{}, s.cashFlow...),
		Notes:    append([]Note{}, s.notes...),
	}
}

// ParseSnapshot validates the top-level shape of an import file — all four
// keys present and array-typed — before decoding. Anything else fails with
// ErrInvalidSnapshot and must leave the caller's collections untouched.
func ParseSnapshot(raw []byte) (*Snapshot, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %v", ErrInvalidSnapshot, err)
	}
	for _, key := range []string{"clients", "servers", "cashFlow", "notes"} {
		v, ok := top[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing key %q", ErrInvalidSnapshot, key)
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(v, &arr); err != nil {
			return nil, fmt.Errorf("%w: key %q is not an array", ErrInvalidSnapshot, key)
		}
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if snap.Clients == nil {
		snap.Clients = []Client{}
	}
	if snap.Servers == nil {
		snap.Servers = []Server{}
	}
	if snap.CashFlow == nil {
		snap.CashFlow = []CashFlowEntry{}
	}
	if snap.Notes == nil {
		snap.Notes = []Note{}
	}
	return &snap, nil
}

// Import wholesale-replaces all four collections and their backing storage
// with the snapshot's contents. Shape validation runs first; on failure the
// existing collections stay untouched.
func (s *Store) Import(ctx context.Context, raw []byte) error {
	snap, err := ParseSnapshot(raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients = snap.Clients
	s.servers = snap.Servers
	s.cashFlow = snap.CashFlow
	s.notes = snap.Notes

	s.persistClients(ctx)
	s.persistServers(ctx)
	s.persistCashFlow(ctx)
	s.persistNotes(ctx)
	return nil
}

// SnapshotSchema returns the JSON Schema of the export format, for import
// tooling and the schema endpoint.
func SnapshotSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(Snapshot{})
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot schema: %w", err)
	}
	return out, nil
}
