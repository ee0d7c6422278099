package core

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestExportImportRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	panel := mustAddServer(t, store, Server{Name: "Star"})
	mustBuyCredits(t, store, panel.ID, 10, 8)
	mustAddClient(t, store, Client{
		Name:  "Ana",
		Plans: []SelectedPlan{{PanelID: panel.ID, PlanName: "Full HD", Screens: 1, Value: decimal.NewFromInt(30)}},
	})
	if _, err := store.AddNote(ctx, Note{Text: "remember"}); err != nil {
		t.Fatalf("AddNote: %v", err)
	}

	exported := store.Export()
	raw, err := json.Marshal(exported)
	if err != nil {
		t.Fatalf("marshal export: %v", err)
	}

	other, _ := newTestStore(t)
	if err := other.Import(ctx, raw); err != nil {
		t.Fatalf("Import: %v", err)
	}

	reExported := other.Export()
	if !reflect.DeepEqual(mustJSON(t, exported), mustJSON(t, reExported)) {
		t.Error("re-exported snapshot differs from the original")
	}
}

func TestImportRejectsMalformedSnapshots(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{nope"},
		{"not an object", `[1,2,3]`},
		{"missing key", `{"clients":[],"servers":[],"cashFlow":[]}`},
		{"key not an array", `{"clients":{},"servers":[],"cashFlow":[],"notes":[]}`},
		{"record shape mismatch", `{"clients":[{"plans":"oops"}],"servers":[],"cashFlow":[],"notes":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			mustAddClient(t, store, Client{Name: "Survivor"})

			err := store.Import(context.Background(), []byte(tt.raw))
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Fatalf("err = %v, want ErrInvalidSnapshot", err)
			}
			// The failed import left the collections untouched.
			if got := len(store.Clients()); got != 1 {
				t.Errorf("clients after failed import = %d, want 1", got)
			}
		})
	}
}

func TestImportAcceptsEmptyCollections(t *testing.T) {
	store, _ := newTestStore(t)
	mustAddClient(t, store, Client{Name: "Goner"})

	raw := `{"clients":[],"servers":[],"cashFlow":[],"notes":[]}`
	if err := store.Import(context.Background(), []byte(raw)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := len(store.Clients()); got != 0 {
		t.Errorf("clients after wipe import = %d, want 0", got)
	}
}

func TestSnapshotSchema(t *testing.T) {
	raw, err := SnapshotSchema()
	if err != nil {
		t.Fatalf("SnapshotSchema: %v", err)
	}

	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatal("schema has no properties object")
	}
	for _, key := range []string{"clients", "servers", "cashFlow", "notes"} {
		if _, ok := props[key]; !ok {
			t.Errorf("schema missing property %q", key)
		}
	}
	if !strings.Contains(string(raw), "additionalProperties") {
		t.Error("schema does not constrain additional properties")
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(raw)
}
