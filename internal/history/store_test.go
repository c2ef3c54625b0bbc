package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arnavsh/safety-copilot/internal/types"
)

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "history.json")
}

func TestStore_AppendAndReload(t *testing.T) {
	path := testPath(t)

	store, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	msg := types.ConversationMessage{
		ID:        "msg-1",
		Question:  "how many incidents last month?",
		Dataset:   types.DatasetIncident,
		Analysis:  "There were 12 incidents.",
		Timestamp: 1700000000000,
		ToolCalls: []types.ToolCall{{
			Tool:   "query_db",
			Result: &types.ToolResult{Kind: types.KindOpaque, Raw: "12"},
		}},
	}
	if err := store.Append(msg); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	reloaded, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if reloaded.Len() != 1 {
		t.Fatalf("expected 1 message after reload, got %d", reloaded.Len())
	}

	got, ok := reloaded.Get("msg-1")
	if !ok {
		t.Fatal("message not found after reload")
	}
	if got.Question != msg.Question || got.Analysis != msg.Analysis || got.Dataset != msg.Dataset {
		t.Errorf("reloaded message differs: %+v", got)
	}
	if len(got.ToolCalls) != 1 || got.ToolCalls[0].Result.Kind != types.KindOpaque {
		t.Errorf("tool calls lost on reload: %+v", got.ToolCalls)
	}
	if !reloaded.Committed("msg-1") {
		t.Error("committed set not rebuilt on reload")
	}
}

func TestStore_AppendIdempotent(t *testing.T) {
	store, err := Open(testPath(t), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	msg := types.ConversationMessage{ID: "dup", Question: "q", Analysis: "first"}
	if err := store.Append(msg); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	msg.Analysis = "second"
	if err := store.Append(msg); err != nil {
		t.Fatalf("second Append failed: %v", err)
	}

	if store.Len() != 1 {
		t.Fatalf("duplicate id appended twice, len = %d", store.Len())
	}
	got, _ := store.Get("dup")
	if got.Analysis != "first" {
		t.Errorf("duplicate append overwrote the record: %q", got.Analysis)
	}
}

func TestStore_Clear(t *testing.T) {
	path := testPath(t)
	store, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	store.Append(types.ConversationMessage{ID: "a", Question: "q"})
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}
	if store.Committed("a") {
		t.Error("clear must also reset the committed set")
	}

	// A cleared id is appendable again.
	if err := store.Append(types.ConversationMessage{ID: "a", Question: "again"}); err != nil {
		t.Fatalf("re-append failed: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("re-append after clear failed, len = %d", store.Len())
	}

	reloaded, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if reloaded.Len() != 1 {
		t.Errorf("clear + append not persisted, got %d", reloaded.Len())
	}
}

func TestStore_MissingFile(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "nope", "history.json"), nil)
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}
}

func TestStore_CorruptFile(t *testing.T) {
	path := testPath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path, nil); err == nil {
		t.Fatal("expected error for corrupt history file")
	}
}

func TestStore_HealsLegacyRecords(t *testing.T) {
	path := testPath(t)
	legacy := `[
  {"id": "", "question": "old question", "dataset": "all", "analysis": "old answer", "timestamp": 1},
  {"id": "kept", "question": "newer", "dataset": "all", "analysis": "a", "timestamp": 2}
]`
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	msgs := store.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].ID == "" {
		t.Error("legacy record should have been assigned an id")
	}
	if msgs[1].ID != "kept" {
		t.Errorf("existing id was rewritten: %q", msgs[1].ID)
	}

	// The healed ids survive a reload.
	reloaded, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if reloaded.Messages()[0].ID != msgs[0].ID {
		t.Error("healed id not persisted")
	}
}

func TestStore_MessagesCopy(t *testing.T) {
	store, err := Open(testPath(t), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	store.Append(types.ConversationMessage{ID: "x", Question: "q"})

	msgs := store.Messages()
	msgs[0].Question = "mutated"

	if got, _ := store.Get("x"); got.Question != "q" {
		t.Error("Messages() must return a copy")
	}
}
