package webhook

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDeadLetterStore_AppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletters.jsonl")
	store := NewDeadLetterStore(path)

	dl := DeadLetter{
		Timestamp:   time.Now(),
		WebhookName: "test",
		URL:         "https://example.com/hook",
		EventType:   EventReloaded,
		Payload:     `{"event_type":"board.reloaded"}`,
		Error:       "connection refused",
		Attempts:    3,
	}

	if err := store.Append(dl); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(dl); err != nil {
		t.Fatal(err)
	}

	entries, err := store.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].WebhookName != "test" {
		t.Errorf("expected webhook name test, got %s", entries[0].WebhookName)
	}
}

func TestDeadLetterStore_ReadAll_MissingFile(t *testing.T) {
	store := NewDeadLetterStore(filepath.Join(t.TempDir(), "nonexistent.jsonl"))

	entries, err := store.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if entries != nil {
		t.Errorf("expected nil entries for missing file, got %v", entries)
	}
}

func TestDeadLetterStore_ReadAll_StopsAtGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletters.jsonl")
	content := `{"webhook_name":"a"}` + "\nnot json\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	entries, err := NewDeadLetterStore(path).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].WebhookName != "a" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}
