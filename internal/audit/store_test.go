package audit

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"nlrun/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"), testLogger())
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLogAudit_AndRecent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	entries := []domain.AuditEntry{
		{RunID: "run-1", Action: "generated", Tool: "", Command: "wc -l *.go", Result: "", Details: ""},
		{RunID: "run-1", Action: "allowed", Tool: "wc", Command: "wc -l *.go", Result: "allowed", Details: ""},
		{RunID: "run-1", Action: "confirm_yes", Tool: "wc", Command: "wc -l *.go", Result: "confirmed", Details: "user confirmed"},
	}
	for _, e := range entries {
		if err := s.LogAudit(ctx, e); err != nil {
			t.Fatalf("LogAudit: %v", err)
		}
	}

	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	// Newest first.
	if got[0].Action != "confirm_yes" {
		t.Errorf("newest entry: got %q", got[0].Action)
	}
	if got[2].Action != "generated" {
		t.Errorf("oldest entry: got %q", got[2].Action)
	}
}

func TestRecent_LimitApplies(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.LogAudit(ctx, domain.AuditEntry{RunID: "r", Action: "allowed"}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 entries, got %d", len(got))
	}
}

func TestRecent_EmptyStore(t *testing.T) {
	s := testStore(t)
	got, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no entries, got %d", len(got))
	}
}
