package repositories

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
)

const testAdminID int64 = 999

func TestAllowListRepositorySeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowed_users.txt")
	repo := NewAllowListRepository(path, testAdminID)

	// No persisted file: load yields exactly the super admin
	users, err := repo.Load()
	if err != nil {
		t.Fatalf("Failed to load fresh allow list: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("Expected 1 seeded user, got %d", len(users))
	}
	if _, ok := users[testAdminID]; !ok {
		t.Error("Expected seeded set to contain the super admin")
	}
}

func TestAllowListRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowed_users.txt")
	repo := NewAllowListRepository(path, testAdminID)

	users := map[int64]struct{}{testAdminID: {}, 111: {}, 222: {}}
	if err := repo.Save(users); err != nil {
		t.Fatalf("Failed to save allow list: %v", err)
	}

	// Idempotence: load, save unchanged, reload
	loaded, err := repo.Load()
	if err != nil {
		t.Fatalf("Failed to load allow list: %v", err)
	}
	if err := repo.Save(loaded); err != nil {
		t.Fatalf("Failed to re-save allow list: %v", err)
	}
	reloaded, err := repo.Load()
	if err != nil {
		t.Fatalf("Failed to reload allow list: %v", err)
	}

	if len(reloaded) != len(users) {
		t.Errorf("Expected %d users after round trip, got %d", len(users), len(reloaded))
	}
	for id := range users {
		if _, ok := reloaded[id]; !ok {
			t.Errorf("Expected user %d to survive round trip", id)
		}
	}

	// Persisted form: one integer per line
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read allow list file: %v", err)
	}
	if string(data) != "111\n222\n999\n" {
		t.Errorf("Unexpected persisted form: %q", string(data))
	}
}

func TestAllowListRepositoryMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowed_users.txt")
	if err := os.WriteFile(path, []byte("111\nbogus\n"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	repo := NewAllowListRepository(path, testAdminID)
	if _, err := repo.Load(); err == nil {
		t.Error("Expected error loading a malformed allow list")
	}
}

func TestLedgerRepositoryAppend(t *testing.T) {
	dir := t.TempDir()
	repo := NewLedgerRepository(dir)
	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

	if err := repo.Append(42, "first record", day); err != nil {
		t.Fatalf("Failed to append: %v", err)
	}
	if err := repo.Append(42, "second record", day); err != nil {
		t.Fatalf("Failed to append: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "42", "2025-03-09.txt"))
	if err != nil {
		t.Fatalf("Failed to read ledger file: %v", err)
	}
	if string(data) != "first record\nsecond record\n" {
		t.Errorf("Unexpected ledger content: %q", string(data))
	}
}

func TestLedgerRepositoryConcurrentAppends(t *testing.T) {
	dir := t.TempDir()
	repo := NewLedgerRepository(dir)
	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	record := strings.Repeat("X", 38)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Append(42, record, day); err != nil {
				t.Errorf("Concurrent append failed: %v", err)
			}
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(filepath.Join(dir, "42", "2025-03-09.txt"))
	if err != nil {
		t.Fatalf("Failed to read ledger file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != n {
		t.Fatalf("Expected %d complete lines, got %d", n, len(lines))
	}
	for i, line := range lines {
		if line != record {
			t.Errorf("Line %d is mangled: %q", i, line)
		}
	}
}

func TestLedgerRepositoryExportNotFound(t *testing.T) {
	repo := NewLedgerRepository(t.TempDir())

	_, err := repo.ExportAll(42)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData for unknown sender, got: %v", err)
	}
}

func TestLedgerRepositoryExportAll(t *testing.T) {
	dir := t.TempDir()
	repo := NewLedgerRepository(dir)

	want := map[string]string{
		"2025-03-08.txt": strings.Repeat("A", 38) + "\n",
		"2025-03-09.txt": strings.Repeat("B", 38) + "\n" + strings.Repeat("C", 38) + "\n",
	}
	for name, content := range want {
		day, _ := time.Parse("2006-01-02", strings.TrimSuffix(name, ".txt"))
		for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
			if err := repo.Append(42, line, day); err != nil {
				t.Fatalf("Failed to seed ledger: %v", err)
			}
		}
	}

	zipPath, err := repo.ExportAll(42)
	if err != nil {
		t.Fatalf("Failed to export: %v", err)
	}
	t.Cleanup(func() { os.Remove(zipPath) })

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("Failed to open exported archive: %v", err)
	}
	defer zr.Close()

	if len(zr.File) != len(want) {
		t.Fatalf("Expected %d archive entries, got %d", len(want), len(zr.File))
	}
	for _, f := range zr.File {
		wantContent, ok := want[f.Name]
		if !ok {
			t.Errorf("Unexpected archive entry %q", f.Name)
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open entry %q: %v", f.Name, err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Failed to read entry %q: %v", f.Name, err)
		}
		if string(got) != wantContent {
			t.Errorf("Entry %q content mismatch: got %q, want %q", f.Name, got, wantContent)
		}
	}

	// Export leaves the ledger files untouched
	if _, err := os.Stat(filepath.Join(dir, "42", "2025-03-09.txt")); err != nil {
		t.Errorf("Expected ledger file to survive export: %v", err)
	}
}

func TestActivityLogRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_activity.log")
	repo := NewActivityLogRepository(path)

	// Missing file is a distinct condition
	if _, err := repo.ReadAll(); !errors.Is(err, ErrLogNotFound) {
		t.Errorf("Expected ErrLogNotFound for missing log, got: %v", err)
	}

	if err := repo.Append("START | 42 | John Doe | @jdoe"); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}
	if err := repo.Append("QR | 42 | " + strings.Repeat("A", 38)); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}

	content, err := repo.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], " - START | 42 | John Doe | @jdoe") {
		t.Errorf("Unexpected first log line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "QR | 42 | ") {
		t.Errorf("Unexpected second log line: %q", lines[1])
	}
}
