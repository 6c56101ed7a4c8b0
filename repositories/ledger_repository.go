package repositories

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/bekzodm/qrkod-bot/models"
)

// ErrNoData is returned by ExportAll when the sender has no ledger
// directory at all.
var ErrNoData = errors.New("no ledger data for sender")

// LedgerRepository interface defines the per-sender append-only
// submission ledger. Layout: one directory per sender identity, one
// "YYYY-MM-DD.txt" file per UTC calendar day, one record per line.
type LedgerRepository interface {
	// Append records one validated submission under (sender, day).
	// Appends within the same (sender, day) are serialized; appends for
	// distinct senders proceed concurrently.
	Append(senderID int64, text string, day time.Time) error

	// ExportAll bundles every ledger file of the sender into a zip at a
	// transient path and returns that path. Entry names are the files'
	// base names, flat. The caller transmits the bundle and deletes it;
	// the ledger files themselves are never touched.
	ExportAll(senderID int64) (string, error)
}

// ledgerRepository implements LedgerRepository interface
type ledgerRepository struct {
	baseDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex // keyed by "<sender>/<date>"
}

// NewLedgerRepository creates a new ledger repository rooted at baseDir.
func NewLedgerRepository(baseDir string) LedgerRepository {
	return &ledgerRepository{
		baseDir: baseDir,
		locks:   make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing appends for one (sender, day) key.
func (r *ledgerRepository) lockFor(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[key]
	if !ok {
		l = &sync.Mutex{}
		r.locks[key] = l
	}
	return l
}

// senderDir returns the directory holding one sender's ledger files.
func (r *ledgerRepository) senderDir(senderID int64) string {
	return filepath.Join(r.baseDir, strconv.FormatInt(senderID, 10))
}

// Append writes one record line to the sender's file for the given day
func (r *ledgerRepository) Append(senderID int64, text string, day time.Time) error {
	date := models.FormatDate(day)
	lock := r.lockFor(fmt.Sprintf("%d/%s", senderID, date))
	lock.Lock()
	defer lock.Unlock()

	dir := r.senderDir(senderID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, date+".txt"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(text + "\n"); err != nil {
		return fmt.Errorf("failed to append ledger record: %w", err)
	}
	return nil
}

// ExportAll zips the sender's ledger files into a transient bundle
func (r *ledgerRepository) ExportAll(senderID int64) (string, error) {
	dir := r.senderDir(senderID)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return "", ErrNoData
	}
	if err != nil {
		return "", fmt.Errorf("failed to read ledger directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	zipPath := filepath.Join(os.TempDir(), strconv.FormatInt(senderID, 10)+".zip")
	out, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	zw := zip.NewWriter(out)
	for _, name := range names {
		if err := addZipEntry(zw, filepath.Join(dir, name), name); err != nil {
			zw.Close()
			out.Close()
			os.Remove(zipPath)
			return "", err
		}
	}

	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(zipPath)
		return "", fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(zipPath)
		return "", fmt.Errorf("failed to close archive: %w", err)
	}
	return zipPath, nil
}

// addZipEntry copies one ledger file into the archive under its base name
func addZipEntry(zw *zip.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open ledger file %s: %w", name, err)
	}
	defer src.Close()

	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add archive entry %s: %w", name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("failed to copy ledger file %s: %w", name, err)
	}
	return nil
}
