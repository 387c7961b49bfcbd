// Package snapshotfs implements file-based JSON storage for ticker
// snapshots and rendered rank reports.
package snapshotfs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/arkrank/internal/common"
	"github.com/bobmcallan/arkrank/internal/interfaces"
	"github.com/bobmcallan/arkrank/internal/models"
)

// Store provides file-based JSON storage for snapshots and reports.
type Store struct {
	basePath     string
	snapshotsDir string
	reportsDir   string
	logger       *common.Logger
}

var (
	_ interfaces.SnapshotStore = (*Store)(nil)
	_ interfaces.ReportStore   = (*Store)(nil)
)

// NewStore creates a snapshot file store rooted at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot store path %s: %w", path, err)
	}
	snapshotsDir := filepath.Join(path, "snapshots")
	reportsDir := filepath.Join(path, "reports")
	os.MkdirAll(snapshotsDir, 0755)
	os.MkdirAll(reportsDir, 0755)

	logger.Info().Str("path", path).Msg("Snapshot store opened")
	return &Store{
		basePath:     path,
		snapshotsDir: snapshotsDir,
		reportsDir:   reportsDir,
		logger:       logger,
	}, nil
}

// SaveSnapshot writes one symbol's snapshot atomically, stamping UpdatedAt.
func (s *Store) SaveSnapshot(_ context.Context, stored *models.StoredSnapshot) error {
	symbol := common.NormalizeSymbol(stored.Snapshot.Symbol)
	if symbol == "" {
		return fmt.Errorf("snapshot has no symbol")
	}
	stored.UpdatedAt = time.Now().UTC()
	return writeJSON(s.snapshotsDir, symbol, stored)
}

// GetSnapshot reads one symbol's snapshot, or nil when absent.
func (s *Store) GetSnapshot(_ context.Context, symbol string) (*models.StoredSnapshot, error) {
	var stored models.StoredSnapshot
	err := readJSON(s.snapshotsDir, common.NormalizeSymbol(symbol), &stored)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return &stored, nil
}

// ListSymbols returns every cached symbol, sorted.
func (s *Store) ListSymbols(_ context.Context) ([]string, error) {
	keys, err := listKeys(s.snapshotsDir)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// DeleteSnapshot removes one symbol's snapshot.
func (s *Store) DeleteSnapshot(_ context.Context, symbol string) error {
	target := filePath(s.snapshotsDir, common.NormalizeSymbol(symbol))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// SaveReport writes a rendered rank report under the given key.
func (s *Store) SaveReport(_ context.Context, key string, report *models.RankReport) error {
	return writeJSON(s.reportsDir, key, report)
}

// GetReport reads a rank report, or nil when absent.
func (s *Store) GetReport(_ context.Context, key string) (*models.RankReport, error) {
	var report models.RankReport
	err := readJSON(s.reportsDir, key, &report)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// Close is a no-op for file-based storage.
func (s *Store) Close() error {
	return nil
}

// --- helpers ---

func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

func filePath(dir, key string) string {
	return filepath.Join(dir, sanitizeKey(key)+".json")
}

func readJSON(dir, key string, dest any) error {
	path := filePath(dir, key)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("'%s' is empty", key)
	}
	return json.Unmarshal(data, dest)
}

func writeJSON(dir, key string, data any) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	target := filePath(dir, key)
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func listKeys(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, ".tmp-") {
			keys = append(keys, strings.TrimSuffix(name, ".json"))
		}
	}
	return keys, nil
}
