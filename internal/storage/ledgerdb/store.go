// Package ledgerdb provides BadgerHold-based storage for the toy portfolio
// ledger: cash state, open positions, and trade history.
package ledgerdb

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/arkrank/internal/common"
	"github.com/bobmcallan/arkrank/internal/interfaces"
	"github.com/bobmcallan/arkrank/internal/models"
)

const stateKey = "ledger"

// Store wraps a BadgerHold database holding the ledger.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

var _ interfaces.LedgerStore = (*Store)(nil)

// NewStore opens a BadgerHold ledger at the given directory path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("Ledger store opened")
	return &Store{db: db, logger: logger}, nil
}

// GetState reads the singleton cash record, or nil when uninitialized.
func (s *Store) GetState(_ context.Context) (*models.LedgerState, error) {
	var state models.LedgerState
	err := s.db.Get(stateKey, &state)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ledger state: %w", err)
	}
	return &state, nil
}

// SaveState upserts the singleton cash record.
func (s *Store) SaveState(_ context.Context, state *models.LedgerState) error {
	state.ID = stateKey
	state.UpdatedAt = time.Now()
	if err := s.db.Upsert(stateKey, state); err != nil {
		return fmt.Errorf("failed to save ledger state: %w", err)
	}
	return nil
}

// GetPosition reads the open position for a symbol, or nil when absent.
func (s *Store) GetPosition(_ context.Context, symbol string) (*models.Position, error) {
	symbol = common.NormalizeSymbol(symbol)
	var positions []models.Position
	if err := s.db.Find(&positions, badgerhold.Where("Symbol").Eq(symbol)); err != nil {
		return nil, fmt.Errorf("failed to find position for '%s': %w", symbol, err)
	}
	if len(positions) == 0 {
		return nil, nil
	}
	return &positions[0], nil
}

// ListPositions returns every open position, sorted by symbol.
func (s *Store) ListPositions(_ context.Context) ([]models.Position, error) {
	var positions []models.Position
	if err := s.db.Find(&positions, nil); err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Symbol < positions[j].Symbol
	})
	return positions, nil
}

// SavePosition upserts a position keyed by its ID.
func (s *Store) SavePosition(_ context.Context, position *models.Position) error {
	position.Symbol = common.NormalizeSymbol(position.Symbol)
	if err := s.db.Upsert(position.ID, position); err != nil {
		return fmt.Errorf("failed to save position: %w", err)
	}
	s.logger.Debug().Str("symbol", position.Symbol).Float64("shares", position.Shares).Msg("Position saved")
	return nil
}

// DeletePosition removes the open position for a symbol.
func (s *Store) DeletePosition(ctx context.Context, symbol string) error {
	position, err := s.GetPosition(ctx, symbol)
	if err != nil {
		return err
	}
	if position == nil {
		return nil
	}
	if err := s.db.Delete(position.ID, models.Position{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete position for '%s': %w", symbol, err)
	}
	return nil
}

// RecordTrade appends a trade to the history.
func (s *Store) RecordTrade(_ context.Context, trade *models.TradeRecord) error {
	trade.Symbol = common.NormalizeSymbol(trade.Symbol)
	if trade.ExecutedAt.IsZero() {
		trade.ExecutedAt = time.Now()
	}
	if err := s.db.Insert(trade.ID, trade); err != nil {
		return fmt.Errorf("failed to record trade: %w", err)
	}
	return nil
}

// ListTrades returns trade history, optionally filtered by symbol, oldest
// first.
func (s *Store) ListTrades(_ context.Context, symbol string) ([]models.TradeRecord, error) {
	var trades []models.TradeRecord
	var query *badgerhold.Query
	if symbol != "" {
		query = badgerhold.Where("Symbol").Eq(common.NormalizeSymbol(symbol))
	}
	if err := s.db.Find(&trades, query); err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].ExecutedAt.Before(trades[j].ExecutedAt)
	})
	return trades, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
