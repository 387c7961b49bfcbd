package interfaces

import (
	"context"

	"github.com/bobmcallan/arkrank/internal/models"
)

// SnapshotStore persists per-ticker market snapshots.
type SnapshotStore interface {
	// SaveSnapshot writes a snapshot, stamping UpdatedAt.
	SaveSnapshot(ctx context.Context, stored *models.StoredSnapshot) error

	// GetSnapshot reads one symbol's snapshot, or nil when absent.
	GetSnapshot(ctx context.Context, symbol string) (*models.StoredSnapshot, error)

	// ListSymbols returns every cached symbol, sorted.
	ListSymbols(ctx context.Context) ([]string, error)

	// DeleteSnapshot removes one symbol's snapshot.
	DeleteSnapshot(ctx context.Context, symbol string) error
}

// ReportStore persists rendered rank reports.
type ReportStore interface {
	SaveReport(ctx context.Context, key string, report *models.RankReport) error
	GetReport(ctx context.Context, key string) (*models.RankReport, error)
}

// LedgerStore persists the toy portfolio.
type LedgerStore interface {
	GetState(ctx context.Context) (*models.LedgerState, error)
	SaveState(ctx context.Context, state *models.LedgerState) error

	GetPosition(ctx context.Context, symbol string) (*models.Position, error)
	ListPositions(ctx context.Context) ([]models.Position, error)
	SavePosition(ctx context.Context, position *models.Position) error
	DeletePosition(ctx context.Context, symbol string) error

	RecordTrade(ctx context.Context, trade *models.TradeRecord) error
	ListTrades(ctx context.Context, symbol string) ([]models.TradeRecord, error)

	Close() error
}
