// Package interfaces defines service contracts for Arkrank
package interfaces

import (
	"context"

	"github.com/bobmcallan/arkrank/internal/models"
)

// RankOptions configures a ranking pass.
type RankOptions struct {
	Symbols    []string // restrict the pass to these tickers; empty means all cached
	AssetClass string   // "stocks" or "etf"; ETFs get the strict uptrend gate
	UseModel   bool     // attempt the generative model before falling back
}

// RecommendService runs the ranking engine over cached snapshots.
type RecommendService interface {
	// Ingest normalizes raw payloads and stores them as snapshots,
	// backfilling missing technicals from bar history. Returns the number
	// stored.
	Ingest(ctx context.Context, payloads []models.RawPayload, bars map[string][]models.DailyBar) (int, error)

	// Rank produces the full weighted ranking and the filtered top picks.
	Rank(ctx context.Context, options RankOptions) (*models.RankReport, error)

	// Recommend produces the point-scheme allocation table, rendered as
	// markdown, with the model substituted by the deterministic renderer
	// when unavailable or implausible.
	Recommend(ctx context.Context, options RankOptions) (*models.RankReport, error)

	// SwingPlan produces trade-plan text for a single ticker.
	SwingPlan(ctx context.Context, symbol string, useModel bool) (string, error)
}

// PortfolioService manages the toy ledger.
type PortfolioService interface {
	// Report summarizes cash and open positions.
	Report(ctx context.Context) (*models.PortfolioReport, error)

	// Buy opens or extends a position. Size is a named fraction of equity:
	// "1", "1/2", "1/4", or "auto".
	Buy(ctx context.Context, symbol string, price float64, size string) (*models.Position, error)

	// Sell closes a position at the given price.
	Sell(ctx context.Context, symbol string, price float64) (*models.TradeRecord, error)

	// Rebalance retargets open positions to the engine's allocation for
	// the given scored set.
	Rebalance(ctx context.Context, results []models.ScoreResult) (*models.PortfolioReport, error)
}
