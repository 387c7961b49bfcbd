// Package recommend orchestrates the ranking engine over cached snapshots
// and renders the results, substituting the deterministic renderer for the
// generative model whenever the model is disabled, fails, or returns
// implausible output.
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/arkrank/internal/clients/gemini"
	"github.com/bobmcallan/arkrank/internal/common"
	"github.com/bobmcallan/arkrank/internal/indicators"
	"github.com/bobmcallan/arkrank/internal/interfaces"
	"github.com/bobmcallan/arkrank/internal/models"
	"github.com/bobmcallan/arkrank/internal/rank"
)

const latestReportKey = "latest"

// Service implements interfaces.RecommendService.
type Service struct {
	snapshots interfaces.SnapshotStore
	reports   interfaces.ReportStore
	model     interfaces.ModelClient
	config    rank.Config
	benchmark string
	logger    *common.Logger
}

var _ interfaces.RecommendService = (*Service)(nil)

// NewService creates a recommend service. The model client may be nil,
// which forces deterministic output.
func NewService(snapshots interfaces.SnapshotStore, reports interfaces.ReportStore, model interfaces.ModelClient, config rank.Config, benchmark string, logger *common.Logger) *Service {
	return &Service{
		snapshots: snapshots,
		reports:   reports,
		model:     model,
		config:    config,
		benchmark: common.NormalizeSymbol(benchmark),
		logger:    logger,
	}
}

// Ingest normalizes raw payloads into snapshots and stores them, deriving
// missing technicals from bar history when available.
func (s *Service) Ingest(ctx context.Context, payloads []models.RawPayload, bars map[string][]models.DailyBar) (int, error) {
	stored := 0
	for _, payload := range payloads {
		snap := rank.Normalize(payload)
		if snap.Symbol == "" {
			continue
		}
		history := bars[snap.Symbol]
		indicators.Enrich(&snap, history)

		if err := s.snapshots.SaveSnapshot(ctx, &models.StoredSnapshot{Snapshot: snap, Bars: history}); err != nil {
			return stored, fmt.Errorf("failed to store snapshot for %s: %w", snap.Symbol, err)
		}
		stored++
	}
	s.logger.Info().Int("count", stored).Msg("Snapshots ingested")
	return stored, nil
}

// loadSnapshots reads the requested symbols (or all cached ones) and
// backfills technicals from their stored bars. Missing symbols are skipped,
// not errors.
func (s *Service) loadSnapshots(ctx context.Context, symbols []string) ([]models.TickerSnapshot, error) {
	if len(symbols) == 0 {
		cached, err := s.snapshots.ListSymbols(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", err)
		}
		symbols = cached
	}

	snaps := make([]models.TickerSnapshot, 0, len(symbols))
	for _, sym := range symbols {
		stored, err := s.snapshots.GetSnapshot(ctx, sym)
		if err != nil {
			return nil, err
		}
		if stored == nil {
			s.logger.Debug().Str("symbol", sym).Msg("No snapshot cached")
			continue
		}
		if !common.IsFresh(stored.UpdatedAt, common.FreshnessSnapshot) {
			s.logger.Warn().
				Str("symbol", sym).
				Time("updated_at", stored.UpdatedAt).
				Msg("Snapshot is stale, scoring it anyway")
		}
		snap := stored.Snapshot
		indicators.Enrich(&snap, stored.Bars)
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// loadBenchmark fetches the benchmark snapshot, or nil when uncached.
func (s *Service) loadBenchmark(ctx context.Context) *models.TickerSnapshot {
	if s.benchmark == "" {
		return nil
	}
	stored, err := s.snapshots.GetSnapshot(ctx, s.benchmark)
	if err != nil || stored == nil {
		return nil
	}
	snap := stored.Snapshot
	indicators.Enrich(&snap, stored.Bars)
	return &snap
}

// Rank produces the full weighted ranking and the filtered top picks.
func (s *Service) Rank(ctx context.Context, options interfaces.RankOptions) (*models.RankReport, error) {
	snaps, err := s.loadSnapshots(ctx, options.Symbols)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("no snapshot data available")
	}

	if options.AssetClass == "etf" {
		kept := snaps[:0]
		for i := range snaps {
			if rank.PassesETFUptrend(&snaps[i]) {
				kept = append(kept, snaps[i])
			}
		}
		snaps = kept
	}

	ranked, picks := rank.RankWeighted(snaps, s.loadBenchmark(ctx), s.config)

	bySymbol := make(map[string]*models.TickerSnapshot, len(snaps))
	for i := range snaps {
		bySymbol[snaps[i].Symbol] = &snaps[i]
	}

	report := &models.RankReport{
		AsOf:    time.Now().UTC().Format("2006-01-02"),
		Ranked:  ranked,
		Picks:   picks,
		Text:    BulkSummary(ranked, bySymbol),
		Source:  "deterministic",
		Tickers: symbolsOf(ranked),
	}
	s.logger.Info().Int("ranked", len(ranked)).Int("picks", len(picks)).Msg("Ranking pass complete")
	return report, nil
}

// Recommend produces the point-scheme allocation table. When the model is
// enabled its text is used, but only if it survives the plausibility check;
// the deterministic rendering is the substitute, never an error.
func (s *Service) Recommend(ctx context.Context, options interfaces.RankOptions) (*models.RankReport, error) {
	snaps, err := s.loadSnapshots(ctx, options.Symbols)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("no snapshot data available")
	}

	// Hard trend filter before scoring.
	kept := snaps[:0]
	for i := range snaps {
		if rank.PassesUptrend(&snaps[i]) {
			kept = append(kept, snaps[i])
		}
	}
	snaps = kept

	results := rank.RankPoints(snaps, s.config)

	bySymbol := make(map[string]*models.TickerSnapshot, len(snaps))
	for i := range snaps {
		bySymbol[snaps[i].Symbol] = &snaps[i]
	}
	rows := BuildRows(results, bySymbol)

	report := &models.RankReport{
		AsOf:    time.Now().UTC().Format("2006-01-02"),
		Ranked:  results,
		Rows:    rows,
		Source:  "deterministic",
		Tickers: symbolsOf(results),
	}
	report.Text = AllocationTable(rows) + "\n\n" + Summary(results)

	if options.UseModel && s.model != nil && s.model.Enabled() {
		text, err := s.model.Generate(ctx, buildBulkPrompt(snaps, report.AsOf))
		if err != nil {
			s.logger.Warn().Err(err).Msg("Model call failed, using deterministic rendering")
		} else if !gemini.PlausibleBulk(text, report.Tickers) {
			s.logger.Warn().Msg("Model output failed plausibility check, using deterministic rendering")
		} else {
			report.Text = text
			report.Source = "model"
		}
	}

	if s.reports != nil {
		if err := s.reports.SaveReport(ctx, latestReportKey, report); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to persist report")
		}
	}
	return report, nil
}

// SwingPlan produces trade-plan text for one ticker.
func (s *Service) SwingPlan(ctx context.Context, symbol string, useModel bool) (string, error) {
	symbol = common.NormalizeSymbol(symbol)
	stored, err := s.snapshots.GetSnapshot(ctx, symbol)
	if err != nil {
		return "", err
	}
	if stored == nil {
		return "", fmt.Errorf("no snapshot data for %s", symbol)
	}
	snap := stored.Snapshot
	indicators.Enrich(&snap, stored.Bars)

	fallback := SimplePlan(symbol, snap.Close, indicators.SMA(stored.Bars, 21))

	if useModel && s.model != nil && s.model.Enabled() {
		text, err := s.model.Generate(ctx, buildPlanPrompt(&snap))
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Model call failed, using simple plan")
			return fallback, nil
		}
		if gemini.PlausiblePlan(text) {
			return text, nil
		}
		s.logger.Warn().Str("symbol", symbol).Msg("Model plan failed plausibility check, using simple plan")
	}
	return fallback, nil
}

// LatestReport returns the most recently persisted allocation report.
func (s *Service) LatestReport(ctx context.Context) (*models.RankReport, error) {
	if s.reports == nil {
		return nil, nil
	}
	return s.reports.GetReport(ctx, latestReportKey)
}

func symbolsOf(results []models.ScoreResult) []string {
	symbols := make([]string, 0, len(results))
	for _, r := range results {
		symbols = append(symbols, r.Symbol)
	}
	return symbols
}
