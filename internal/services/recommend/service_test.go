package recommend

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/arkrank/internal/common"
	"github.com/bobmcallan/arkrank/internal/interfaces"
	"github.com/bobmcallan/arkrank/internal/models"
	"github.com/bobmcallan/arkrank/internal/rank"
	"github.com/bobmcallan/arkrank/internal/storage/snapshotfs"
)

// fakeModel scripts the model client for fallback testing.
type fakeModel struct {
	enabled bool
	text    string
	err     error
	calls   int
}

func (m *fakeModel) Generate(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.text, m.err
}

func (m *fakeModel) Enabled() bool {
	return m.enabled
}

func newTestService(t *testing.T, model interfaces.ModelClient) (*Service, *snapshotfs.Store) {
	t.Helper()
	store, err := snapshotfs.NewStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	svc := NewService(store, store, model, rank.DefaultConfig(), "SPY", common.NewSilentLogger())
	return svc, store
}

func strongPayload(symbol string, upside float64) models.RawPayload {
	return models.RawPayload{
		Symbol: symbol,
		Row: map[string]any{
			"close":        110.0,
			"sma20":        105.0,
			"sma50":        100.0,
			"sma200":       90.0,
			"rsi14":        58.0,
			"macd":         1.0,
			"macd_hist":    0.4,
			"atr14":        1.2,
			"volume_trend": 1.3,
			"upside_pct":   upside,
		},
		Fundamentals: map[string]any{
			"buy_rating_pct": 85.0,
		},
	}
}

func TestIngestAndRank(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	payloads := []models.RawPayload{
		strongPayload("AAPL", 25),
		strongPayload("MSFT", 10),
		{
			Symbol: "WEAK",
			Row: map[string]any{
				"close":      80.0,
				"sma200":     90.0,
				"rsi14":      25.0,
				"upside_pct": -5.0,
			},
		},
	}

	n, err := svc.Ingest(ctx, payloads, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	report, err := svc.Rank(ctx, interfaces.RankOptions{})
	require.NoError(t, err)

	require.Len(t, report.Ranked, 3)
	assert.Equal(t, "AAPL", report.Ranked[0].Symbol)
	assert.Equal(t, "WEAK", report.Ranked[2].Symbol)
	require.NotEmpty(t, report.Picks)
	for _, p := range report.Picks {
		assert.Greater(t, p.Score, 0.6)
	}
	assert.Equal(t, "deterministic", report.Source)
}

func TestRankBulkSummaryText(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, []models.RawPayload{
		strongPayload("AAPL", 25),
		strongPayload("MSFT", 10),
	}, nil)
	require.NoError(t, err)

	report, err := svc.Rank(ctx, interfaces.RankOptions{})
	require.NoError(t, err)

	lines := strings.Split(report.Text, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "1. AAPL (score ")
	assert.Contains(t, lines[0], "Upside 25.0% | Rating 85% | Vol 1.30x | RSI 58")
	assert.Contains(t, lines[1], "2. MSFT (score ")
}

func TestRankNoDataErrors(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Rank(context.Background(), interfaces.RankOptions{})
	assert.Error(t, err)
}

func TestRankETFGateDropsIncomplete(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	complete := strongPayload("VTI", 8)
	incomplete := models.RawPayload{
		Symbol: "MYSTERY",
		Row:    map[string]any{"close": 100.0, "sma50": 90.0},
	}
	_, err := svc.Ingest(ctx, []models.RawPayload{complete, incomplete}, nil)
	require.NoError(t, err)

	report, err := svc.Rank(ctx, interfaces.RankOptions{AssetClass: "etf"})
	require.NoError(t, err)
	require.Len(t, report.Ranked, 1)
	assert.Equal(t, "VTI", report.Ranked[0].Symbol)
}

func TestRecommendDeterministic(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, []models.RawPayload{
		strongPayload("AAPL", 40),
		strongPayload("MSFT", 30),
	}, nil)
	require.NoError(t, err)

	report, err := svc.Recommend(ctx, interfaces.RankOptions{})
	require.NoError(t, err)

	assert.Equal(t, "deterministic", report.Source)
	assert.Contains(t, report.Text, "| Rank | Ticker |")
	assert.Contains(t, report.Text, "TOTAL")
	assert.Contains(t, report.Text, "AAPL")

	total := 0
	for _, row := range report.Rows {
		total += row.AllocationPct
	}
	assert.Equal(t, 100, total)

	// The report is persisted for later retrieval.
	saved, err := store.GetReport(ctx, "latest")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, report.Text, saved.Text)
}

func TestRecommendUptrendFilter(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	downtrend := models.RawPayload{
		Symbol: "DOWN",
		Row: map[string]any{
			"close":      50.0,
			"sma50":      55.0,
			"sma200":     48.0,
			"upside_pct": 80.0,
		},
	}
	_, err := svc.Ingest(ctx, []models.RawPayload{strongPayload("AAPL", 40), downtrend}, nil)
	require.NoError(t, err)

	report, err := svc.Recommend(ctx, interfaces.RankOptions{})
	require.NoError(t, err)

	for _, row := range report.Rows {
		assert.NotEqual(t, "DOWN", row.Ticker)
	}
}

func TestRecommendUsesPlausibleModelOutput(t *testing.T) {
	model := &fakeModel{
		enabled: true,
		text:    "| 1 | AAPL | +40.0% | 55% | Strong earnings trend, above SMA50, expanding volume |\n|      | TOTAL  |          | 100%         | |",
	}
	svc, _ := newTestService(t, model)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, []models.RawPayload{strongPayload("AAPL", 40), strongPayload("MSFT", 30)}, nil)
	require.NoError(t, err)

	report, err := svc.Recommend(ctx, interfaces.RankOptions{UseModel: true})
	require.NoError(t, err)

	assert.Equal(t, "model", report.Source)
	assert.Equal(t, model.text, report.Text)
	assert.Equal(t, 1, model.calls)
}

func TestRecommendFallsBackOnImplausibleModelOutput(t *testing.T) {
	model := &fakeModel{enabled: true, text: "too short"}
	svc, _ := newTestService(t, model)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, []models.RawPayload{strongPayload("AAPL", 40)}, nil)
	require.NoError(t, err)

	report, err := svc.Recommend(ctx, interfaces.RankOptions{UseModel: true})
	require.NoError(t, err)

	assert.Equal(t, "deterministic", report.Source)
	assert.Contains(t, report.Text, "TOTAL")
	assert.Equal(t, 1, model.calls)
}

func TestRecommendFallsBackOnModelError(t *testing.T) {
	model := &fakeModel{enabled: true, err: fmt.Errorf("quota exceeded")}
	svc, _ := newTestService(t, model)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, []models.RawPayload{strongPayload("AAPL", 40)}, nil)
	require.NoError(t, err)

	report, err := svc.Recommend(ctx, interfaces.RankOptions{UseModel: true})
	require.NoError(t, err)
	assert.Equal(t, "deterministic", report.Source)
}

func TestSwingPlanFallback(t *testing.T) {
	svc, _ := newTestService(t, &fakeModel{enabled: true, text: "you are a swing trader"})
	ctx := context.Background()

	_, err := svc.Ingest(ctx, []models.RawPayload{strongPayload("AAPL", 40)}, nil)
	require.NoError(t, err)

	// Implausible model output falls back to the simple plan.
	plan, err := svc.SwingPlan(ctx, "aapl", true)
	require.NoError(t, err)
	assert.Contains(t, plan, "Buy: 107.80")
	assert.Contains(t, plan, "Target: 115.50")
	assert.Contains(t, plan, "Stop: 103.40")
}

func TestSwingPlanNoteUsesBarHistory(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	bars := make([]models.DailyBar, 25)
	for i := range bars {
		bars[i] = models.DailyBar{
			Date:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:   100,
			High:   101,
			Low:    99,
			Close:  100,
			Volume: 1000,
		}
	}
	_, err := svc.Ingest(ctx, []models.RawPayload{strongPayload("AAPL", 40)},
		map[string][]models.DailyBar{"AAPL": bars})
	require.NoError(t, err)

	plan, err := svc.SwingPlan(ctx, "AAPL", false)
	require.NoError(t, err)
	assert.Contains(t, plan, "Note: MA21 100.00")

	// Without bar history the note falls back to the close reference.
	_, err = svc.Ingest(ctx, []models.RawPayload{strongPayload("MSFT", 40)}, nil)
	require.NoError(t, err)

	plan, err = svc.SwingPlan(ctx, "MSFT", false)
	require.NoError(t, err)
	assert.Contains(t, plan, "Note: based on latest close")
}

func TestSwingPlanNoData(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.SwingPlan(context.Background(), "NOPE", false)
	assert.Error(t, err)
}
