// Package portfolio manages the toy paper-trading ledger.
package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/arkrank/internal/common"
	"github.com/bobmcallan/arkrank/internal/interfaces"
	"github.com/bobmcallan/arkrank/internal/models"
)

// StartingCapital seeds a fresh ledger.
const StartingCapital = 100000.0

// sizeFractions maps the named position sizes to a fraction of equity.
var sizeFractions = map[string]float64{
	"1":    0.10,
	"1/2":  0.05,
	"1/4":  0.025,
	"auto": 0.10,
}

// Service implements interfaces.PortfolioService over a LedgerStore.
type Service struct {
	ledger interfaces.LedgerStore
	logger *common.Logger
}

var _ interfaces.PortfolioService = (*Service)(nil)

func NewService(ledger interfaces.LedgerStore, logger *common.Logger) *Service {
	return &Service{ledger: ledger, logger: logger}
}

// state loads the ledger state, seeding it with starting capital on first use.
func (s *Service) state(ctx context.Context) (*models.LedgerState, error) {
	state, err := s.ledger.GetState(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger state: %w", err)
	}
	if state == nil {
		state = &models.LedgerState{
			Cash:   StartingCapital,
			Equity: StartingCapital,
		}
		if err := s.ledger.SaveState(ctx, state); err != nil {
			return nil, fmt.Errorf("seeding ledger state: %w", err)
		}
		s.logger.Info().Float64("cash", state.Cash).Msg("seeded ledger")
	}
	return state, nil
}

func (s *Service) Report(ctx context.Context) (*models.PortfolioReport, error) {
	state, err := s.state(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := s.ledger.ListPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing positions: %w", err)
	}

	invested := 0.0
	for _, p := range positions {
		invested += p.Allocation
	}

	return &models.PortfolioReport{
		Cash:      state.Cash,
		Invested:  invested,
		Positions: positions,
		AsOf:      time.Now().UTC(),
	}, nil
}

func (s *Service) Buy(ctx context.Context, symbol string, price float64, size string) (*models.Position, error) {
	symbol = common.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if price <= 0 {
		return nil, fmt.Errorf("price must be positive, got %.2f", price)
	}
	fraction, ok := sizeFractions[strings.TrimSpace(size)]
	if !ok {
		return nil, fmt.Errorf("unknown size %q, want one of 1, 1/2, 1/4, auto", size)
	}

	state, err := s.state(ctx)
	if err != nil {
		return nil, err
	}

	allocation := state.Equity * fraction
	if allocation > state.Cash {
		return nil, fmt.Errorf("insufficient cash: need %.2f, have %.2f", allocation, state.Cash)
	}
	shares := allocation / price

	position, err := s.ledger.GetPosition(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("loading position %s: %w", symbol, err)
	}
	if position == nil {
		position = &models.Position{
			ID:         uuid.NewString(),
			Symbol:     symbol,
			Shares:     shares,
			EntryPrice: price,
			Allocation: allocation,
			OpenedAt:   time.Now().UTC(),
		}
	} else {
		// Average into the existing position.
		totalCost := position.Allocation + allocation
		position.Shares += shares
		position.EntryPrice = totalCost / position.Shares
		position.Allocation = totalCost
	}

	if err := s.ledger.SavePosition(ctx, position); err != nil {
		return nil, fmt.Errorf("saving position %s: %w", symbol, err)
	}

	state.Cash -= allocation
	state.UpdatedAt = time.Now().UTC()
	if err := s.ledger.SaveState(ctx, state); err != nil {
		return nil, fmt.Errorf("saving ledger state: %w", err)
	}

	trade := &models.TradeRecord{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Side:       "buy",
		Shares:     shares,
		Price:      price,
		Value:      allocation,
		ExecutedAt: time.Now().UTC(),
	}
	if err := s.ledger.RecordTrade(ctx, trade); err != nil {
		return nil, fmt.Errorf("recording trade: %w", err)
	}

	s.logger.Info().
		Str("symbol", symbol).
		Float64("shares", shares).
		Float64("price", price).
		Msg("bought")
	return position, nil
}

func (s *Service) Sell(ctx context.Context, symbol string, price float64) (*models.TradeRecord, error) {
	symbol = common.NormalizeSymbol(symbol)
	if price <= 0 {
		return nil, fmt.Errorf("price must be positive, got %.2f", price)
	}

	position, err := s.ledger.GetPosition(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("loading position %s: %w", symbol, err)
	}
	if position == nil {
		return nil, fmt.Errorf("no open position for %s", symbol)
	}

	state, err := s.state(ctx)
	if err != nil {
		return nil, err
	}

	proceeds := position.Shares * price
	state.Cash += proceeds
	state.UpdatedAt = time.Now().UTC()
	if err := s.ledger.SaveState(ctx, state); err != nil {
		return nil, fmt.Errorf("saving ledger state: %w", err)
	}
	if err := s.ledger.DeletePosition(ctx, symbol); err != nil {
		return nil, fmt.Errorf("closing position %s: %w", symbol, err)
	}

	trade := &models.TradeRecord{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Side:       "sell",
		Shares:     position.Shares,
		Price:      price,
		Value:      proceeds,
		ExecutedAt: time.Now().UTC(),
	}
	if err := s.ledger.RecordTrade(ctx, trade); err != nil {
		return nil, fmt.Errorf("recording trade: %w", err)
	}

	s.logger.Info().
		Str("symbol", symbol).
		Float64("shares", position.Shares).
		Float64("proceeds", proceeds).
		Msg("sold")
	return trade, nil
}

// Rebalance retargets open positions to the engine's allocation percentages.
// Positions absent from the scored set are closed at their entry price;
// present ones are resized toward allocation_pct of equity using the scored
// close as the fill price.
func (s *Service) Rebalance(ctx context.Context, results []models.ScoreResult) (*models.PortfolioReport, error) {
	state, err := s.state(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := s.ledger.ListPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing positions: %w", err)
	}

	targets := make(map[string]models.ScoreResult, len(results))
	for _, r := range results {
		if r.AllocationPct > 0 {
			targets[r.Symbol] = r
		}
	}

	now := time.Now().UTC()

	// Close positions that fell out of the target set.
	for _, p := range positions {
		if _, keep := targets[p.Symbol]; keep {
			continue
		}
		state.Cash += p.Allocation
		if err := s.ledger.DeletePosition(ctx, p.Symbol); err != nil {
			return nil, fmt.Errorf("closing position %s: %w", p.Symbol, err)
		}
		trade := &models.TradeRecord{
			ID:         uuid.NewString(),
			Symbol:     p.Symbol,
			Side:       "sell",
			Shares:     p.Shares,
			Price:      p.EntryPrice,
			Value:      p.Allocation,
			ExecutedAt: now,
		}
		if err := s.ledger.RecordTrade(ctx, trade); err != nil {
			return nil, fmt.Errorf("recording trade: %w", err)
		}
		s.logger.Info().Str("symbol", p.Symbol).Msg("rebalance closed position")
	}

	held := make(map[string]models.Position, len(positions))
	for _, p := range positions {
		held[p.Symbol] = p
	}

	// Walk the scored set in rank order so the trade sequence, and which
	// position gets clamped when cash runs short, is the same on every call.
	for _, target := range results {
		if _, ok := targets[target.Symbol]; !ok {
			continue
		}
		symbol := target.Symbol
		price := 0.0
		if target.Close != nil && *target.Close > 0 {
			price = *target.Close
		} else if target.Swing != nil && target.Swing.EntryHigh > 0 {
			price = target.Swing.EntryHigh
		}
		if price <= 0 {
			// No usable fill price; leave any existing position alone.
			if _, ok := held[symbol]; !ok {
				s.logger.Warn().Str("symbol", symbol).Msg("rebalance skipped, no price")
			}
			continue
		}

		want := state.Equity * float64(target.AllocationPct) / 100.0
		current, ok := held[symbol]
		have := 0.0
		if ok {
			have = current.Allocation
		}
		delta := want - have
		if delta > state.Cash {
			delta = state.Cash
		}
		if delta == 0 {
			continue
		}

		shares := delta / price
		if ok {
			current.Shares += shares
			current.Allocation += delta
			if current.Shares <= 0 {
				if err := s.ledger.DeletePosition(ctx, symbol); err != nil {
					return nil, fmt.Errorf("closing position %s: %w", symbol, err)
				}
			} else {
				current.EntryPrice = current.Allocation / current.Shares
				if err := s.ledger.SavePosition(ctx, &current); err != nil {
					return nil, fmt.Errorf("saving position %s: %w", symbol, err)
				}
			}
		} else {
			position := models.Position{
				ID:         uuid.NewString(),
				Symbol:     symbol,
				Shares:     shares,
				EntryPrice: price,
				Allocation: delta,
				OpenedAt:   now,
			}
			if err := s.ledger.SavePosition(ctx, &position); err != nil {
				return nil, fmt.Errorf("saving position %s: %w", symbol, err)
			}
		}

		state.Cash -= delta
		side := "buy"
		value := delta
		if delta < 0 {
			side = "sell"
			value = -delta
			shares = -shares
		}
		trade := &models.TradeRecord{
			ID:         uuid.NewString(),
			Symbol:     symbol,
			Side:       side,
			Shares:     shares,
			Price:      price,
			Value:      value,
			ExecutedAt: now,
		}
		if err := s.ledger.RecordTrade(ctx, trade); err != nil {
			return nil, fmt.Errorf("recording trade: %w", err)
		}
	}

	state.UpdatedAt = now
	if err := s.ledger.SaveState(ctx, state); err != nil {
		return nil, fmt.Errorf("saving ledger state: %w", err)
	}

	return s.Report(ctx)
}
