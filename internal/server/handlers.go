package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/arkrank/internal/common"
	"github.com/bobmcallan/arkrank/internal/interfaces"
	"github.com/bobmcallan/arkrank/internal/models"
	"github.com/bobmcallan/arkrank/internal/rank"
	"github.com/bobmcallan/arkrank/internal/services/portfolio"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.Version,
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}

// IngestRequest carries raw provider payloads plus optional bar history for
// indicator backfill.
type IngestRequest struct {
	Payloads []models.RawPayload          `json:"payloads"`
	Bars     map[string][]models.DailyBar `json:"bars,omitempty"`
}

// handleSnapshots handles POST /api/snapshots (ingest) and GET /api/snapshots
// (list cached symbols).
func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req IngestRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		if len(req.Payloads) == 0 {
			WriteError(w, http.StatusBadRequest, "At least one payload is required")
			return
		}
		n, err := s.app.RecommendService.Ingest(r.Context(), req.Payloads, req.Bars)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Ingest failed: "+err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]int{"stored": n})

	case http.MethodGet:
		symbols, err := s.app.SnapshotStore.ListSymbols(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "List failed: "+err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"symbols": symbols, "count": len(symbols)})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleSnapshot handles GET and DELETE /api/snapshots/{symbol}.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	symbol := common.NormalizeSymbol(PathParam(r, "/api/snapshots/", ""))
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		stored, err := s.app.SnapshotStore.GetSnapshot(r.Context(), symbol)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Read failed: "+err.Error())
			return
		}
		if stored == nil {
			WriteError(w, http.StatusNotFound, "No snapshot for "+symbol)
			return
		}
		WriteJSON(w, http.StatusOK, stored)

	case http.MethodDelete:
		if err := s.app.SnapshotStore.DeleteSnapshot(r.Context(), symbol); err != nil {
			WriteError(w, http.StatusInternalServerError, "Delete failed: "+err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": symbol})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// rankOptions builds RankOptions from query parameters shared by the rank
// and recommend endpoints.
func rankOptions(r *http.Request) interfaces.RankOptions {
	q := r.URL.Query()
	return interfaces.RankOptions{
		Symbols:    common.ParseSymbolList(q.Get("symbols")),
		AssetClass: strings.ToLower(strings.TrimSpace(q.Get("asset_class"))),
		UseModel:   q.Get("model") == "1" || strings.EqualFold(q.Get("model"), "true"),
	}
}

// handleRank handles GET /api/rank: the full weighted ranking plus picks.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	report, err := s.app.RecommendService.Rank(r.Context(), rankOptions(r))
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "Ranking failed: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// handlePicks handles GET /api/picks: only the filtered top picks.
func (s *Server) handlePicks(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	report, err := s.app.RecommendService.Rank(r.Context(), rankOptions(r))
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "Ranking failed: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"as_of": report.AsOf,
		"picks": report.Picks,
	})
}

// handleRecommend handles POST /api/recommend (run a fresh allocation pass)
// and GET /api/recommend (return the persisted latest report).
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		report, err := s.app.RecommendService.Recommend(r.Context(), rankOptions(r))
		if err != nil {
			WriteError(w, http.StatusUnprocessableEntity, "Recommendation failed: "+err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, report)

	case http.MethodGet:
		report, err := s.app.SnapshotStore.GetReport(r.Context(), "latest")
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Read failed: "+err.Error())
			return
		}
		if report == nil {
			WriteError(w, http.StatusNotFound, "No report yet, POST /api/recommend to generate one")
			return
		}
		WriteJSON(w, http.StatusOK, report)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleSwing handles GET /api/swing/{symbol}: a trade-plan line.
func (s *Server) handleSwing(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	symbol := common.NormalizeSymbol(PathParam(r, "/api/swing/", ""))
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}
	useModel := r.URL.Query().Get("model") == "1" || strings.EqualFold(r.URL.Query().Get("model"), "true")

	plan, err := s.app.RecommendService.SwingPlan(r.Context(), symbol, useModel)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Swing plan failed: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"symbol": symbol, "plan": plan})
}

// handleCANSLIM handles GET /api/canslim/{symbol}: the growth-stock gate.
func (s *Server) handleCANSLIM(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	symbol := common.NormalizeSymbol(PathParam(r, "/api/canslim/", ""))
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	stored, err := s.app.SnapshotStore.GetSnapshot(r.Context(), symbol)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Read failed: "+err.Error())
		return
	}
	if stored == nil {
		WriteError(w, http.StatusNotFound, "No snapshot for "+symbol)
		return
	}

	result := rank.EvaluateCANSLIM(&stored.Snapshot)
	WriteJSON(w, http.StatusOK, map[string]any{"symbol": symbol, "result": result})
}

// handlePortfolio handles GET /api/portfolio: the ledger summary.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	report, err := s.app.PortfolioService.Report(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Report failed: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// TradeRequest is the body for buy and sell orders.
type TradeRequest struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Size   string  `json:"size,omitempty"` // "1", "1/2", "1/4", "auto"
}

// handlePortfolioBuy handles POST /api/portfolio/buy.
func (s *Server) handlePortfolioBuy(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req TradeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Size == "" {
		req.Size = "auto"
	}
	position, err := s.app.PortfolioService.Buy(r.Context(), req.Symbol, req.Price, req.Size)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "Buy failed: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, position)
}

// handlePortfolioSell handles POST /api/portfolio/sell.
func (s *Server) handlePortfolioSell(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req TradeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	trade, err := s.app.PortfolioService.Sell(r.Context(), req.Symbol, req.Price)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "Sell failed: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, trade)
}

// handlePortfolioRebalance handles POST /api/portfolio/rebalance: rerun the
// allocation pass and retarget open positions to it.
func (s *Server) handlePortfolioRebalance(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	rankReport, err := s.app.RecommendService.Recommend(r.Context(), rankOptions(r))
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "Ranking failed: "+err.Error())
		return
	}
	report, err := s.app.PortfolioService.Rebalance(r.Context(), rankReport.Ranked)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Rebalance failed: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// handleAllocationChart handles GET /api/recommend/chart: the latest
// allocation rendered as a PNG bar chart.
func (s *Server) handleAllocationChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	report, err := s.app.SnapshotStore.GetReport(r.Context(), "latest")
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Read failed: "+err.Error())
		return
	}
	if report == nil {
		WriteError(w, http.StatusNotFound, "No report yet, POST /api/recommend to generate one")
		return
	}

	png, err := portfolio.RenderAllocationChart(report.Ranked)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "Chart render failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
