package server

import "net/http"

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Snapshots
	mux.HandleFunc("/api/snapshots", s.handleSnapshots)
	mux.HandleFunc("/api/snapshots/", s.handleSnapshot)

	// Ranking
	mux.HandleFunc("/api/rank", s.handleRank)
	mux.HandleFunc("/api/picks", s.handlePicks)
	mux.HandleFunc("/api/recommend", s.handleRecommend)
	mux.HandleFunc("/api/recommend/chart", s.handleAllocationChart)
	mux.HandleFunc("/api/swing/", s.handleSwing)
	mux.HandleFunc("/api/canslim/", s.handleCANSLIM)

	// Portfolio
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/portfolio/buy", s.handlePortfolioBuy)
	mux.HandleFunc("/api/portfolio/sell", s.handlePortfolioSell)
	mux.HandleFunc("/api/portfolio/rebalance", s.handlePortfolioRebalance)
}
