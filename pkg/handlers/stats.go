package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/services"
)

// StatsHandler serves the dashboard summaries.
type StatsHandler struct {
	statsService services.StatsService
	prefix       string
	logger       *zap.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsService services.StatsService, prefix string, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		prefix:       prefix,
		logger:       logger,
	}
}

// RegisterRoutes registers the stats handler's routes on the given mux.
func (h *StatsHandler) RegisterRoutes(mux *http.ServeMux, mw RouteMiddleware) {
	mux.HandleFunc("GET "+h.prefix+"/stats/manager", mw.Manager(h.Manager))
	mux.HandleFunc("GET "+h.prefix+"/stats/influencer", mw.Protected(h.Influencer))
}

// Manager handles GET /stats/manager for the calling manager.
func (h *StatsHandler) Manager(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r, h.logger)
	if !ok {
		return
	}
	stats, err := h.statsService.ForManager(r.Context(), caller)
	if err != nil {
		writeServiceError(w, h.logger, err, "load manager stats")
		return
	}
	respond(w, h.logger, http.StatusOK, stats)
}

// Influencer handles GET /stats/influencer for the calling influencer.
func (h *StatsHandler) Influencer(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r, h.logger)
	if !ok {
		return
	}
	stats, err := h.statsService.ForInfluencer(r.Context(), caller)
	if err != nil {
		writeServiceError(w, h.logger, err, "load influencer stats")
		return
	}
	respond(w, h.logger, http.StatusOK, stats)
}
