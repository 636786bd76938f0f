package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/services"
)

// InfluencersHandler handles influencer profile CRUD.
type InfluencersHandler struct {
	influencerService services.InfluencerService
	res               resource
	prefix            string
	logger            *zap.Logger
}

// NewInfluencersHandler creates a new influencers handler.
func NewInfluencersHandler(influencerService services.InfluencerService, prefix string, logger *zap.Logger) *InfluencersHandler {
	return &InfluencersHandler{
		influencerService: influencerService,
		res:               newResource("influencers"),
		prefix:            prefix,
		logger:            logger,
	}
}

// RegisterRoutes registers the influencers handler's routes on the given mux.
func (h *InfluencersHandler) RegisterRoutes(mux *http.ServeMux, mw RouteMiddleware) {
	base := h.prefix + "/" + h.res.Path
	handleCollection(mux, "GET", base, mw.Protected(h.List))
	handleCollection(mux, "POST", base, mw.Protected(h.Create))
	mux.HandleFunc("GET "+base+"/{id}", mw.Protected(h.Get))
	mux.HandleFunc("PUT "+base+"/{id}", mw.Protected(h.Update))
	mux.HandleFunc("DELETE "+base+"/{id}", mw.Protected(h.Delete))
}

// List handles GET /influencers/. Managers only see the influencers they supervise.
func (h *InfluencersHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r, h.logger)
	if !ok {
		return
	}
	offset, limit, ok := parsePagination(w, r, h.logger)
	if !ok {
		return
	}
	influencers, err := h.influencerService.List(r.Context(), caller, offset, limit)
	if err != nil {
		writeServiceError(w, h.logger, err, "list influencers")
		return
	}
	respond(w, h.logger, http.StatusOK, influencers)
}

// Create handles POST /influencers/
func (h *InfluencersHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r, h.logger)
	if !ok {
		return
	}
	var inf models.Influencer
	if !decodeJSON(w, r, &inf, h.logger) {
		return
	}
	inf.ID = 0
	created, err := h.influencerService.Create(r.Context(), caller, &inf)
	if err != nil {
		writeServiceError(w, h.logger, err, "create influencer")
		return
	}
	respond(w, h.logger, http.StatusOK, created)
}

// Get handles GET /influencers/{id}
func (h *InfluencersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	inf, err := h.influencerService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "get influencer")
		return
	}
	respond(w, h.logger, http.StatusOK, inf)
}

// Update handles PUT /influencers/{id}. Only the fields present in the body change.
func (h *InfluencersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	var patch models.InfluencerPatch
	if !decodeJSON(w, r, &patch, h.logger) {
		return
	}
	inf, err := h.influencerService.Update(r.Context(), id, &patch)
	if err != nil {
		writeServiceError(w, h.logger, err, "update influencer")
		return
	}
	respond(w, h.logger, http.StatusOK, inf)
}

// Delete handles DELETE /influencers/{id}
func (h *InfluencersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	if err := h.influencerService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "delete influencer")
		return
	}
	respond(w, h.logger, http.StatusOK, h.res.deletedMessage())
}
