package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/services"
)

// AssignInfluencerRequest is the body of POST /projects/{id}/influencers.
type AssignInfluencerRequest struct {
	InfluencerID int64 `json:"influencer_id"`
}

// ProjectInfluencersHandler manages influencer assignments and their
// per-stage progress.
type ProjectInfluencersHandler struct {
	service services.ProjectInfluencerService
	prefix  string
	logger  *zap.Logger
}

// NewProjectInfluencersHandler creates a new project influencers handler.
func NewProjectInfluencersHandler(service services.ProjectInfluencerService, prefix string, logger *zap.Logger) *ProjectInfluencersHandler {
	return &ProjectInfluencersHandler{
		service: service,
		prefix:  prefix,
		logger:  logger,
	}
}

// RegisterRoutes registers the project influencers handler's routes on the given mux.
func (h *ProjectInfluencersHandler) RegisterRoutes(mux *http.ServeMux, mw RouteMiddleware) {
	base := h.prefix + "/projects/{pid}/influencers"
	handleCollection(mux, "GET", base, mw.Protected(h.List))
	handleCollection(mux, "POST", base, mw.Protected(h.Assign))
	mux.HandleFunc("PATCH "+base+"/{iid}", mw.Protected(h.UpdateProgress))
}

// List handles GET /projects/{id}/influencers
func (h *ProjectInfluencersHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r, "pid", "Project", h.logger)
	if !ok {
		return
	}
	assignments, err := h.service.List(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, h.logger, err, "list project influencers")
		return
	}
	respond(w, h.logger, http.StatusOK, assignments)
}

// Assign handles POST /projects/{id}/influencers
func (h *ProjectInfluencersHandler) Assign(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r, "pid", "Project", h.logger)
	if !ok {
		return
	}
	var req AssignInfluencerRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	assignment, err := h.service.Assign(r.Context(), projectID, req.InfluencerID)
	if err != nil {
		writeServiceError(w, h.logger, err, "assign influencer")
		return
	}
	respond(w, h.logger, http.StatusOK, assignment)
}

// UpdateProgress handles PATCH /projects/{id}/influencers/{iid}
func (h *ProjectInfluencersHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r, "pid", "Project", h.logger)
	if !ok {
		return
	}
	influencerID, ok := parseID(w, r, "iid", "Influencer", h.logger)
	if !ok {
		return
	}
	var progress models.StageProgress
	if !decodeJSON(w, r, &progress, h.logger) {
		return
	}
	assignment, err := h.service.UpdateProgress(r.Context(), projectID, influencerID, &progress)
	if err != nil {
		writeServiceError(w, h.logger, err, "update influencer progress")
		return
	}
	respond(w, h.logger, http.StatusOK, assignment)
}
