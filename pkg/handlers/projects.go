package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/audit"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/services"
)

// WorkflowStageRequest is the body of PATCH /projects/{id}/workflow-stage.
type WorkflowStageRequest struct {
	WorkflowStage string `json:"workflow_stage"`
}

// ProjectsHandler handles project CRUD and workflow stage changes.
type ProjectsHandler struct {
	projectService  services.ProjectService
	workflowService services.WorkflowService
	auditor         *audit.SecurityAuditor
	res             resource
	prefix          string
	logger          *zap.Logger
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(
	projectService services.ProjectService,
	workflowService services.WorkflowService,
	auditor *audit.SecurityAuditor,
	prefix string,
	logger *zap.Logger,
) *ProjectsHandler {
	return &ProjectsHandler{
		projectService:  projectService,
		workflowService: workflowService,
		auditor:         auditor,
		res:             newResource("projects"),
		prefix:          prefix,
		logger:          logger,
	}
}

// RegisterRoutes registers the projects handler's routes on the given mux.
func (h *ProjectsHandler) RegisterRoutes(mux *http.ServeMux, mw RouteMiddleware) {
	base := h.prefix + "/" + h.res.Path
	handleCollection(mux, "GET", base, mw.Protected(h.List))
	handleCollection(mux, "POST", base, mw.Protected(h.Create))
	mux.HandleFunc("GET "+base+"/{id}", mw.Protected(h.Get))
	mux.HandleFunc("PUT "+base+"/{id}", mw.Protected(h.Update))
	mux.HandleFunc("DELETE "+base+"/{id}", mw.Protected(h.Delete))
	mux.HandleFunc("PATCH "+base+"/{id}/workflow-stage", mw.Protected(h.UpdateWorkflowStage))
}

// List handles GET /projects/?status=&search=&manager_id=&skip=&limit=
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := parsePagination(w, r, h.logger)
	if !ok {
		return
	}

	query := r.URL.Query()
	if flagged := audit.CheckQueryParams(query, "search"); len(flagged) > 0 {
		if h.auditor != nil {
			for _, result := range flagged {
				h.auditor.LogInjectionAttempt(r.Context(), r.URL.Path, result.Details(), r.RemoteAddr)
			}
		}
		if err := ErrorResponse(w, http.StatusUnprocessableEntity, "validation_error", "Invalid search parameter"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	filter := models.ProjectFilter{
		Status: query.Get("status"),
		Search: query.Get("search"),
	}
	if raw := query.Get("manager_id"); raw != "" {
		managerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || managerID <= 0 {
			if err := ErrorResponse(w, http.StatusUnprocessableEntity, "validation_error", "manager_id must be a positive integer"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		filter.ManagerID = &managerID
	}

	projects, err := h.projectService.List(r.Context(), filter, offset, limit)
	if err != nil {
		writeServiceError(w, h.logger, err, "list projects")
		return
	}
	respond(w, h.logger, http.StatusOK, projects)
}

// Create handles POST /projects/
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.ProjectInput
	if !decodeJSON(w, r, &in, h.logger) {
		return
	}
	project, err := h.projectService.Create(r.Context(), &in)
	if err != nil {
		writeServiceError(w, h.logger, err, "create project")
		return
	}
	respond(w, h.logger, http.StatusOK, project)
}

// Get handles GET /projects/{id}
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	project, err := h.projectService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "get project")
		return
	}
	respond(w, h.logger, http.StatusOK, project)
}

// Update handles PUT /projects/{id}
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	var in models.ProjectInput
	if !decodeJSON(w, r, &in, h.logger) {
		return
	}
	project, err := h.projectService.Update(r.Context(), id, &in)
	if err != nil {
		writeServiceError(w, h.logger, err, "update project")
		return
	}
	respond(w, h.logger, http.StatusOK, project)
}

// Delete handles DELETE /projects/{id}
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	if err := h.projectService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "delete project")
		return
	}
	respond(w, h.logger, http.StatusOK, h.res.deletedMessage())
}

// UpdateWorkflowStage handles PATCH /projects/{id}/workflow-stage
func (h *ProjectsHandler) UpdateWorkflowStage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	var req WorkflowStageRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	project, err := h.workflowService.AdvanceStage(r.Context(), id, req.WorkflowStage)
	if err != nil {
		writeServiceError(w, h.logger, err, "update workflow stage")
		return
	}
	respond(w, h.logger, http.StatusOK, project)
}
