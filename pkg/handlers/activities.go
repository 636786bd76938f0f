package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/auth"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/services"
)

const defaultRecentActivities = 5

// ProjectActivityRequest is the body of POST /projects/{id}/activities.
type ProjectActivityRequest struct {
	ActivityType string `json:"activity_type"`
	Description  string `json:"description"`
}

// ActivitiesHandler serves the activity log. Activities are append-only,
// so there are no update or delete routes.
type ActivitiesHandler struct {
	activityService services.ActivityService
	res             resource
	prefix          string
	logger          *zap.Logger
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(activityService services.ActivityService, prefix string, logger *zap.Logger) *ActivitiesHandler {
	return &ActivitiesHandler{
		activityService: activityService,
		res:             newResource("activities"),
		prefix:          prefix,
		logger:          logger,
	}
}

// RegisterRoutes registers the activities handler's routes on the given mux.
func (h *ActivitiesHandler) RegisterRoutes(mux *http.ServeMux, mw RouteMiddleware) {
	base := h.prefix + "/" + h.res.Path
	handleCollection(mux, "GET", base, mw.Protected(h.List))
	handleCollection(mux, "POST", base, mw.Protected(h.Create))
	mux.HandleFunc("GET "+base+"/recent", mw.Protected(h.Recent))
	mux.HandleFunc("GET "+base+"/{id}", mw.Protected(h.Get))

	nested := h.prefix + "/projects/{pid}/" + h.res.Path
	handleCollection(mux, "GET", nested, mw.Protected(h.ListForProject))
	handleCollection(mux, "POST", nested, mw.Protected(h.CreateForProject))
}

// List handles GET /activities/
func (h *ActivitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := parsePagination(w, r, h.logger)
	if !ok {
		return
	}
	activities, err := h.activityService.List(r.Context(), offset, limit)
	if err != nil {
		writeServiceError(w, h.logger, err, "list activities")
		return
	}
	respond(w, h.logger, http.StatusOK, activities)
}

// Create handles POST /activities/. A missing user_id defaults to the caller.
func (h *ActivitiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.ActivityInput
	if !decodeJSON(w, r, &in, h.logger) {
		return
	}
	if in.UserID == 0 {
		if user, ok := auth.GetUser(r.Context()); ok {
			in.UserID = user.ID
		}
	}
	h.create(w, r, &in)
}

// Get handles GET /activities/{id}
func (h *ActivitiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	activity, err := h.activityService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "get activity")
		return
	}
	respond(w, h.logger, http.StatusOK, activity)
}

// Recent handles GET /activities/recent?limit=
func (h *ActivitiesHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", defaultRecentActivities, h.logger)
	if !ok {
		return
	}
	if limit == 0 {
		limit = defaultRecentActivities
	}
	activities, err := h.activityService.ListRecent(r.Context(), min(limit, maxPageLimit))
	if err != nil {
		writeServiceError(w, h.logger, err, "list recent activities")
		return
	}
	respond(w, h.logger, http.StatusOK, activities)
}

// ListForProject handles GET /projects/{id}/activities, newest first.
func (h *ActivitiesHandler) ListForProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r, "pid", "Project", h.logger)
	if !ok {
		return
	}
	offset, limit, ok := parsePagination(w, r, h.logger)
	if !ok {
		return
	}
	activities, err := h.activityService.ListByProject(r.Context(), projectID, offset, limit)
	if err != nil {
		writeServiceError(w, h.logger, err, "list activities")
		return
	}
	respond(w, h.logger, http.StatusOK, activities)
}

// CreateForProject handles POST /projects/{id}/activities on behalf of the caller.
func (h *ActivitiesHandler) CreateForProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r, "pid", "Project", h.logger)
	if !ok {
		return
	}
	user, ok := requireCaller(w, r, h.logger)
	if !ok {
		return
	}
	var req ProjectActivityRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	h.create(w, r, &models.ActivityInput{
		ProjectID:    projectID,
		UserID:       user.ID,
		ActivityType: req.ActivityType,
		Description:  req.Description,
	})
}

func (h *ActivitiesHandler) create(w http.ResponseWriter, r *http.Request, in *models.ActivityInput) {
	activity, err := h.activityService.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, h.logger, err, "create activity")
		return
	}
	respond(w, h.logger, http.StatusOK, activity)
}
