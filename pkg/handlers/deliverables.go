package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/services"
)

// deliverableService is the shape shared by the scenario, material and
// publication services. T is the stored row, In its client-writable input.
type deliverableService[T, In any] interface {
	Create(ctx context.Context, in *In) (*T, error)
	Get(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context, offset, limit int) ([]*T, error)
	Update(ctx context.Context, id int64, in *In) (*T, error)
	Delete(ctx context.Context, id int64) error

	ListForProject(ctx context.Context, projectID int64) ([]*T, error)
	CreateForProject(ctx context.Context, projectID int64, in *In) (*T, error)
	UpdateForProject(ctx context.Context, projectID, id int64, in *In) (*T, error)
	DeleteForProject(ctx context.Context, projectID, id int64) error
}

var (
	_ deliverableService[models.Scenario, models.ScenarioInput]       = services.ScenarioService(nil)
	_ deliverableService[models.Material, models.MaterialInput]       = services.MaterialService(nil)
	_ deliverableService[models.Publication, models.PublicationInput] = services.PublicationService(nil)
)

// DeliverableHandler serves one deliverable collection twice: directly under
// /<path> and nested under /projects/{id}/<path>. Only the nested routes
// record activities.
type DeliverableHandler[T, In any] struct {
	service deliverableService[T, In]
	res     resource
	prefix  string
	logger  *zap.Logger
}

// NewScenariosHandler creates the handler for /scenarios.
func NewScenariosHandler(service services.ScenarioService, prefix string, logger *zap.Logger) *DeliverableHandler[models.Scenario, models.ScenarioInput] {
	return newDeliverableHandler[models.Scenario, models.ScenarioInput](service, "scenarios", prefix, logger)
}

// NewMaterialsHandler creates the handler for /materials.
func NewMaterialsHandler(service services.MaterialService, prefix string, logger *zap.Logger) *DeliverableHandler[models.Material, models.MaterialInput] {
	return newDeliverableHandler[models.Material, models.MaterialInput](service, "materials", prefix, logger)
}

// NewPublicationsHandler creates the handler for /publications.
func NewPublicationsHandler(service services.PublicationService, prefix string, logger *zap.Logger) *DeliverableHandler[models.Publication, models.PublicationInput] {
	return newDeliverableHandler[models.Publication, models.PublicationInput](service, "publications", prefix, logger)
}

func newDeliverableHandler[T, In any](service deliverableService[T, In], path, prefix string, logger *zap.Logger) *DeliverableHandler[T, In] {
	return &DeliverableHandler[T, In]{
		service: service,
		res:     newResource(path),
		prefix:  prefix,
		logger:  logger.Named(path),
	}
}

// RegisterRoutes registers the direct and project-scoped routes on the given mux.
func (h *DeliverableHandler[T, In]) RegisterRoutes(mux *http.ServeMux, mw RouteMiddleware) {
	base := h.prefix + "/" + h.res.Path
	handleCollection(mux, "GET", base, mw.Protected(h.List))
	handleCollection(mux, "POST", base, mw.Protected(h.Create))
	mux.HandleFunc("GET "+base+"/{id}", mw.Protected(h.Get))
	mux.HandleFunc("PUT "+base+"/{id}", mw.Protected(h.Update))
	mux.HandleFunc("DELETE "+base+"/{id}", mw.Protected(h.Delete))

	nested := h.prefix + "/projects/{pid}/" + h.res.Path
	handleCollection(mux, "GET", nested, mw.Protected(h.ListForProject))
	handleCollection(mux, "POST", nested, mw.Protected(h.CreateForProject))
	mux.HandleFunc("PUT "+nested+"/{id}", mw.Protected(h.UpdateForProject))
	mux.HandleFunc("DELETE "+nested+"/{id}", mw.Protected(h.DeleteForProject))
}

func (h *DeliverableHandler[T, In]) List(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := parsePagination(w, r, h.logger)
	if !ok {
		return
	}
	items, err := h.service.List(r.Context(), offset, limit)
	if err != nil {
		writeServiceError(w, h.logger, err, "list "+h.res.Path)
		return
	}
	respond(w, h.logger, http.StatusOK, items)
}

func (h *DeliverableHandler[T, In]) Create(w http.ResponseWriter, r *http.Request) {
	var in In
	if !decodeJSON(w, r, &in, h.logger) {
		return
	}
	item, err := h.service.Create(r.Context(), &in)
	if err != nil {
		writeServiceError(w, h.logger, err, "create "+h.res.singular())
		return
	}
	respond(w, h.logger, http.StatusOK, item)
}

func (h *DeliverableHandler[T, In]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "get "+h.res.singular())
		return
	}
	respond(w, h.logger, http.StatusOK, item)
}

func (h *DeliverableHandler[T, In]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	var in In
	if !decodeJSON(w, r, &in, h.logger) {
		return
	}
	item, err := h.service.Update(r.Context(), id, &in)
	if err != nil {
		writeServiceError(w, h.logger, err, "update "+h.res.singular())
		return
	}
	respond(w, h.logger, http.StatusOK, item)
}

func (h *DeliverableHandler[T, In]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "delete "+h.res.singular())
		return
	}
	respond(w, h.logger, http.StatusOK, h.res.deletedMessage())
}

func (h *DeliverableHandler[T, In]) ListForProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r, "pid", "Project", h.logger)
	if !ok {
		return
	}
	items, err := h.service.ListForProject(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, h.logger, err, "list "+h.res.Path)
		return
	}
	respond(w, h.logger, http.StatusOK, items)
}

func (h *DeliverableHandler[T, In]) CreateForProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r, "pid", "Project", h.logger)
	if !ok {
		return
	}
	var in In
	if !decodeJSON(w, r, &in, h.logger) {
		return
	}
	item, err := h.service.CreateForProject(r.Context(), projectID, &in)
	if err != nil {
		writeServiceError(w, h.logger, err, "create "+h.res.singular())
		return
	}
	respond(w, h.logger, http.StatusOK, item)
}

func (h *DeliverableHandler[T, In]) UpdateForProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r, "pid", "Project", h.logger)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	var in In
	if !decodeJSON(w, r, &in, h.logger) {
		return
	}
	item, err := h.service.UpdateForProject(r.Context(), projectID, id, &in)
	if err != nil {
		writeServiceError(w, h.logger, err, "update "+h.res.singular())
		return
	}
	respond(w, h.logger, http.StatusOK, item)
}

func (h *DeliverableHandler[T, In]) DeleteForProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r, "pid", "Project", h.logger)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	if err := h.service.DeleteForProject(r.Context(), projectID, id); err != nil {
		writeServiceError(w, h.logger, err, "delete "+h.res.singular())
		return
	}
	respond(w, h.logger, http.StatusOK, h.res.deletedMessage())
}
