package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/auth"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/services"
)

// ProjectCommentRequest is the body of POST /projects/{id}/comments.
type ProjectCommentRequest struct {
	Content string `json:"content"`
}

// CommentsHandler serves /comments and /projects/{id}/comments.
// Comments have no update endpoint.
type CommentsHandler struct {
	commentService services.CommentService
	res            resource
	prefix         string
	logger         *zap.Logger
}

// NewCommentsHandler creates a new comments handler.
func NewCommentsHandler(commentService services.CommentService, prefix string, logger *zap.Logger) *CommentsHandler {
	return &CommentsHandler{
		commentService: commentService,
		res:            newResource("comments"),
		prefix:         prefix,
		logger:         logger,
	}
}

// RegisterRoutes registers the comments handler's routes on the given mux.
func (h *CommentsHandler) RegisterRoutes(mux *http.ServeMux, mw RouteMiddleware) {
	base := h.prefix + "/" + h.res.Path
	handleCollection(mux, "GET", base, mw.Protected(h.List))
	handleCollection(mux, "POST", base, mw.Protected(h.Create))
	mux.HandleFunc("GET "+base+"/{id}", mw.Protected(h.Get))
	mux.HandleFunc("DELETE "+base+"/{id}", mw.Protected(h.Delete))

	nested := h.prefix + "/projects/{pid}/" + h.res.Path
	handleCollection(mux, "GET", nested, mw.Protected(h.ListForProject))
	handleCollection(mux, "POST", nested, mw.Protected(h.CreateForProject))
}

// List handles GET /comments/
func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := parsePagination(w, r, h.logger)
	if !ok {
		return
	}
	comments, err := h.commentService.List(r.Context(), offset, limit)
	if err != nil {
		writeServiceError(w, h.logger, err, "list comments")
		return
	}
	respond(w, h.logger, http.StatusOK, comments)
}

// Create handles POST /comments/. A missing user_id defaults to the caller.
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CommentInput
	if !decodeJSON(w, r, &in, h.logger) {
		return
	}
	if in.UserID == 0 {
		if user, ok := auth.GetUser(r.Context()); ok {
			in.UserID = user.ID
		}
	}
	comment, err := h.commentService.Create(r.Context(), &in)
	if err != nil {
		writeServiceError(w, h.logger, err, "create comment")
		return
	}
	respond(w, h.logger, http.StatusOK, comment)
}

// Get handles GET /comments/{id}
func (h *CommentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	comment, err := h.commentService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "get comment")
		return
	}
	respond(w, h.logger, http.StatusOK, comment)
}

// Delete handles DELETE /comments/{id}
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	if err := h.commentService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "delete comment")
		return
	}
	respond(w, h.logger, http.StatusOK, h.res.deletedMessage())
}

// ListForProject handles GET /projects/{id}/comments
func (h *CommentsHandler) ListForProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r, "pid", "Project", h.logger)
	if !ok {
		return
	}
	comments, err := h.commentService.ListForProject(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, h.logger, err, "list comments")
		return
	}
	respond(w, h.logger, http.StatusOK, comments)
}

// CreateForProject handles POST /projects/{id}/comments. The author is the caller.
func (h *CommentsHandler) CreateForProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r, "pid", "Project", h.logger)
	if !ok {
		return
	}
	var req ProjectCommentRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	comment, err := h.commentService.CreateForProject(r.Context(), projectID, req.Content)
	if err != nil {
		writeServiceError(w, h.logger, err, "create comment")
		return
	}
	respond(w, h.logger, http.StatusOK, comment)
}
