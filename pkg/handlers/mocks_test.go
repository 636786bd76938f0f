package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/auth"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

var (
	testManager    = &models.User{ID: 1, Username: "anna", Name: "Anna", Role: models.RoleManager}
	testInfluencer = &models.User{ID: 2, Username: "ivan", Name: "Ivan", Role: models.RoleInfluencer}
)

func passthrough(next http.HandlerFunc) http.HandlerFunc {
	return next
}

// asUser returns route middleware that authenticates every request as user.
func asUser(user *models.User) RouteMiddleware {
	wrap := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			next(w, r.WithContext(auth.WithUser(r.Context(), user)))
		}
	}
	return RouteMiddleware{Public: passthrough, Protected: wrap, Manager: wrap}
}

// serve registers routes via register and performs one request.
func serve(register func(*http.ServeMux), method, target, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	register(mux)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// mockProjectService implements services.ProjectService.
type mockProjectService struct {
	project    *models.Project
	projects   []*models.Project
	err        error
	lastFilter models.ProjectFilter
	lastInput  *models.ProjectInput
	lastID     int64
	deleted    []int64
}

func (m *mockProjectService) Create(ctx context.Context, in *models.ProjectInput) (*models.Project, error) {
	m.lastInput = in
	if m.err != nil {
		return nil, m.err
	}
	return &models.Project{ID: 10, Title: in.Title, Client: in.Client, ManagerID: in.ManagerID}, nil
}

func (m *mockProjectService) Get(ctx context.Context, id int64) (*models.Project, error) {
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.project, nil
}

func (m *mockProjectService) List(ctx context.Context, filter models.ProjectFilter, offset, limit int) ([]*models.Project, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.projects, nil
}

func (m *mockProjectService) Update(ctx context.Context, id int64, in *models.ProjectInput) (*models.Project, error) {
	m.lastID, m.lastInput = id, in
	if m.err != nil {
		return nil, m.err
	}
	return &models.Project{ID: id, Title: in.Title}, nil
}

func (m *mockProjectService) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

// mockWorkflowService implements services.WorkflowService.
type mockWorkflowService struct {
	err       error
	projectID int64
	stage     string
}

func (m *mockWorkflowService) AdvanceStage(ctx context.Context, projectID int64, stage string) (*models.Project, error) {
	m.projectID, m.stage = projectID, stage
	if m.err != nil {
		return nil, m.err
	}
	return &models.Project{ID: projectID, WorkflowStage: stage}, nil
}

// mockScenarioService implements services.ScenarioService and records
// which entry point was used.
type mockScenarioService struct {
	err       error
	calls     []string
	projectID int64
	id        int64
	input     *models.ScenarioInput
}

func (m *mockScenarioService) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *mockScenarioService) scenario(in *models.ScenarioInput) (*models.Scenario, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Scenario{ID: 5, ProjectID: in.ProjectID, Content: in.Content, Status: models.StatusPending, Version: 1}, nil
}

func (m *mockScenarioService) Create(ctx context.Context, in *models.ScenarioInput) (*models.Scenario, error) {
	m.record("Create")
	m.input = in
	return m.scenario(in)
}

func (m *mockScenarioService) Get(ctx context.Context, id int64) (*models.Scenario, error) {
	m.record("Get")
	m.id = id
	return m.scenario(&models.ScenarioInput{})
}

func (m *mockScenarioService) List(ctx context.Context, offset, limit int) ([]*models.Scenario, error) {
	m.record("List")
	if m.err != nil {
		return nil, m.err
	}
	return []*models.Scenario{}, nil
}

func (m *mockScenarioService) Update(ctx context.Context, id int64, in *models.ScenarioInput) (*models.Scenario, error) {
	m.record("Update")
	m.id, m.input = id, in
	return m.scenario(in)
}

func (m *mockScenarioService) Delete(ctx context.Context, id int64) error {
	m.record("Delete")
	m.id = id
	return m.err
}

func (m *mockScenarioService) ListForProject(ctx context.Context, projectID int64) ([]*models.Scenario, error) {
	m.record("ListForProject")
	m.projectID = projectID
	if m.err != nil {
		return nil, m.err
	}
	return []*models.Scenario{}, nil
}

func (m *mockScenarioService) CreateForProject(ctx context.Context, projectID int64, in *models.ScenarioInput) (*models.Scenario, error) {
	m.record("CreateForProject")
	m.projectID, m.input = projectID, in
	in.ProjectID = projectID
	return m.scenario(in)
}

func (m *mockScenarioService) UpdateForProject(ctx context.Context, projectID, id int64, in *models.ScenarioInput) (*models.Scenario, error) {
	m.record("UpdateForProject")
	m.projectID, m.id, m.input = projectID, id, in
	return m.scenario(in)
}

func (m *mockScenarioService) DeleteForProject(ctx context.Context, projectID, id int64) error {
	m.record("DeleteForProject")
	m.projectID, m.id = projectID, id
	return m.err
}

// mockCommentService implements services.CommentService.
type mockCommentService struct {
	err       error
	input     *models.CommentInput
	projectID int64
	content   string
}

func (m *mockCommentService) Create(ctx context.Context, in *models.CommentInput) (*models.Comment, error) {
	m.input = in
	if m.err != nil {
		return nil, m.err
	}
	return &models.Comment{ID: 1, ProjectID: in.ProjectID, UserID: in.UserID, Content: in.Content}, nil
}

func (m *mockCommentService) Get(ctx context.Context, id int64) (*models.Comment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Comment{ID: id}, nil
}

func (m *mockCommentService) List(ctx context.Context, offset, limit int) ([]*models.Comment, error) {
	return []*models.Comment{}, m.err
}

func (m *mockCommentService) Delete(ctx context.Context, id int64) error {
	return m.err
}

func (m *mockCommentService) ListForProject(ctx context.Context, projectID int64) ([]*models.Comment, error) {
	m.projectID = projectID
	return []*models.Comment{}, m.err
}

func (m *mockCommentService) CreateForProject(ctx context.Context, projectID int64, content string) (*models.Comment, error) {
	m.projectID, m.content = projectID, content
	if m.err != nil {
		return nil, m.err
	}
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, apperrors.Unauthorized("Could not validate credentials")
	}
	return &models.Comment{ID: 2, ProjectID: projectID, UserID: user.ID, Content: content}, nil
}

// mockActivityService implements services.ActivityService.
type mockActivityService struct {
	err         error
	input       *models.ActivityInput
	recentLimit int
	getCalls    int
	projectID   int64
}

func (m *mockActivityService) Record(ctx context.Context, projectID int64, activityType, description string) error {
	return m.err
}

func (m *mockActivityService) Create(ctx context.Context, in *models.ActivityInput) (*models.Activity, error) {
	m.input = in
	if m.err != nil {
		return nil, m.err
	}
	userID := in.UserID
	return &models.Activity{ID: 1, ProjectID: in.ProjectID, UserID: &userID, ActivityType: in.ActivityType, Description: in.Description}, nil
}

func (m *mockActivityService) Get(ctx context.Context, id int64) (*models.Activity, error) {
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	return &models.Activity{ID: id}, nil
}

func (m *mockActivityService) List(ctx context.Context, offset, limit int) ([]*models.Activity, error) {
	return []*models.Activity{}, m.err
}

func (m *mockActivityService) ListByProject(ctx context.Context, projectID int64, offset, limit int) ([]*models.Activity, error) {
	m.projectID = projectID
	return []*models.Activity{}, m.err
}

func (m *mockActivityService) ListRecent(ctx context.Context, limit int) ([]*models.Activity, error) {
	m.recentLimit = limit
	return []*models.Activity{}, m.err
}

// mockInfluencerService implements services.InfluencerService.
type mockInfluencerService struct {
	err    error
	caller *models.User
	patch  *models.InfluencerPatch
	input  *models.Influencer
}

func (m *mockInfluencerService) Create(ctx context.Context, caller *models.User, inf *models.Influencer) (*models.Influencer, error) {
	m.caller, m.input = caller, inf
	if m.err != nil {
		return nil, m.err
	}
	created := *inf
	created.ID = 7
	return &created, nil
}

func (m *mockInfluencerService) Get(ctx context.Context, id int64) (*models.Influencer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Influencer{ID: id, Nickname: "ivan_creates"}, nil
}

func (m *mockInfluencerService) List(ctx context.Context, caller *models.User, offset, limit int) ([]*models.Influencer, error) {
	m.caller = caller
	return []*models.Influencer{}, m.err
}

func (m *mockInfluencerService) Update(ctx context.Context, id int64, patch *models.InfluencerPatch) (*models.Influencer, error) {
	m.patch = patch
	if m.err != nil {
		return nil, m.err
	}
	inf := &models.Influencer{ID: id, Nickname: "ivan_creates"}
	patch.Apply(inf)
	return inf, nil
}

func (m *mockInfluencerService) Delete(ctx context.Context, id int64) error {
	return m.err
}

// mockProjectInfluencerService implements services.ProjectInfluencerService.
type mockProjectInfluencerService struct {
	err          error
	projectID    int64
	influencerID int64
	progress     *models.StageProgress
}

func (m *mockProjectInfluencerService) List(ctx context.Context, projectID int64) ([]*models.ProjectInfluencer, error) {
	m.projectID = projectID
	return []*models.ProjectInfluencer{}, m.err
}

func (m *mockProjectInfluencerService) Assign(ctx context.Context, projectID, influencerID int64) (*models.ProjectInfluencer, error) {
	m.projectID, m.influencerID = projectID, influencerID
	if m.err != nil {
		return nil, m.err
	}
	return &models.ProjectInfluencer{ID: 1, ProjectID: projectID, InfluencerID: influencerID}, nil
}

func (m *mockProjectInfluencerService) UpdateProgress(ctx context.Context, projectID, influencerID int64, progress *models.StageProgress) (*models.ProjectInfluencer, error) {
	m.projectID, m.influencerID, m.progress = projectID, influencerID, progress
	if m.err != nil {
		return nil, m.err
	}
	return &models.ProjectInfluencer{ID: 1, ProjectID: projectID, InfluencerID: influencerID}, nil
}

// mockStatsService implements services.StatsService.
type mockStatsService struct {
	err    error
	caller *models.User
}

func (m *mockStatsService) ForManager(ctx context.Context, manager *models.User) (*models.ManagerStats, error) {
	m.caller = manager
	if m.err != nil {
		return nil, m.err
	}
	return &models.ManagerStats{ActiveProjects: 2, PendingReviews: 1, PendingReviewsDetails: models.PendingReviews{Scenario: 1}}, nil
}

func (m *mockStatsService) ForInfluencer(ctx context.Context, user *models.User) (*models.InfluencerStats, error) {
	m.caller = user
	if m.err != nil {
		return nil, m.err
	}
	return &models.InfluencerStats{ActiveProjects: 1}, nil
}

// mockAuthService implements auth.AuthService.
type mockAuthService struct {
	user     *models.User
	token    *auth.Token
	err      error
	username string
	password string
	lastReg  *models.Registration
}

func (m *mockAuthService) Register(ctx context.Context, reg *models.Registration) (*models.User, error) {
	m.lastReg = reg
	if m.err != nil {
		return nil, m.err
	}
	return &models.User{ID: 3, Username: reg.Username, Name: reg.Name, Role: reg.Role, PasswordHash: "hash"}, nil
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*auth.Token, error) {
	m.username, m.password = username, password
	if m.err != nil {
		return nil, m.err
	}
	return m.token, nil
}

func (m *mockAuthService) Resolve(ctx context.Context, token string) (*models.User, error) {
	return m.user, m.err
}

func (m *mockAuthService) ValidateRequest(r *http.Request) (*models.User, *auth.Claims, string, error) {
	return m.user, nil, "", m.err
}
