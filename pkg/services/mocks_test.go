package services

import (
	"context"
	"errors"
	"maps"
	"sort"
	"strings"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/repositories"
)

// memStore backs every in-memory repository used by the service tests.
// Rows are stored as copies so callers cannot mutate them without Update.
type memStore struct {
	nextID             int64
	users              map[int64]*models.User
	influencers        map[int64]*models.Influencer
	projects           map[int64]*models.Project
	projectInfluencers map[int64]*models.ProjectInfluencer
	scenarios          map[int64]*models.Scenario
	materials          map[int64]*models.Material
	publications       map[int64]*models.Publication
	comments           map[int64]*models.Comment
	activities         map[int64]*models.Activity

	// failActivity makes the next activity insert fail.
	failActivity error
}

func newMemStore() *memStore {
	return &memStore{
		users:              make(map[int64]*models.User),
		influencers:        make(map[int64]*models.Influencer),
		projects:           make(map[int64]*models.Project),
		projectInfluencers: make(map[int64]*models.ProjectInfluencer),
		scenarios:          make(map[int64]*models.Scenario),
		materials:          make(map[int64]*models.Material),
		publications:       make(map[int64]*models.Publication),
		comments:           make(map[int64]*models.Comment),
		activities:         make(map[int64]*models.Activity),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) snapshot() *memStore {
	return &memStore{
		nextID:             s.nextID,
		users:              maps.Clone(s.users),
		influencers:        maps.Clone(s.influencers),
		projects:           maps.Clone(s.projects),
		projectInfluencers: maps.Clone(s.projectInfluencers),
		scenarios:          maps.Clone(s.scenarios),
		materials:          maps.Clone(s.materials),
		publications:       maps.Clone(s.publications),
		comments:           maps.Clone(s.comments),
		activities:         maps.Clone(s.activities),
	}
}

func (s *memStore) restore(snap *memStore) {
	s.nextID = snap.nextID
	s.users = snap.users
	s.influencers = snap.influencers
	s.projects = snap.projects
	s.projectInfluencers = snap.projectInfluencers
	s.scenarios = snap.scenarios
	s.materials = snap.materials
	s.publications = snap.publications
	s.comments = snap.comments
	s.activities = snap.activities
}

func (s *memStore) addUser(username, role string) *models.User {
	u := &models.User{ID: s.id(), Username: username, Name: username, Role: role}
	s.users[u.ID] = u
	cp := *u
	return &cp
}

func (s *memStore) addInfluencer(userID, managerID int64, nickname string) *models.Influencer {
	inf := &models.Influencer{ID: s.id(), UserID: userID, ManagerID: managerID, Nickname: nickname}
	s.influencers[inf.ID] = inf
	cp := *inf
	return &cp
}

func (s *memStore) addProject(title string, managerID int64, stage string) *models.Project {
	p := &models.Project{
		ID:            s.id(),
		Title:         title,
		Client:        "Acme",
		ManagerID:     managerID,
		Status:        models.ProjectStatusActive,
		WorkflowStage: stage,
	}
	s.projects[p.ID] = p
	cp := *p
	return &cp
}

// activitiesFor returns a project's activities in insertion order.
func (s *memStore) activitiesFor(projectID int64) []*models.Activity {
	var out []*models.Activity
	for _, a := range sortedValues(s.activities) {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out
}

func activityTypes(activities []*models.Activity) []string {
	types := make([]string, 0, len(activities))
	for _, a := range activities {
		types = append(types, a.ActivityType)
	}
	return types
}

func sortedValues[T any](m map[int64]*T) []*T {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]*T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func page[T any](items []*T, offset, limit int) []*T {
	if offset >= len(items) {
		return []*T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

func get[T any](m map[int64]*T, id int64, entity string) (*T, error) {
	v, ok := m[id]
	if !ok {
		return nil, apperrors.NotFound(entity)
	}
	cp := *v
	return &cp, nil
}

func put[T any](m map[int64]*T, id int64, v *T, entity string) error {
	if _, ok := m[id]; !ok {
		return apperrors.NotFound(entity)
	}
	cp := *v
	m[id] = &cp
	return nil
}

func del[T any](m map[int64]*T, id int64, entity string) error {
	if _, ok := m[id]; !ok {
		return apperrors.NotFound(entity)
	}
	delete(m, id)
	return nil
}

// memTx rolls the store back when fn fails, like a database transaction.
type memTx struct {
	store *memStore
	calls int
}

func (t *memTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------

type memUserRepo struct{ s *memStore }

var _ repositories.UserRepository = (*memUserRepo)(nil)

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return apperrors.Conflict("Username already registered")
		}
	}
	user.ID = r.s.id()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return get(r.s.users, id, "User")
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("User")
}

func (r *memUserRepo) List(ctx context.Context, offset, limit int) ([]*models.User, error) {
	return page(sortedValues(r.s.users), offset, limit), nil
}

type memInfluencerRepo struct{ s *memStore }

var _ repositories.InfluencerRepository = (*memInfluencerRepo)(nil)

func (r *memInfluencerRepo) Create(ctx context.Context, inf *models.Influencer) error {
	for _, existing := range r.s.influencers {
		if existing.UserID == inf.UserID {
			return apperrors.Conflict("User already has an influencer profile")
		}
	}
	inf.ID = r.s.id()
	cp := *inf
	r.s.influencers[inf.ID] = &cp
	return nil
}

func (r *memInfluencerRepo) Get(ctx context.Context, id int64) (*models.Influencer, error) {
	return get(r.s.influencers, id, "Influencer")
}

func (r *memInfluencerRepo) GetByUserID(ctx context.Context, userID int64) (*models.Influencer, error) {
	for _, inf := range r.s.influencers {
		if inf.UserID == userID {
			cp := *inf
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("Influencer")
}

func (r *memInfluencerRepo) List(ctx context.Context, managerID *int64, offset, limit int) ([]*models.Influencer, error) {
	var out []*models.Influencer
	for _, inf := range sortedValues(r.s.influencers) {
		if managerID == nil || inf.ManagerID == *managerID {
			out = append(out, inf)
		}
	}
	return page(out, offset, limit), nil
}

func (r *memInfluencerRepo) Update(ctx context.Context, inf *models.Influencer) error {
	return put(r.s.influencers, inf.ID, inf, "Influencer")
}

func (r *memInfluencerRepo) Delete(ctx context.Context, id int64) error {
	return del(r.s.influencers, id, "Influencer")
}

type memProjectRepo struct {
	s       *memStore
	updates int
}

var _ repositories.ProjectRepository = (*memProjectRepo)(nil)

func (r *memProjectRepo) Create(ctx context.Context, p *models.Project) error {
	p.ID = r.s.id()
	cp := *p
	r.s.projects[p.ID] = &cp
	return nil
}

func (r *memProjectRepo) Get(ctx context.Context, id int64) (*models.Project, error) {
	return get(r.s.projects, id, "Project")
}

func (r *memProjectRepo) GetForUpdate(ctx context.Context, id int64) (*models.Project, error) {
	return get(r.s.projects, id, "Project")
}

func (r *memProjectRepo) List(ctx context.Context, filter models.ProjectFilter, offset, limit int) ([]*models.Project, error) {
	var out []*models.Project
	search := strings.ToLower(filter.Search)
	for _, p := range sortedValues(r.s.projects) {
		if filter.ManagerID != nil && p.ManagerID != *filter.ManagerID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Client), search) {
			continue
		}
		out = append(out, p)
	}
	return page(out, offset, limit), nil
}

func (r *memProjectRepo) Update(ctx context.Context, p *models.Project) error {
	r.updates++
	return put(r.s.projects, p.ID, p, "Project")
}

func (r *memProjectRepo) UpdateStage(ctx context.Context, id int64, stage string) error {
	p, ok := r.s.projects[id]
	if !ok {
		return apperrors.NotFound("Project")
	}
	cp := *p
	cp.WorkflowStage = stage
	r.s.projects[id] = &cp
	return nil
}

func (r *memProjectRepo) Delete(ctx context.Context, id int64) error {
	if err := del(r.s.projects, id, "Project"); err != nil {
		return err
	}
	for sid, sc := range r.s.scenarios {
		if sc.ProjectID == id {
			delete(r.s.scenarios, sid)
		}
	}
	return nil
}

type memProjectInfluencerRepo struct{ s *memStore }

var _ repositories.ProjectInfluencerRepository = (*memProjectInfluencerRepo)(nil)

func (r *memProjectInfluencerRepo) Create(ctx context.Context, pi *models.ProjectInfluencer) error {
	for _, existing := range r.s.projectInfluencers {
		if existing.ProjectID == pi.ProjectID && existing.InfluencerID == pi.InfluencerID {
			return apperrors.Conflict("Influencer already assigned to project")
		}
	}
	pi.ID = r.s.id()
	cp := *pi
	r.s.projectInfluencers[pi.ID] = &cp
	return nil
}

func (r *memProjectInfluencerRepo) Get(ctx context.Context, projectID, influencerID int64) (*models.ProjectInfluencer, error) {
	for _, pi := range r.s.projectInfluencers {
		if pi.ProjectID == projectID && pi.InfluencerID == influencerID {
			cp := *pi
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("Project influencer")
}

func (r *memProjectInfluencerRepo) ListByProject(ctx context.Context, projectID int64) ([]*models.ProjectInfluencer, error) {
	var out []*models.ProjectInfluencer
	for _, pi := range sortedValues(r.s.projectInfluencers) {
		if pi.ProjectID == projectID {
			out = append(out, pi)
		}
	}
	return out, nil
}

func (r *memProjectInfluencerRepo) ListByInfluencer(ctx context.Context, influencerID int64) ([]*models.ProjectInfluencer, error) {
	var out []*models.ProjectInfluencer
	for _, pi := range sortedValues(r.s.projectInfluencers) {
		if pi.InfluencerID == influencerID {
			out = append(out, pi)
		}
	}
	return out, nil
}

func (r *memProjectInfluencerRepo) Update(ctx context.Context, pi *models.ProjectInfluencer) error {
	return put(r.s.projectInfluencers, pi.ID, pi, "Project influencer")
}

type memScenarioRepo struct{ s *memStore }

var _ repositories.ScenarioRepository = (*memScenarioRepo)(nil)

func (r *memScenarioRepo) Create(ctx context.Context, sc *models.Scenario) error {
	sc.ID = r.s.id()
	cp := *sc
	r.s.scenarios[sc.ID] = &cp
	return nil
}

func (r *memScenarioRepo) Get(ctx context.Context, id int64) (*models.Scenario, error) {
	return get(r.s.scenarios, id, "Scenario")
}

func (r *memScenarioRepo) List(ctx context.Context, offset, limit int) ([]*models.Scenario, error) {
	return page(sortedValues(r.s.scenarios), offset, limit), nil
}

func (r *memScenarioRepo) ListByProject(ctx context.Context, projectID int64) ([]*models.Scenario, error) {
	var out []*models.Scenario
	for _, sc := range sortedValues(r.s.scenarios) {
		if sc.ProjectID == projectID {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (r *memScenarioRepo) Update(ctx context.Context, sc *models.Scenario) error {
	return put(r.s.scenarios, sc.ID, sc, "Scenario")
}

func (r *memScenarioRepo) Delete(ctx context.Context, id int64) error {
	return del(r.s.scenarios, id, "Scenario")
}

type memMaterialRepo struct{ s *memStore }

var _ repositories.MaterialRepository = (*memMaterialRepo)(nil)

func (r *memMaterialRepo) Create(ctx context.Context, m *models.Material) error {
	m.ID = r.s.id()
	cp := *m
	r.s.materials[m.ID] = &cp
	return nil
}

func (r *memMaterialRepo) Get(ctx context.Context, id int64) (*models.Material, error) {
	return get(r.s.materials, id, "Material")
}

func (r *memMaterialRepo) List(ctx context.Context, offset, limit int) ([]*models.Material, error) {
	return page(sortedValues(r.s.materials), offset, limit), nil
}

func (r *memMaterialRepo) ListByProject(ctx context.Context, projectID int64) ([]*models.Material, error) {
	var out []*models.Material
	for _, m := range sortedValues(r.s.materials) {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMaterialRepo) Update(ctx context.Context, m *models.Material) error {
	return put(r.s.materials, m.ID, m, "Material")
}

func (r *memMaterialRepo) Delete(ctx context.Context, id int64) error {
	return del(r.s.materials, id, "Material")
}

type memPublicationRepo struct{ s *memStore }

var _ repositories.PublicationRepository = (*memPublicationRepo)(nil)

func (r *memPublicationRepo) Create(ctx context.Context, p *models.Publication) error {
	p.ID = r.s.id()
	cp := *p
	r.s.publications[p.ID] = &cp
	return nil
}

func (r *memPublicationRepo) Get(ctx context.Context, id int64) (*models.Publication, error) {
	return get(r.s.publications, id, "Publication")
}

func (r *memPublicationRepo) List(ctx context.Context, offset, limit int) ([]*models.Publication, error) {
	return page(sortedValues(r.s.publications), offset, limit), nil
}

func (r *memPublicationRepo) ListByProject(ctx context.Context, projectID int64) ([]*models.Publication, error) {
	var out []*models.Publication
	for _, p := range sortedValues(r.s.publications) {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPublicationRepo) Update(ctx context.Context, p *models.Publication) error {
	return put(r.s.publications, p.ID, p, "Publication")
}

func (r *memPublicationRepo) Delete(ctx context.Context, id int64) error {
	return del(r.s.publications, id, "Publication")
}

type memCommentRepo struct{ s *memStore }

var _ repositories.CommentRepository = (*memCommentRepo)(nil)

func (r *memCommentRepo) Create(ctx context.Context, c *models.Comment) error {
	c.ID = r.s.id()
	cp := *c
	r.s.comments[c.ID] = &cp
	return nil
}

func (r *memCommentRepo) Get(ctx context.Context, id int64) (*models.Comment, error) {
	return get(r.s.comments, id, "Comment")
}

func (r *memCommentRepo) List(ctx context.Context, offset, limit int) ([]*models.Comment, error) {
	return page(sortedValues(r.s.comments), offset, limit), nil
}

func (r *memCommentRepo) ListByProject(ctx context.Context, projectID int64) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range sortedValues(r.s.comments) {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCommentRepo) Delete(ctx context.Context, id int64) error {
	return del(r.s.comments, id, "Comment")
}

type memActivityRepo struct{ s *memStore }

var _ repositories.ActivityRepository = (*memActivityRepo)(nil)

func (r *memActivityRepo) Create(ctx context.Context, a *models.Activity) error {
	if err := r.s.failActivity; err != nil {
		r.s.failActivity = nil
		return err
	}
	a.ID = r.s.id()
	cp := *a
	r.s.activities[a.ID] = &cp
	return nil
}

func (r *memActivityRepo) Get(ctx context.Context, id int64) (*models.Activity, error) {
	return get(r.s.activities, id, "Activity")
}

func (r *memActivityRepo) List(ctx context.Context, offset, limit int) ([]*models.Activity, error) {
	return page(sortedValues(r.s.activities), offset, limit), nil
}

func (r *memActivityRepo) ListByProject(ctx context.Context, projectID int64, offset, limit int) ([]*models.Activity, error) {
	all := r.s.activitiesFor(projectID)
	newest := make([]*models.Activity, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		newest = append(newest, all[i])
	}
	return page(newest, offset, limit), nil
}

func (r *memActivityRepo) ListRecent(ctx context.Context, limit int) ([]*models.Activity, error) {
	all := sortedValues(r.s.activities)
	newest := make([]*models.Activity, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		newest = append(newest, all[i])
	}
	return page(newest, 0, limit), nil
}

var errStorage = errors.New("connection reset by peer")
