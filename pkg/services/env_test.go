package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/auth"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// testEnv wires every service over one memStore.
type testEnv struct {
	store *memStore
	tx    *memTx

	users              *memUserRepo
	projectsRepo       *memProjectRepo
	activities         ActivityService
	workflow           WorkflowService
	projects           ProjectService
	scenarios          ScenarioService
	materials          MaterialService
	publications       PublicationService
	comments           CommentService
	influencers        InfluencerService
	projectInfluencers ProjectInfluencerService

	manager    *models.User
	influencer *models.Influencer
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestEnv(opts WorkflowOptions) *testEnv {
	store := newMemStore()
	tx := &memTx{store: store}
	logger := zap.NewNop()

	users := &memUserRepo{s: store}
	projects := &memProjectRepo{s: store}
	influencers := &memInfluencerRepo{s: store}

	env := &testEnv{store: store, tx: tx, users: users, projectsRepo: projects}
	env.activities = NewActivityService(&memActivityRepo{s: store}, projects, users, tx, logger)
	env.workflow = NewWorkflowService(projects, env.activities, tx, opts, logger)
	env.projects = NewProjectService(projects, users, env.activities, env.workflow, tx, logger)
	env.influencers = NewInfluencerService(influencers, users, tx, logger)
	env.comments = NewCommentService(&memCommentRepo{s: store}, projects, users, tx, logger)

	scenarios := NewScenarioService(&memScenarioRepo{s: store}, projects, influencers, env.activities, tx, logger).(*scenarioService)
	scenarios.now = func() time.Time { return fixedNow }
	env.scenarios = scenarios

	materials := NewMaterialService(&memMaterialRepo{s: store}, projects, influencers, env.activities, tx, logger).(*materialService)
	materials.now = func() time.Time { return fixedNow }
	env.materials = materials

	publications := NewPublicationService(&memPublicationRepo{s: store}, projects, influencers, env.activities, tx, logger).(*publicationService)
	publications.now = func() time.Time { return fixedNow }
	env.publications = publications

	pis := NewProjectInfluencerService(&memProjectInfluencerRepo{s: store}, projects, influencers, env.activities, tx, logger).(*projectInfluencerService)
	pis.now = func() time.Time { return fixedNow }
	env.projectInfluencers = pis

	env.manager = store.addUser("anna", models.RoleManager)
	creator := store.addUser("ivan", models.RoleInfluencer)
	env.influencer = store.addInfluencer(creator.ID, env.manager.ID, "ivan_creates")
	return env
}

// asManager returns a context acting as the environment's manager.
func (e *testEnv) asManager() context.Context {
	return auth.WithUser(context.Background(), e.manager)
}
