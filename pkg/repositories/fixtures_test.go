//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/testhelpers"
)

// repoTestContext holds a clean database and a scoped context for one test.
type repoTestContext struct {
	t   *testing.T
	ctx context.Context
}

func setupRepoTest(t *testing.T) *repoTestContext {
	t.Helper()
	engineDB := testhelpers.GetEngineDB(t)
	engineDB.Reset(t)
	return &repoTestContext{t: t, ctx: engineDB.ScopedContext(t)}
}

func (tc *repoTestContext) createUser(username, role string) *models.User {
	tc.t.Helper()
	user := &models.User{
		Username:     username,
		PasswordHash: "hash",
		Name:         username,
		Role:         role,
	}
	require.NoError(tc.t, NewUserRepository().Create(tc.ctx, user))
	return user
}

func (tc *repoTestContext) createInfluencer(user, manager *models.User) *models.Influencer {
	tc.t.Helper()
	inf := &models.Influencer{UserID: user.ID, ManagerID: manager.ID, Nickname: user.Username}
	require.NoError(tc.t, NewInfluencerRepository().Create(tc.ctx, inf))
	return inf
}

func (tc *repoTestContext) createProject(title, status, stage string, manager *models.User) *models.Project {
	tc.t.Helper()
	p := &models.Project{
		Title:         title,
		Client:        "Acme",
		Status:        status,
		WorkflowStage: stage,
		ManagerID:     manager.ID,
	}
	require.NoError(tc.t, NewProjectRepository().Create(tc.ctx, p))
	return p
}

func strPtr(s string) *string {
	return &s
}
