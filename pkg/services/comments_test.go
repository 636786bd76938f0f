package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

func TestCommentService_Create_ChecksProjectThenUser(t *testing.T) {
	env := newTestEnv(WorkflowOptions{})
	project := env.store.addProject("Spring Launch", env.manager.ID, models.StageScenario)

	_, err := env.comments.Create(context.Background(), &models.CommentInput{
		ProjectID: 9999,
		UserID:    9998,
		Content:   "Looks good",
	})
	require.Error(t, err)
	assert.Equal(t, "Project not found", err.Error())

	_, err = env.comments.Create(context.Background(), &models.CommentInput{
		ProjectID: project.ID,
		UserID:    9998,
		Content:   "Looks good",
	})
	require.Error(t, err)
	assert.Equal(t, "User not found", err.Error())
	assert.Empty(t, env.store.comments)
}

func TestCommentService_CreateForProject_UsesCaller(t *testing.T) {
	env := newTestEnv(WorkflowOptions{})
	project := env.store.addProject("Spring Launch", env.manager.ID, models.StageScenario)

	comment, err := env.comments.CreateForProject(env.asManager(), project.ID, "Please add the promo code")
	require.NoError(t, err)
	assert.Equal(t, env.manager.ID, comment.UserID)

	listed, err := env.comments.ListForProject(env.asManager(), project.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, comment.ID, listed[0].ID)
}

func TestCommentService_CreateForProject_RequiresCaller(t *testing.T) {
	env := newTestEnv(WorkflowOptions{})
	project := env.store.addProject("Spring Launch", env.manager.ID, models.StageScenario)

	_, err := env.comments.CreateForProject(context.Background(), project.ID, "anonymous")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestCommentService_DeleteThenGet(t *testing.T) {
	env := newTestEnv(WorkflowOptions{})
	ctx := env.asManager()
	project := env.store.addProject("Spring Launch", env.manager.ID, models.StageScenario)

	comment, err := env.comments.CreateForProject(ctx, project.ID, "temporary")
	require.NoError(t, err)
	require.NoError(t, env.comments.Delete(ctx, comment.ID))

	_, err = env.comments.Get(ctx, comment.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, env.comments.Delete(ctx, comment.ID), apperrors.ErrNotFound)
}
