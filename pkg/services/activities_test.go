package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

func TestActivityService_Create_ValidatesReferences(t *testing.T) {
	env := newTestEnv(WorkflowOptions{})
	project := env.store.addProject("Spring Launch", env.manager.ID, models.StageScenario)

	_, err := env.activities.Create(env.asManager(), &models.ActivityInput{
		ProjectID:    9999,
		UserID:       env.manager.ID,
		ActivityType: "note",
		Description:  "Called the client",
	})
	require.Error(t, err)
	assert.Equal(t, "Project not found", err.Error())

	_, err = env.activities.Create(env.asManager(), &models.ActivityInput{
		ProjectID:    project.ID,
		UserID:       9999,
		ActivityType: "note",
		Description:  "Called the client",
	})
	require.Error(t, err)
	assert.Equal(t, "User not found", err.Error())
	assert.Empty(t, env.store.activities)

	_, err = env.activities.Create(env.asManager(), &models.ActivityInput{
		ProjectID: project.ID,
		UserID:    env.manager.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestActivityService_ListByProject_NewestFirst(t *testing.T) {
	env := newTestEnv(WorkflowOptions{})
	ctx := env.asManager()
	project := env.store.addProject("Spring Launch", env.manager.ID, models.StageScenario)

	_, err := env.workflow.AdvanceStage(ctx, project.ID, models.StageMaterial)
	require.NoError(t, err)
	_, err = env.workflow.AdvanceStage(ctx, project.ID, models.StagePublication)
	require.NoError(t, err)

	got, err := env.activities.ListByProject(ctx, project.ID, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"workflow_to_publication", "workflow_to_material"}, activityTypes(got))

	recent, err := env.activities.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"workflow_to_publication"}, activityTypes(recent))

	_, err = env.activities.ListByProject(ctx, 9999, 0, 100)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// Create, stage change and delete, each visible in the log in order.
func TestActivityService_ProjectLifecycle(t *testing.T) {
	env := newTestEnv(WorkflowOptions{})
	ctx := env.asManager()

	project, err := env.projects.Create(ctx, validProjectInput(env.manager.ID))
	require.NoError(t, err)

	log, err := env.activities.ListByProject(ctx, project.ID, 0, 100)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, models.ActivityProjectCreated, log[0].ActivityType)

	advanced, err := env.workflow.AdvanceStage(ctx, project.ID, models.StageMaterial)
	require.NoError(t, err)
	assert.Equal(t, models.StageMaterial, advanced.WorkflowStage)

	log, err = env.activities.ListByProject(ctx, project.ID, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, "workflow_to_material", log[0].ActivityType)

	require.NoError(t, env.projects.Delete(ctx, project.ID))
	_, err = env.projects.Get(ctx, project.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
