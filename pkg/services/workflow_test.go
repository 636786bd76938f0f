package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

func TestWorkflowService_AdvanceStage_RecordsActivity(t *testing.T) {
	env := newTestEnv(WorkflowOptions{})
	project := env.store.addProject("Spring Launch", env.manager.ID, models.StageScenario)

	updated, err := env.workflow.AdvanceStage(env.asManager(), project.ID, "material")
	require.NoError(t, err)
	assert.Equal(t, models.StageMaterial, updated.WorkflowStage)
	assert.Equal(t, models.StageMaterial, env.store.projects[project.ID].WorkflowStage)

	activities := env.store.activitiesFor(project.ID)
	require.Len(t, activities, 1)
	assert.Equal(t, "workflow_to_material", activities[0].ActivityType)
	assert.Contains(t, activities[0].Description, "scenario")
	assert.Contains(t, activities[0].Description, "material")
	require.NotNil(t, activities[0].UserID)
	assert.Equal(t, env.manager.ID, *activities[0].UserID)
}

func TestWorkflowService_AdvanceStage_SameStageStillRecords(t *testing.T) {
	env := newTestEnv(WorkflowOptions{})
	project := env.store.addProject("Spring Launch", env.manager.ID, models.StageMaterial)

	_, err := env.workflow.AdvanceStage(env.asManager(), project.ID, models.StageMaterial)
	require.NoError(t, err)

	assert.Equal(t, []string{"workflow_to_material"}, activityTypes(env.store.activitiesFor(project.ID)))
}

func TestWorkflowService_AdvanceStage_UnknownStage(t *testing.T) {
	env := newTestEnv(WorkflowOptions{})
	project := env.store.addProject("Spring Launch", env.manager.ID, models.StageScenario)

	_, err := env.workflow.AdvanceStage(env.asManager(), project.ID, "done")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, models.StageScenario, env.store.projects[project.ID].WorkflowStage)
	assert.Empty(t, env.store.activitiesFor(project.ID))
}

func TestWorkflowService_AdvanceStage_MissingProject(t *testing.T) {
	env := newTestEnv(WorkflowOptions{})

	_, err := env.workflow.AdvanceStage(env.asManager(), 9999, models.StageMaterial)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, "Project not found", err.Error())
	assert.Empty(t, env.store.activities)
}

func TestWorkflowService_AdvanceStage_RollsBackWhenActivityFails(t *testing.T) {
	env := newTestEnv(WorkflowOptions{})
	project := env.store.addProject("Spring Launch", env.manager.ID, models.StageScenario)
	env.store.failActivity = errStorage

	_, err := env.workflow.AdvanceStage(env.asManager(), project.ID, models.StagePublication)
	require.ErrorIs(t, err, errStorage)

	assert.Equal(t, models.StageScenario, env.store.projects[project.ID].WorkflowStage)
	assert.Empty(t, env.store.activitiesFor(project.ID))
}

func TestWorkflowService_AdvanceStage_LenientAllowsSkipAndRegress(t *testing.T) {
	env := newTestEnv(WorkflowOptions{})
	project := env.store.addProject("Spring Launch", env.manager.ID, models.StageScenario)
	ctx := env.asManager()

	_, err := env.workflow.AdvanceStage(ctx, project.ID, models.StagePublication)
	require.NoError(t, err)
	_, err = env.workflow.AdvanceStage(ctx, project.ID, models.StageScenario)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"workflow_to_publication", "workflow_to_scenario"},
		activityTypes(env.store.activitiesFor(project.ID)))
}

func TestWorkflowService_AdvanceStage_StrictRejectsSkip(t *testing.T) {
	env := newTestEnv(WorkflowOptions{StrictTransitions: true})
	project := env.store.addProject("Spring Launch", env.manager.ID, models.StageScenario)

	_, err := env.workflow.AdvanceStage(env.asManager(), project.ID, models.StagePublication)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	assert.Equal(t, models.StageScenario, env.store.projects[project.ID].WorkflowStage)
	assert.Empty(t, env.store.activitiesFor(project.ID))
}

func TestWorkflowService_AdvanceStage_WithoutCallerLeavesUserEmpty(t *testing.T) {
	env := newTestEnv(WorkflowOptions{})
	project := env.store.addProject("Spring Launch", env.manager.ID, models.StageScenario)

	_, err := env.workflow.AdvanceStage(context.Background(), project.ID, models.StageMaterial)
	require.NoError(t, err)

	activities := env.store.activitiesFor(project.ID)
	require.Len(t, activities, 1)
	assert.Nil(t, activities[0].UserID)
}

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		strict  bool
		wantErr error
	}{
		{"lenient skip", models.StageScenario, models.StagePublication, false, nil},
		{"lenient regress", models.StagePublication, models.StageScenario, false, nil},
		{"strict next", models.StageScenario, models.StageMaterial, true, nil},
		{"strict same", models.StageMaterial, models.StageMaterial, true, nil},
		{"strict skip", models.StageScenario, models.StagePublication, true, apperrors.ErrInvalidTransition},
		{"strict regress", models.StageMaterial, models.StageScenario, true, apperrors.ErrInvalidTransition},
		{"unknown target", models.StageScenario, "archive", false, apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTransition(tt.from, tt.to, tt.strict)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
