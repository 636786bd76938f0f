package repositories

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// ProjectRepository defines the interface for project data access.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	Get(ctx context.Context, id int64) (*models.Project, error)
	// GetForUpdate loads a project and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*models.Project, error)
	List(ctx context.Context, filter models.ProjectFilter, offset, limit int) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	UpdateStage(ctx context.Context, id int64, stage string) error
	Delete(ctx context.Context, id int64) error
}

type projectRepository struct{}

// NewProjectRepository creates a new project repository.
func NewProjectRepository() ProjectRepository {
	return &projectRepository{}
}

const projectColumns = `id, title, client, description, key_requirements, budget, erid,
	start_date, deadline, scenario_deadline, material_deadline, publication_deadline,
	status, workflow_stage, manager_id, technical_links, platforms, created_at`

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	var requirements, links, platforms []byte
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Client,
		&p.Description,
		&requirements,
		&p.Budget,
		&p.Erid,
		&p.StartDate,
		&p.Deadline,
		&p.ScenarioDeadline,
		&p.MaterialDeadline,
		&p.PublicationDeadline,
		&p.Status,
		&p.WorkflowStage,
		&p.ManagerID,
		&links,
		&platforms,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}

	p.KeyRequirements = []string{}
	p.TechnicalLinks = []models.TechnicalLink{}
	p.Platforms = []string{}
	if err := unmarshalJSONB(requirements, &p.KeyRequirements); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(links, &p.TechnicalLinks); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(platforms, &p.Platforms); err != nil {
		return nil, err
	}
	return &p, nil
}

type projectJSON struct {
	requirements, links, platforms []byte
}

func encodeProjectJSON(p *models.Project) (*projectJSON, error) {
	var (
		out projectJSON
		err error
	)
	if out.requirements, err = marshalJSONB(p.KeyRequirements); err != nil {
		return nil, err
	}
	if out.links, err = marshalJSONB(p.TechnicalLinks); err != nil {
		return nil, err
	}
	if out.platforms, err = marshalJSONB(p.Platforms); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create inserts a project. start_date and created_at are set by the database.
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	j, err := encodeProjectJSON(project)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO projects (title, client, description, key_requirements, budget, erid,
			deadline, scenario_deadline, material_deadline, publication_deadline,
			status, workflow_stage, manager_id, technical_links, platforms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, start_date, created_at`

	err = q.QueryRow(ctx, query,
		project.Title,
		project.Client,
		project.Description,
		j.requirements,
		project.Budget,
		project.Erid,
		project.Deadline,
		project.ScenarioDeadline,
		project.MaterialDeadline,
		project.PublicationDeadline,
		project.Status,
		project.WorkflowStage,
		project.ManagerID,
		j.links,
		j.platforms,
	).Scan(&project.ID, &project.StartDate, &project.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *projectRepository) Get(ctx context.Context, id int64) (*models.Project, error) {
	return r.get(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
}

func (r *projectRepository) GetForUpdate(ctx context.Context, id int64) (*models.Project, error) {
	return r.get(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1 FOR UPDATE`, id)
}

func (r *projectRepository) get(ctx context.Context, query string, id int64) (*models.Project, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	project, err := scanProject(q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("Project")
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// List returns projects in insertion order, narrowed by filter.
// Search matches title or client case-insensitively.
func (r *projectRepository) List(ctx context.Context, filter models.ProjectFilter, offset, limit int) ([]*models.Project, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE ($1::bigint IS NULL OR manager_id = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR title ILIKE '%' || $3 || '%' OR client ILIKE '%' || $3 || '%')
		ORDER BY id
		OFFSET $4 LIMIT $5`

	rows, err := q.Query(ctx, query, filter.ManagerID, filter.Status, filter.Search, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return collect(rows, scanProject)
}

// Update overwrites every client-writable column including workflow_stage.
func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	j, err := encodeProjectJSON(project)
	if err != nil {
		return err
	}

	query := `
		UPDATE projects
		SET title = $2, client = $3, description = $4, key_requirements = $5,
		    budget = $6, erid = $7, deadline = $8, scenario_deadline = $9,
		    material_deadline = $10, publication_deadline = $11, status = $12,
		    workflow_stage = $13, manager_id = $14, technical_links = $15, platforms = $16
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		project.ID,
		project.Title,
		project.Client,
		project.Description,
		j.requirements,
		project.Budget,
		project.Erid,
		project.Deadline,
		project.ScenarioDeadline,
		project.MaterialDeadline,
		project.PublicationDeadline,
		project.Status,
		project.WorkflowStage,
		project.ManagerID,
		j.links,
		j.platforms,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Project")
	}
	return nil
}

func (r *projectRepository) UpdateStage(ctx context.Context, id int64, stage string) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `UPDATE projects SET workflow_stage = $2 WHERE id = $1`, id, stage)
	if err != nil {
		return fmt.Errorf("failed to update workflow stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Project")
	}
	return nil
}

// Delete removes a project. Scenarios, materials, publications, comments and
// assignments cascade; activities are kept.
func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Project")
	}
	return nil
}

var _ ProjectRepository = (*projectRepository)(nil)
