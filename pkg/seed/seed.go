package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/auth"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/services"
)

// Loader writes a Dataset through the services. Activities for seeded
// projects are attributed to each project's manager.
type Loader struct {
	Auth               auth.AuthService
	Users              services.UserService
	Influencers        services.InfluencerService
	Projects           services.ProjectService
	Workflow           services.WorkflowService
	ProjectInfluencers services.ProjectInfluencerService
	Scenarios          services.ScenarioService
	Materials          services.MaterialService
	Publications       services.PublicationService
	Comments           services.CommentService
	Tx                 database.Transactor
	Logger             *zap.Logger
	Now                func() time.Time
}

// Result summarizes a Load call.
type Result struct {
	Skipped  bool
	Users    int
	Projects int
}

// loadState tracks the rows created so far, keyed by their dataset names.
type loadState struct {
	users       map[string]*models.User
	influencers map[string]*models.Influencer
}

// Load seeds ds in one transaction. A database that already has users is left
// untouched. ctx must carry a database scope.
func (l *Loader) Load(ctx context.Context, ds *Dataset) (*Result, error) {
	existing, err := l.Users.List(ctx, 0, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if len(existing) > 0 {
		l.Logger.Info("Database already has users, skipping seed")
		return &Result{Skipped: true}, nil
	}

	st := &loadState{
		users:       make(map[string]*models.User),
		influencers: make(map[string]*models.Influencer),
	}
	err = l.Tx.WithTx(ctx, func(ctx context.Context) error {
		if err := l.loadUsers(ctx, ds.Users, st); err != nil {
			return err
		}
		for i := range ds.Projects {
			if err := l.loadProject(ctx, &ds.Projects[i], st); err != nil {
				return fmt.Errorf("project %q: %w", ds.Projects[i].Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.Logger.Info("Seeded database",
		zap.Int("users", len(ds.Users)),
		zap.Int("projects", len(ds.Projects)))
	return &Result{Users: len(ds.Users), Projects: len(ds.Projects)}, nil
}

// loadUsers registers managers before influencers so every influencer's
// manager exists when its profile is created.
func (l *Loader) loadUsers(ctx context.Context, users []User, st *loadState) error {
	ordered := make([]User, 0, len(users))
	for _, u := range users {
		if u.Role != models.RoleInfluencer {
			ordered = append(ordered, u)
		}
	}
	for _, u := range users {
		if u.Role == models.RoleInfluencer {
			ordered = append(ordered, u)
		}
	}

	for _, u := range ordered {
		reg := &models.Registration{
			Username: u.Username,
			Password: u.Password,
			Name:     u.Name,
			Email:    u.Email,
			Role:     u.Role,
		}
		if u.Role == models.RoleInfluencer {
			managerID := st.users[u.Manager].ID
			nickname := u.nickname()
			reg.ManagerID = &managerID
			reg.Nickname = &nickname
		}

		user, err := l.Auth.Register(ctx, reg)
		if err != nil {
			return fmt.Errorf("failed to register %q: %w", u.Username, err)
		}
		st.users[u.Username] = user
		l.Logger.Debug("Seeded user", zap.String("username", user.Username), zap.String("role", user.Role))

		if u.Role != models.RoleInfluencer {
			continue
		}
		inf, err := l.findInfluencer(ctx, st.users[u.Manager], user.ID)
		if err != nil {
			return err
		}
		if u.Profile != nil {
			if inf, err = l.Influencers.Update(ctx, inf.ID, u.Profile.patch()); err != nil {
				return fmt.Errorf("failed to update profile of %q: %w", u.Username, err)
			}
		}
		st.influencers[inf.Nickname] = inf
	}
	return nil
}

// findInfluencer looks up the profile Register created for userID.
func (l *Loader) findInfluencer(ctx context.Context, manager *models.User, userID int64) (*models.Influencer, error) {
	infs, err := l.Influencers.List(ctx, manager, 0, 1000)
	if err != nil {
		return nil, err
	}
	for _, inf := range infs {
		if inf.UserID == userID {
			return inf, nil
		}
	}
	return nil, fmt.Errorf("no influencer profile for user %d", userID)
}

func (l *Loader) loadProject(ctx context.Context, p *Project, st *loadState) error {
	manager := st.users[p.Manager]
	ctx = auth.WithUser(ctx, manager)

	in := &models.ProjectInput{
		Title:       p.Title,
		Client:      p.Client,
		Description: p.Description,
		Budget:      p.Budget,
		Erid:        p.Erid,
		Status:      p.Status,
		ManagerID:   manager.ID,
		Platforms:   p.Platforms,
	}
	if p.DeadlineInDays > 0 {
		deadline := l.now().AddDate(0, 0, p.DeadlineInDays)
		in.Deadline = &deadline
	}
	for _, link := range p.TechnicalLinks {
		in.TechnicalLinks = append(in.TechnicalLinks, models.TechnicalLink{Title: link.Title, URL: link.URL})
	}

	project, err := l.Projects.Create(ctx, in)
	if err != nil {
		return err
	}
	if err := l.advance(ctx, project, p.WorkflowStage); err != nil {
		return err
	}

	for _, a := range p.Influencers {
		inf := st.influencers[a.Nickname]
		if _, err := l.ProjectInfluencers.Assign(ctx, project.ID, inf.ID); err != nil {
			return fmt.Errorf("failed to assign %q: %w", a.Nickname, err)
		}
		progress := &models.StageProgress{
			ScenarioStatus:    a.ScenarioStatus,
			MaterialStatus:    a.MaterialStatus,
			PublicationStatus: a.PublicationStatus,
		}
		if progress.ScenarioStatus == nil && progress.MaterialStatus == nil && progress.PublicationStatus == nil {
			continue
		}
		if _, err := l.ProjectInfluencers.UpdateProgress(ctx, project.ID, inf.ID, progress); err != nil {
			return fmt.Errorf("failed to set progress for %q: %w", a.Nickname, err)
		}
	}

	for _, s := range p.Scenarios {
		if _, err := l.Scenarios.CreateForProject(ctx, project.ID, &models.ScenarioInput{
			InfluencerID: st.influencers[s.Influencer].ID,
			Content:      s.Content,
			GoogleDocURL: s.GoogleDocURL,
			Status:       s.Status,
		}); err != nil {
			return fmt.Errorf("failed to create scenario: %w", err)
		}
	}
	for _, m := range p.Materials {
		if _, err := l.Materials.CreateForProject(ctx, project.ID, &models.MaterialInput{
			InfluencerID:   st.influencers[m.Influencer].ID,
			MaterialURL:    m.MaterialURL,
			GoogleDriveURL: m.GoogleDriveURL,
			Description:    m.Description,
			Status:         m.Status,
		}); err != nil {
			return fmt.Errorf("failed to create material: %w", err)
		}
	}
	for _, pub := range p.Publications {
		if _, err := l.Publications.CreateForProject(ctx, project.ID, &models.PublicationInput{
			InfluencerID:   st.influencers[pub.Influencer].ID,
			Platform:       pub.Platform,
			PublicationURL: pub.PublicationURL,
			Content:        pub.Content,
			Status:         pub.Status,
		}); err != nil {
			return fmt.Errorf("failed to create publication: %w", err)
		}
	}

	for _, c := range p.Comments {
		if _, err := l.Comments.Create(ctx, &models.CommentInput{
			ProjectID: project.ID,
			UserID:    st.users[c.Author].ID,
			Content:   c.Content,
		}); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
	}

	l.Logger.Debug("Seeded project", zap.Int64("project_id", project.ID), zap.String("title", project.Title))
	return nil
}

// advance walks the project forward one stage at a time until it reaches
// target, so the seed also works with strict transitions enabled.
func (l *Loader) advance(ctx context.Context, project *models.Project, target string) error {
	if target == "" {
		return nil
	}
	from, to := models.StageIndex(project.WorkflowStage), models.StageIndex(target)
	for i := from + 1; i <= to; i++ {
		if _, err := l.Workflow.AdvanceStage(ctx, project.ID, models.WorkflowStages[i]); err != nil {
			return fmt.Errorf("failed to advance to %s: %w", models.WorkflowStages[i], err)
		}
	}
	return nil
}

func (l *Loader) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}
