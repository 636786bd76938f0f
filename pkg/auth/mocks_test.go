package auth

import (
	"context"
	"sync"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// memUserRepo is an in-memory UserRepository for testing.
type memUserRepo struct {
	mu     sync.Mutex
	users  []*models.User
	nextID int64
	getErr error
}

func (m *memUserRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return apperrors.Conflict("Username already registered")
		}
	}
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.users = append(m.users, &cp)
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("User")
}

func (m *memUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("User")
}

func (m *memUserRepo) List(ctx context.Context, offset, limit int) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users, nil
}

// memInfluencerRepo records created influencer profiles.
type memInfluencerRepo struct {
	created   []*models.Influencer
	createErr error
}

func (m *memInfluencerRepo) Create(ctx context.Context, inf *models.Influencer) error {
	if m.createErr != nil {
		return m.createErr
	}
	inf.ID = int64(len(m.created) + 1)
	m.created = append(m.created, inf)
	return nil
}

func (m *memInfluencerRepo) Get(ctx context.Context, id int64) (*models.Influencer, error) {
	return nil, apperrors.NotFound("Influencer")
}

func (m *memInfluencerRepo) GetByUserID(ctx context.Context, userID int64) (*models.Influencer, error) {
	return nil, apperrors.NotFound("Influencer")
}

func (m *memInfluencerRepo) List(ctx context.Context, managerID *int64, offset, limit int) ([]*models.Influencer, error) {
	return m.created, nil
}

func (m *memInfluencerRepo) Update(ctx context.Context, inf *models.Influencer) error {
	return nil
}

func (m *memInfluencerRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

// passthroughTx runs fn directly and counts calls.
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}
