package handler

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/oduppinsjr/rapid-web-ai/internal/apperror"
	"github.com/oduppinsjr/rapid-web-ai/internal/generator"
	"github.com/oduppinsjr/rapid-web-ai/internal/model"
	"github.com/oduppinsjr/rapid-web-ai/internal/repository"
	"gorm.io/datatypes"
)

// memStore is an in-memory repository.Store with the same error contract as GormStore
type memStore struct {
	mu         sync.Mutex
	users      map[string]model.User
	templates  map[string]model.Template
	websites   map[string]model.Website
	subdomains map[string]string

	websiteUpdates int
	failWith       error
}

var _ repository.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]model.User{},
		templates:  map[string]model.Template{},
		websites:   map[string]model.Website{},
		subdomains: map[string]string{},
	}
}

func (s *memStore) GetUser(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	user, ok := s.users[id]
	if !ok {
		return nil, apperror.NotFound("User")
	}
	return &user, nil
}

func (s *memStore) EnsureUser(_ context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.users[user.ID]; ok {
		if user.Email != nil {
			existing.Email = user.Email
		}
		if user.FirstName != nil {
			existing.FirstName = user.FirstName
		}
		if user.LastName != nil {
			existing.LastName = user.LastName
		}
		if user.ProfileImageURL != nil {
			existing.ProfileImageURL = user.ProfileImageURL
		}
		existing.UpdatedAt = time.Now()
		s.users[user.ID] = existing
		return &existing, nil
	}
	stored := *user
	if stored.Plan == "" {
		stored.Plan = model.PlanFree
	}
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.users[user.ID] = stored
	return &stored, nil
}

func (s *memStore) UpdateUserProfile(_ context.Context, id string, update model.ProfileUpdate) (*model.User, error) {
	return s.mutateUser(id, func(u *model.User) {
		if update.FirstName != nil {
			u.FirstName = update.FirstName
		}
		if update.LastName != nil {
			u.LastName = update.LastName
		}
		if update.ProfileImageURL != nil {
			u.ProfileImageURL = update.ProfileImageURL
		}
	})
}

func (s *memStore) UpdateUserPlan(_ context.Context, id string, plan model.Plan) (*model.User, error) {
	return s.mutateUser(id, func(u *model.User) { u.Plan = plan })
}

func (s *memStore) IncrementAIGenerations(_ context.Context, id string) (*model.User, error) {
	return s.mutateUser(id, func(u *model.User) { u.AIGenerationsUsed++ })
}

func (s *memStore) mutateUser(id string, mutate func(*model.User)) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, apperror.NotFound("User")
	}
	mutate(&user)
	user.UpdatedAt = time.Now()
	s.users[id] = user
	return &user, nil
}

func (s *memStore) ListTemplates(_ context.Context, category model.Category) ([]model.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	templates := []model.Template{}
	for _, t := range s.templates {
		if t.IsActive && (category == "" || t.Category == category) {
			templates = append(templates, t)
		}
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].ViewCount > templates[j].ViewCount })
	return templates, nil
}

func (s *memStore) GetTemplate(_ context.Context, id string) (*model.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok {
		return nil, apperror.NotFound("Template")
	}
	return &t, nil
}

func (s *memStore) CreateTemplate(_ context.Context, template *model.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	template.CreatedAt = time.Now()
	s.templates[template.ID] = *template
	return nil
}

func (s *memStore) CountTemplates(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.templates)), nil
}

func (s *memStore) IncrementTemplateViewCount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok {
		return apperror.NotFound("Template")
	}
	t.ViewCount++
	s.templates[id] = t
	return nil
}

func (s *memStore) ListWebsitesByUser(_ context.Context, userID string) ([]model.Website, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	websites := []model.Website{}
	for _, w := range s.websites {
		if w.UserID == userID {
			websites = append(websites, w)
		}
	}
	sort.Slice(websites, func(i, j int) bool { return websites[i].UpdatedAt.After(websites[j].UpdatedAt) })
	return websites, nil
}

func (s *memStore) GetWebsite(_ context.Context, id string) (*model.Website, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.websites[id]
	if !ok {
		return nil, apperror.NotFound("Website")
	}
	return &w, nil
}

func (s *memStore) GetWebsiteBySubdomain(_ context.Context, subdomain string) (*model.Website, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.subdomains[subdomain]
	if !ok {
		return nil, apperror.NotFound("Website")
	}
	w := s.websites[id]
	return &w, nil
}

func (s *memStore) CreateWebsite(_ context.Context, website *model.Website) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.subdomains[website.Subdomain]; taken {
		return apperror.Conflict("Subdomain already taken", nil)
	}
	if website.ID == "" {
		website.ID = uuid.NewString()
	}
	website.CreatedAt = time.Now()
	website.UpdatedAt = website.CreatedAt
	s.websites[website.ID] = *website
	s.subdomains[website.Subdomain] = website.ID
	return nil
}

func (s *memStore) UpdateWebsite(_ context.Context, id string, patch model.WebsitePatch) (*model.Website, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.websites[id]
	if !ok {
		return nil, apperror.NotFound("Website")
	}
	if patch.Subdomain != nil && *patch.Subdomain != w.Subdomain {
		if _, taken := s.subdomains[*patch.Subdomain]; taken {
			return nil, apperror.Conflict("Subdomain already taken", nil)
		}
		delete(s.subdomains, w.Subdomain)
		w.Subdomain = *patch.Subdomain
		s.subdomains[w.Subdomain] = id
	}
	if patch.Name != nil {
		w.Name = *patch.Name
	}
	if patch.CustomDomain != nil {
		w.CustomDomain = nonEmpty(patch.CustomDomain)
	}
	if patch.TemplateID != nil {
		w.TemplateID = nonEmpty(patch.TemplateID)
	}
	if patch.Content != nil {
		w.Content = patch.Content
	}
	if patch.IsPublished != nil {
		w.IsPublished = *patch.IsPublished
	}
	w.UpdatedAt = time.Now()
	s.websites[id] = w
	s.websiteUpdates++
	return &w, nil
}

func (s *memStore) DeleteWebsite(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.websites[id]
	if !ok {
		return apperror.NotFound("Website")
	}
	delete(s.websites, id)
	delete(s.subdomains, w.Subdomain)
	return nil
}

func (s *memStore) user(id string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *memStore) website(id string) (model.Website, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.websites[id]
	return w, ok
}

func (s *memStore) websiteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.websites)
}

func (s *memStore) putUser(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// fakeGenerator returns canned results and counts calls
type fakeGenerator struct {
	website  datatypes.JSON
	modified datatypes.JSON
	content  datatypes.JSON
	err      error
	calls    atomic.Int32
}

var _ generator.Generator = (*fakeGenerator)(nil)

func (g *fakeGenerator) GenerateWebsite(context.Context, generator.WebsiteRequest) (datatypes.JSON, error) {
	g.calls.Add(1)
	if g.err != nil {
		return nil, g.err
	}
	return g.website, nil
}

func (g *fakeGenerator) ModifyWebsite(context.Context, datatypes.JSON, string) (datatypes.JSON, error) {
	g.calls.Add(1)
	if g.err != nil {
		return nil, g.err
	}
	return g.modified, nil
}

func (g *fakeGenerator) GenerateContent(context.Context, string, string) (datatypes.JSON, error) {
	g.calls.Add(1)
	if g.err != nil {
		return nil, g.err
	}
	return g.content, nil
}
