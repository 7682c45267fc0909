package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/workspace-service/internal/domain"
)

// The memory backend keeps each resource in its own guarded collection. It is
// selected when no Postgres DSN is configured and backs the test suite.

type memoryUserRepository struct {
	users *collection[domain.User]
}

// NewMemoryUserRepository returns an in-memory UserRepository.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: newCollection[domain.User]()}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	r.users.insert(user.ID, *user)
	return nil
}

func (r *memoryUserRepository) Update(_ context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	if !r.users.replace(user.ID, *user) {
		return ErrNotFound
	}
	return nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id string) (bool, error) {
	return r.users.remove(id), nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	matches := r.users.find(func(u domain.User) bool { return u.Email == email })
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return &matches[0], nil
}

func (r *memoryUserRepository) ListAll(_ context.Context) ([]domain.User, error) {
	return r.users.snapshot(), nil
}

type memoryTaskRepository struct {
	tasks *collection[domain.Task]
}

// NewMemoryTaskRepository returns an in-memory TaskRepository.
func NewMemoryTaskRepository() TaskRepository {
	return &memoryTaskRepository{tasks: newCollection[domain.Task]()}
}

func (r *memoryTaskRepository) Create(_ context.Context, task *domain.Task) error {
	stamp(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	r.tasks.insert(task.ID, *task)
	return nil
}

func (r *memoryTaskRepository) Update(_ context.Context, task *domain.Task) error {
	task.UpdatedAt = time.Now().UTC()
	if !r.tasks.replace(task.ID, *task) {
		return ErrNotFound
	}
	return nil
}

func (r *memoryTaskRepository) Delete(_ context.Context, id string) (bool, error) {
	return r.tasks.remove(id), nil
}

func (r *memoryTaskRepository) GetByID(_ context.Context, id string) (*domain.Task, error) {
	task, ok := r.tasks.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &task, nil
}

func (r *memoryTaskRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Task, error) {
	return r.tasks.find(func(t domain.Task) bool { return t.OwnerID == ownerID }), nil
}

func (r *memoryTaskRepository) ListAll(_ context.Context) ([]domain.Task, error) {
	return r.tasks.snapshot(), nil
}

type memoryProjectRepository struct {
	projects *collection[domain.Project]
}

// NewMemoryProjectRepository returns an in-memory ProjectRepository.
func NewMemoryProjectRepository() ProjectRepository {
	return &memoryProjectRepository{projects: newCollection[domain.Project]()}
}

func (r *memoryProjectRepository) Create(_ context.Context, project *domain.Project) error {
	stamp(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	r.projects.insert(project.ID, *project)
	return nil
}

func (r *memoryProjectRepository) Update(_ context.Context, project *domain.Project) error {
	project.UpdatedAt = time.Now().UTC()
	if !r.projects.replace(project.ID, *project) {
		return ErrNotFound
	}
	return nil
}

func (r *memoryProjectRepository) Delete(_ context.Context, id string) (bool, error) {
	return r.projects.remove(id), nil
}

func (r *memoryProjectRepository) GetByID(_ context.Context, id string) (*domain.Project, error) {
	project, ok := r.projects.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &project, nil
}

func (r *memoryProjectRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Project, error) {
	return r.projects.find(func(p domain.Project) bool {
		return p.OwnerID == ownerID || p.SharedWith(ownerID)
	}), nil
}

func (r *memoryProjectRepository) ListAll(_ context.Context) ([]domain.Project, error) {
	return r.projects.snapshot(), nil
}

type memoryCategoryRepository struct {
	categories *collection[domain.Category]
}

// NewMemoryCategoryRepository returns an in-memory CategoryRepository.
func NewMemoryCategoryRepository() CategoryRepository {
	return &memoryCategoryRepository{categories: newCollection[domain.Category]()}
}

func (r *memoryCategoryRepository) Create(_ context.Context, category *domain.Category) error {
	stamp(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	r.categories.insert(category.ID, *category)
	return nil
}

func (r *memoryCategoryRepository) Update(_ context.Context, category *domain.Category) error {
	category.UpdatedAt = time.Now().UTC()
	if !r.categories.replace(category.ID, *category) {
		return ErrNotFound
	}
	return nil
}

func (r *memoryCategoryRepository) Delete(_ context.Context, id string) (bool, error) {
	return r.categories.remove(id), nil
}

func (r *memoryCategoryRepository) GetByID(_ context.Context, id string) (*domain.Category, error) {
	category, ok := r.categories.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &category, nil
}

func (r *memoryCategoryRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Category, error) {
	return r.categories.find(func(c domain.Category) bool { return c.OwnerID == ownerID }), nil
}

func (r *memoryCategoryRepository) ListAll(_ context.Context) ([]domain.Category, error) {
	return r.categories.snapshot(), nil
}

type memoryPageRepository struct {
	pages *collection[domain.Page]
}

// NewMemoryPageRepository returns an in-memory PageRepository.
func NewMemoryPageRepository() PageRepository {
	return &memoryPageRepository{pages: newCollection[domain.Page]()}
}

func (r *memoryPageRepository) Create(_ context.Context, page *domain.Page) error {
	stamp(&page.ID, &page.CreatedAt, &page.UpdatedAt)
	r.pages.insert(page.ID, *page)
	return nil
}

func (r *memoryPageRepository) Update(_ context.Context, page *domain.Page) error {
	page.UpdatedAt = time.Now().UTC()
	if !r.pages.replace(page.ID, *page) {
		return ErrNotFound
	}
	return nil
}

func (r *memoryPageRepository) Delete(_ context.Context, id string) (bool, error) {
	return r.pages.remove(id), nil
}

func (r *memoryPageRepository) GetByID(_ context.Context, id string) (*domain.Page, error) {
	page, ok := r.pages.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &page, nil
}

func (r *memoryPageRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Page, error) {
	return r.pages.find(func(p domain.Page) bool { return p.OwnerID == ownerID }), nil
}

func (r *memoryPageRepository) ListAll(_ context.Context) ([]domain.Page, error) {
	return r.pages.snapshot(), nil
}

func stamp(id *string, createdAt, updatedAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}
