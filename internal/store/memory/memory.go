// Package memory keeps users, projects and files in process memory. It
// implements the same repository contracts as the postgres store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/pkg/structure"
	"github.com/superbullet/superbullet/pkg/utils/pagination"
)

type Store struct {
	mu       sync.Mutex
	users    map[string]domain.User
	projects map[string]domain.Project
	files    map[string]domain.File
	now      func() time.Time
}

func New() *Store {
	return &Store{
		users:    map[string]domain.User{},
		projects: map[string]domain.Project{},
		files:    map[string]domain.File{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) CreateUser(_ context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return domain.User{}, domain.ErrUserExists
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt

	s.users[user.ID] = user

	return user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}

	return domain.User{}, domain.ErrUserNotFound
}

func (s *Store) GetUserByID(_ context.Context, id string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}

	return user, nil
}

func (s *Store) ListProjects(_ context.Context, userID string, page pagination.Params) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := []domain.Project{}
	for _, project := range s.projects {
		if project.UserID == userID {
			owned = append(owned, copyProject(project))
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		return owned[i].UpdatedAt.After(owned[j].UpdatedAt)
	})

	if page.Offset >= len(owned) {
		return []domain.Project{}, nil
	}
	owned = owned[page.Offset:]

	if page.Limit > 0 && page.Limit < len(owned) {
		owned = owned[:page.Limit]
	}

	return owned, nil
}

func (s *Store) CreateProject(_ context.Context, project domain.Project) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	if project.Structure == nil {
		project.Structure = structure.Structure{}
	}
	project.CreatedAt = s.now()
	project.UpdatedAt = project.CreatedAt
	project.Files = nil

	s.projects[project.ID] = copyProject(project)

	return copyProject(project), nil
}

func (s *Store) GetProject(_ context.Context, userID, projectID string) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.ownedProject(userID, projectID)
	if err != nil {
		return domain.Project{}, err
	}

	return copyProject(project), nil
}

func (s *Store) UpdateProject(_ context.Context, userID, projectID string, update domain.ProjectUpdate) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.ownedProject(userID, projectID)
	if err != nil {
		return domain.Project{}, err
	}

	if update.Name != nil {
		project.Name = *update.Name
	}
	if update.Description != nil {
		project.Description = *update.Description
	}
	if update.Structure != nil {
		project.Structure = update.Structure.Clone()
	}
	project.UpdatedAt = s.now()

	s.projects[project.ID] = project

	return copyProject(project), nil
}

func (s *Store) DeleteProject(_ context.Context, userID, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ownedProject(userID, projectID); err != nil {
		return err
	}

	delete(s.projects, projectID)

	for id, file := range s.files {
		if file.ProjectID == projectID {
			delete(s.files, id)
		}
	}

	return nil
}

// WithLockedProject holds the store lock while fn runs. Writes are staged and
// applied only when fn succeeds.
func (s *Store) WithLockedProject(ctx context.Context, userID, projectID string, fn func(ctx context.Context, tx domain.ProjectTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.ownedProject(userID, projectID)
	if err != nil {
		return err
	}

	tx := &projectTx{store: s, project: copyProject(project), deleted: map[string]struct{}{}}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	for _, file := range tx.inserted {
		s.files[file.ID] = file
	}
	for id := range tx.deleted {
		delete(s.files, id)
	}
	if tx.structureChanged {
		project.Structure = tx.project.Structure.Clone()
		project.UpdatedAt = s.now()
		s.projects[project.ID] = project
	}

	return nil
}

func (s *Store) ListFiles(_ context.Context, projectID string) ([]domain.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := []domain.File{}
	for _, file := range s.files {
		if file.ProjectID == projectID {
			files = append(files, file)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

func (s *Store) GetFile(_ context.Context, userID, fileID string) (domain.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ownedFile(userID, fileID)
}

func (s *Store) UpdateFileContent(_ context.Context, userID, fileID, content string) (domain.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.ownedFile(userID, fileID)
	if err != nil {
		return domain.File{}, err
	}

	file.Content = content
	file.UpdatedAt = s.now()
	s.files[file.ID] = file

	return file, nil
}

func (s *Store) ownedProject(userID, projectID string) (domain.Project, error) {
	project, ok := s.projects[projectID]
	if !ok || project.UserID != userID {
		return domain.Project{}, domain.ErrProjectNotFound
	}

	return project, nil
}

func (s *Store) ownedFile(userID, fileID string) (domain.File, error) {
	file, ok := s.files[fileID]
	if !ok {
		return domain.File{}, domain.ErrFileNotFound
	}

	if _, err := s.ownedProject(userID, file.ProjectID); err != nil {
		return domain.File{}, domain.ErrFileNotFound
	}

	return file, nil
}

func copyProject(p domain.Project) domain.Project {
	p.Structure = p.Structure.Clone()
	return p
}

type projectTx struct {
	store            *Store
	project          domain.Project
	inserted         []domain.File
	deleted          map[string]struct{}
	structureChanged bool
}

func (t *projectTx) Project() domain.Project {
	return copyProject(t.project)
}

func (t *projectTx) InsertFiles(_ context.Context, files []domain.File) ([]domain.File, error) {
	taken := map[string]struct{}{}

	for _, file := range t.store.files {
		if _, gone := t.deleted[file.ID]; gone {
			continue
		}
		if file.ProjectID == t.project.ID {
			taken[file.Path] = struct{}{}
		}
	}
	for _, file := range t.inserted {
		taken[file.Path] = struct{}{}
	}

	inserted := []domain.File{}

	for _, file := range files {
		if _, ok := taken[file.Path]; ok {
			continue
		}
		taken[file.Path] = struct{}{}

		if file.ID == "" {
			file.ID = uuid.NewString()
		}
		file.ProjectID = t.project.ID
		file.CreatedAt = t.store.now()
		file.UpdatedAt = file.CreatedAt

		t.inserted = append(t.inserted, file)
		inserted = append(inserted, file)
	}

	return inserted, nil
}

func (t *projectTx) DeleteFile(_ context.Context, fileID string) error {
	file, ok := t.store.files[fileID]
	if !ok || file.ProjectID != t.project.ID {
		return domain.ErrFileNotFound
	}

	t.deleted[fileID] = struct{}{}

	return nil
}

func (t *projectTx) SaveStructure(_ context.Context, s structure.Structure) error {
	t.project.Structure = s.Clone()
	t.structureChanged = true

	return nil
}
