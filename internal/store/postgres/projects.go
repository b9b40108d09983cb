package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/pkg/structure"
	"github.com/superbullet/superbullet/pkg/utils/pagination"
)

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

const projectColumns = `id, user_id, name, slug, description, structure, created_at, updated_at`

// Structure changes run in one transaction that holds the project row lock.
const (
	lockProjectQuery = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 AND user_id = $2 FOR UPDATE`

	insertFileQuery = `INSERT INTO files (id, project_id, path, content, file_type)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (project_id, path) DO NOTHING
		 RETURNING ` + fileColumns

	saveStructureQuery = `UPDATE projects SET structure = $2::jsonb, updated_at = now() WHERE id = $1`
)

func scanProject(row pgx.Row) (domain.Project, error) {
	var (
		project domain.Project
		raw     []byte
	)

	if err := row.Scan(&project.ID, &project.UserID, &project.Name, &project.Slug, &project.Description, &raw, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return domain.Project{}, err
	}

	s, err := structure.Decode(raw)
	if err != nil {
		return domain.Project{}, fmt.Errorf("failed to decode structure of project %s: %w", project.ID, err)
	}
	project.Structure = s

	return project, nil
}

func (r *ProjectRepository) ListProjects(ctx context.Context, userID string, page pagination.Params) ([]domain.Project, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE user_id = $1
		 ORDER BY updated_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}

	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

func (r *ProjectRepository) CreateProject(ctx context.Context, project domain.Project) (domain.Project, error) {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}

	raw, err := encodeStructure(project.Structure)
	if err != nil {
		return domain.Project{}, err
	}

	created, err := scanProject(r.pool.QueryRow(ctx,
		`INSERT INTO projects (id, user_id, name, slug, description, structure)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+projectColumns,
		project.ID, project.UserID, project.Name, project.Slug, project.Description, raw,
	))
	if err != nil {
		return domain.Project{}, fmt.Errorf("failed to create project: %w", err)
	}

	return created, nil
}

func (r *ProjectRepository) GetProject(ctx context.Context, userID, projectID string) (domain.Project, error) {
	if uuid.Validate(projectID) != nil {
		return domain.Project{}, domain.ErrProjectNotFound
	}

	project, err := scanProject(r.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1 AND user_id = $2`,
		projectID, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Project{}, domain.ErrProjectNotFound
		}
		return domain.Project{}, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, userID, projectID string, update domain.ProjectUpdate) (domain.Project, error) {
	if uuid.Validate(projectID) != nil {
		return domain.Project{}, domain.ErrProjectNotFound
	}

	var raw []byte
	if update.Structure != nil {
		encoded, err := encodeStructure(update.Structure)
		if err != nil {
			return domain.Project{}, err
		}
		raw = encoded
	}

	project, err := scanProject(r.pool.QueryRow(ctx,
		`UPDATE projects SET
			name        = COALESCE($3, name),
			description = COALESCE($4, description),
			structure   = COALESCE($5::jsonb, structure),
			updated_at  = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+projectColumns,
		projectID, userID, update.Name, update.Description, raw,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Project{}, domain.ErrProjectNotFound
		}
		return domain.Project{}, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

func (r *ProjectRepository) DeleteProject(ctx context.Context, userID, projectID string) error {
	if uuid.Validate(projectID) != nil {
		return domain.ErrProjectNotFound
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}

	return nil
}

func (r *ProjectRepository) WithLockedProject(ctx context.Context, userID, projectID string, fn func(ctx context.Context, tx domain.ProjectTx) error) error {
	if uuid.Validate(projectID) != nil {
		return domain.ErrProjectNotFound
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Error().Err(err).Str("project_id", projectID).Msg("Failed to roll back project transaction")
		}
	}()

	project, err := scanProject(tx.QueryRow(ctx, lockProjectQuery, projectID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProjectNotFound
		}
		return fmt.Errorf("failed to lock project: %w", err)
	}

	if err := fn(ctx, &projectTx{tx: tx, project: project}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit project transaction: %w", err)
	}

	return nil
}

type projectTx struct {
	tx      pgx.Tx
	project domain.Project
}

func (t *projectTx) Project() domain.Project {
	return t.project
}

func (t *projectTx) InsertFiles(ctx context.Context, files []domain.File) ([]domain.File, error) {
	batch := &pgx.Batch{}

	for _, file := range files {
		if file.ID == "" {
			file.ID = uuid.NewString()
		}

		batch.Queue(insertFileQuery, file.ID, t.project.ID, file.Path, file.Content, file.FileType)
	}

	results := t.tx.SendBatch(ctx, batch)
	defer results.Close()

	inserted := []domain.File{}

	for _, file := range files {
		created, err := scanFile(results.QueryRow())
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, fmt.Errorf("failed to insert file %s: %w", file.Path, err)
		}
		inserted = append(inserted, created)
	}

	return inserted, nil
}

func (t *projectTx) DeleteFile(ctx context.Context, fileID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM files WHERE id = $1 AND project_id = $2`, fileID, t.project.ID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrFileNotFound
	}

	return nil
}

func (t *projectTx) SaveStructure(ctx context.Context, s structure.Structure) error {
	raw, err := encodeStructure(s)
	if err != nil {
		return err
	}

	if _, err := t.tx.Exec(ctx, saveStructureQuery, t.project.ID, raw); err != nil {
		return fmt.Errorf("failed to save structure: %w", err)
	}

	t.project.Structure = s

	return nil
}

func encodeStructure(s structure.Structure) ([]byte, error) {
	if s == nil {
		s = structure.Structure{}
	}

	raw, err := s.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode structure: %w", err)
	}

	return raw, nil
}
