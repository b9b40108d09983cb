package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/superbullet/superbullet/internal/domain"
)

type FileRepository struct {
	pool *pgxpool.Pool
}

func NewFileRepository(pool *pgxpool.Pool) *FileRepository {
	return &FileRepository{pool: pool}
}

const fileColumns = `id, project_id, path, content, file_type, created_at, updated_at`

func scanFile(row pgx.Row) (domain.File, error) {
	var file domain.File

	err := row.Scan(&file.ID, &file.ProjectID, &file.Path, &file.Content, &file.FileType, &file.CreatedAt, &file.UpdatedAt)

	return file, err
}

func (r *FileRepository) ListFiles(ctx context.Context, projectID string) ([]domain.File, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+fileColumns+` FROM files WHERE project_id = $1 ORDER BY path ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	files, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.File, error) {
		return scanFile(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return files, nil
}

func (r *FileRepository) GetFile(ctx context.Context, userID, fileID string) (domain.File, error) {
	if uuid.Validate(fileID) != nil {
		return domain.File{}, domain.ErrFileNotFound
	}

	file, err := scanFile(r.pool.QueryRow(ctx,
		`SELECT f.id, f.project_id, f.path, f.content, f.file_type, f.created_at, f.updated_at
		 FROM files f
		 JOIN projects p ON p.id = f.project_id
		 WHERE f.id = $1 AND p.user_id = $2`,
		fileID, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.File{}, domain.ErrFileNotFound
		}
		return domain.File{}, fmt.Errorf("failed to get file: %w", err)
	}

	return file, nil
}

func (r *FileRepository) UpdateFileContent(ctx context.Context, userID, fileID, content string) (domain.File, error) {
	if uuid.Validate(fileID) != nil {
		return domain.File{}, domain.ErrFileNotFound
	}

	file, err := scanFile(r.pool.QueryRow(ctx,
		`UPDATE files f SET content = $3, updated_at = now()
		 FROM projects p
		 WHERE f.id = $1 AND p.id = f.project_id AND p.user_id = $2
		 RETURNING f.id, f.project_id, f.path, f.content, f.file_type, f.created_at, f.updated_at`,
		fileID, userID, content,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.File{}, domain.ErrFileNotFound
		}
		return domain.File{}, fmt.Errorf("failed to update file: %w", err)
	}

	return file, nil
}
