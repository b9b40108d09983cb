package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/pkg/structure"
)

// testDatabaseURLEnv points the repository tests at a disposable PostgreSQL
// database. Each run works in its own schema and drops it afterwards.
const testDatabaseURLEnv = "SUPERBULLET_TEST_DATABASE_URL"

func TestProjectTxQueries(t *testing.T) {
	assert.Contains(t, lockProjectQuery, "WHERE id = $1 AND user_id = $2 FOR UPDATE")
	assert.Contains(t, insertFileQuery, "ON CONFLICT (project_id, path) DO NOTHING")
	assert.Contains(t, insertFileQuery, "RETURNING "+fileColumns)
	assert.Contains(t, saveStructureQuery, "structure = $2::jsonb")
	assert.Contains(t, saveStructureQuery, "WHERE id = $1")
}

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	databaseURL := os.Getenv(testDatabaseURLEnv)
	if databaseURL == "" {
		t.Skipf("%s not set", testDatabaseURLEnv)
	}

	ctx := context.Background()
	schema := "superbullet_test_" + xid.New().String()

	admin, err := Connect(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(admin.Close)

	_, err = admin.Exec(ctx, fmt.Sprintf(`CREATE SCHEMA %q`, schema))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), fmt.Sprintf(`DROP SCHEMA %q CASCADE`, schema))
	})

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	require.NoError(t, err)
	poolConfig.ConnConfig.RuntimeParams["search_path"] = schema

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))

	return pool
}

func newTestProject(t *testing.T, pool *pgxpool.Pool) (*ProjectRepository, domain.Project) {
	t.Helper()

	ctx := context.Background()

	user, err := NewUserRepository(pool).CreateUser(ctx, domain.User{
		Email:           xid.New().String() + "@example.com",
		PasswordHash:    "hash",
		TokensRemaining: domain.DefaultTokensRemaining,
	})
	require.NoError(t, err)

	projects := NewProjectRepository(pool)

	project, err := projects.CreateProject(ctx, domain.Project{
		UserID:    user.ID,
		Name:      "My Game",
		Slug:      "my-game",
		Structure: structure.Default(),
	})
	require.NoError(t, err)

	return projects, project
}

func TestProjectRepository_WithLockedProject(t *testing.T) {
	pool := newTestPool(t)
	projects, project := newTestProject(t, pool)
	files := NewFileRepository(pool)
	ctx := context.Background()

	err := projects.WithLockedProject(ctx, project.UserID, project.ID, func(ctx context.Context, tx domain.ProjectTx) error {
		inserted, err := tx.InsertFiles(ctx, []domain.File{
			{Path: "Workspace/A.lua", Content: "-- a", FileType: "lua"},
			{Path: "Workspace/B.lua", Content: "-- b", FileType: "lua"},
		})
		require.NoError(t, err)
		assert.Len(t, inserted, 2)

		inserted, err = tx.InsertFiles(ctx, []domain.File{
			{Path: "Workspace/A.lua", Content: "-- replaced", FileType: "lua"},
			{Path: "Workspace/C.lua", Content: "-- c", FileType: "lua"},
		})
		require.NoError(t, err)
		require.Len(t, inserted, 1)
		assert.Equal(t, "Workspace/C.lua", inserted[0].Path)

		merged, _ := structure.Merge(tx.Project().Structure, []structure.FileDescriptor{
			{Path: "Workspace/A.lua"}, {Path: "Workspace/B.lua"}, {Path: "Workspace/C.lua"},
		})

		return tx.SaveStructure(ctx, merged)
	})
	require.NoError(t, err)

	stored, err := files.ListFiles(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "-- a", stored[0].Content, "an existing row must keep its content")

	saved, err := projects.GetProject(ctx, project.UserID, project.ID)
	require.NoError(t, err)
	for _, file := range stored {
		node, ok := saved.Structure.Find(file.Path)
		require.True(t, ok, file.Path)
		assert.Equal(t, structure.NodeTypeFile, node.Type())
	}

	errAbort := errors.New("abort")
	err = projects.WithLockedProject(ctx, project.UserID, project.ID, func(ctx context.Context, tx domain.ProjectTx) error {
		_, err := tx.InsertFiles(ctx, []domain.File{{Path: "Workspace/D.lua", Content: "", FileType: "lua"}})
		require.NoError(t, err)

		merged, _ := structure.Merge(tx.Project().Structure, []structure.FileDescriptor{{Path: "Workspace/D.lua"}})
		require.NoError(t, tx.SaveStructure(ctx, merged))

		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	stored, err = files.ListFiles(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	after, err := projects.GetProject(ctx, project.UserID, project.ID)
	require.NoError(t, err)
	_, ok := after.Structure.Find("Workspace/D.lua")
	assert.False(t, ok)

	noop := func(context.Context, domain.ProjectTx) error { return nil }
	assert.ErrorIs(t, projects.WithLockedProject(ctx, xid.New().String(), project.ID, noop), domain.ErrProjectNotFound)
	assert.ErrorIs(t, projects.WithLockedProject(ctx, project.UserID, "not-a-uuid", noop), domain.ErrProjectNotFound)
}

func TestProjectRepository_ConcurrentStructureUpdates(t *testing.T) {
	pool := newTestPool(t)
	projects, project := newTestProject(t, pool)
	ctx := context.Background()

	const writers = 8

	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			path := fmt.Sprintf("Workspace/Writer%d.lua", i)
			errs <- projects.WithLockedProject(ctx, project.UserID, project.ID, func(ctx context.Context, tx domain.ProjectTx) error {
				if _, err := tx.InsertFiles(ctx, []domain.File{{Path: path, Content: "", FileType: "lua"}}); err != nil {
					return err
				}

				merged, _ := structure.Merge(tx.Project().Structure, []structure.FileDescriptor{{Path: path}})

				return tx.SaveStructure(ctx, merged)
			})
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	saved, err := projects.GetProject(ctx, project.UserID, project.ID)
	require.NoError(t, err)

	for i := range writers {
		_, ok := saved.Structure.Find(fmt.Sprintf("Workspace/Writer%d.lua", i))
		assert.True(t, ok, "writer %d lost its update", i)
	}
}
