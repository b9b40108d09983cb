package initialization

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/superbullet/superbullet/internal/auth"
	"github.com/superbullet/superbullet/internal/clients/github"
	"github.com/superbullet/superbullet/internal/config"
	"github.com/superbullet/superbullet/internal/controllers"
	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/internal/managers"
	"github.com/superbullet/superbullet/internal/server"
	"github.com/superbullet/superbullet/internal/store/mongodb"
	"github.com/superbullet/superbullet/internal/store/postgres"
	"github.com/superbullet/superbullet/internal/store/redis"
	"github.com/superbullet/superbullet/pkg/codegen"
)

// Container owns the storage connections of a running server
type Container struct {
	config *config.Config
	pool   *pgxpool.Pool
	redis  *goredis.Client
	mongo  *mongo.Client
}

// NewContainer connects to PostgreSQL and, when configured, Redis and MongoDB.
// Optional stores that cannot be reached are logged and left out.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	c := &Container{config: cfg, pool: pool}

	if cfg.RedisURL != "" {
		client, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, code generation cache disabled")
		} else {
			c.redis = client
		}
	}

	if cfg.MongoDBURI != "" {
		client, err := mongodb.Connect(ctx, cfg.MongoDBURI)
		if err != nil {
			log.Warn().Err(err).Msg("MongoDB unavailable, code generation history disabled")
		} else {
			c.mongo = client
		}
	}

	return c, nil
}

func (c *Container) Pool() *pgxpool.Pool {
	return c.pool
}

// Status reports which optional stores are connected
func (c *Container) Status() map[string]bool {
	return map[string]bool{
		"postgres": c.pool != nil,
		"redis":    c.redis != nil,
		"mongodb":  c.mongo != nil,
	}
}

func (c *Container) Close(ctx context.Context) {
	if c.mongo != nil {
		if err := c.mongo.Disconnect(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}

	c.pool.Close()
}

// BuildHTTPServer wires repositories, managers and controllers into the fiber app
func (c *Container) BuildHTTPServer(ctx context.Context) (*HTTPServer, error) {
	log.Info().Msg("Building server dependencies")

	users := postgres.NewUserRepository(c.pool)
	projects := postgres.NewProjectRepository(c.pool)
	files := postgres.NewFileRepository(c.pool)

	generatorDeps := codegen.GeneratorDependencies{
		Models: BuildModels(ctx, c.config),
	}

	if c.redis != nil {
		generatorDeps.Cache = redis.NewCodegenCache(redis.CodegenCacheDependencies{
			Client: c.redis,
			TTL:    c.config.CodegenCacheTTL,
		})
	}

	var history domain.GenerationHistory
	if c.mongo != nil {
		history = mongodb.NewGenerationHistory(ctx, c.mongo.Database(c.config.MongoDBDatabase))
	}

	var publisher domain.GistPublisher
	if config.IsSet(c.config.GitHubToken) {
		gists, err := github.NewGistClient(github.GistClientDependencies{Token: c.config.GitHubToken})
		if err != nil {
			return nil, err
		}
		publisher = gists
	}

	userManager := managers.NewUserManager(managers.UserManagerDependencies{
		UserRepository: users,
		TokenManager: auth.NewTokenManager(auth.TokenManagerDependencies{
			Secret: c.config.JWTSecret,
			TTL:    c.config.TokenTTL,
		}),
	})

	projectManager := managers.NewProjectManager(managers.ProjectManagerDependencies{
		ProjectRepository: projects,
		FileRepository:    files,
	})

	fileManager := managers.NewFileManager(managers.FileManagerDependencies{
		ProjectRepository: projects,
		FileRepository:    files,
	})

	codegenManager := managers.NewCodegenManager(managers.CodegenManagerDependencies{
		Generator: codegen.NewGenerator(generatorDeps),
		History:   history,
	})

	scaffoldManager := managers.NewScaffoldManager(managers.ScaffoldManagerDependencies{
		ProjectRepository: projects,
		CodegenManager:    codegenManager,
	})

	exportManager := managers.NewExportManager(managers.ExportManagerDependencies{
		ProjectRepository: projects,
		FileRepository:    files,
		GistPublisher:     publisher,
	})

	app := server.NewHTTPServer(server.HTTPServerDependencies{
		SessionVerifier: userManager,
		AuthController: controllers.NewAuthController(controllers.AuthControllerDependencies{
			UserManager: userManager,
		}),
		ProjectController: controllers.NewProjectController(controllers.ProjectControllerDependencies{
			ProjectManager: projectManager,
			ExportManager:  exportManager,
		}),
		FileController: controllers.NewFileController(controllers.FileControllerDependencies{
			FileManager: fileManager,
		}),
		KnitController: controllers.NewKnitController(controllers.KnitControllerDependencies{
			ScaffoldManager: scaffoldManager,
			CodegenManager:  codegenManager,
		}),
	})

	return &HTTPServer{App: app, Address: c.config.HTTPAddress, ShutdownTimeout: 10 * time.Second}, nil
}
