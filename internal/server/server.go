package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alfredoptarigan/skill-profiler/internal/config"
	"alfredoptarigan/skill-profiler/internal/handlers"
	"alfredoptarigan/skill-profiler/internal/middleware"
	"alfredoptarigan/skill-profiler/internal/repositories"
	"alfredoptarigan/skill-profiler/internal/services"
)

const appName = "Skill Profiler API"

// Container holds the wired services shared by the HTTP API and the CLI.
type Container struct {
	Config   *config.Config
	Jobs     services.JobService
	Workflow services.WorkflowService
	Uploads  services.UploadService

	closers []func() error
}

// Build wires repositories and services from cfg.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg}

	jobRepo, err := repositories.NewJobRepository(cfg.Storage.JobsPath)
	if err != nil {
		return nil, err
	}
	c.Jobs = services.NewJobService(jobRepo, logger)
	logger.Info("job store ready", zap.String("path", cfg.Storage.JobsPath))

	sessions, err := c.sessionRepository(ctx, logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	applications, err := c.applicationRepository(logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	extractor, err := services.NewDocumentExtractor(cfg.Storage.Extractor, logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	factory, err := services.NewGenerationFactory(generationOptions(cfg), logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Uploads = services.NewUploadService(cfg.Storage.MaxFileSize)
	c.Workflow = services.NewWorkflowService(services.WorkflowDeps{
		Sessions:     sessions,
		Applications: applications,
		Jobs:         c.Jobs,
		Credentials:  services.NewCredentialStore(factory),
		Extractor:    extractor,
		Skills:       services.NewSkillExtractorService(logger),
		Questions:    services.NewQuestionGeneratorService(cfg.Generation.QuestionCount, logger),
		Evaluator:    services.NewEvaluatorService(logger),
	}, logger)

	logger.Info("services initialized",
		zap.String("ai_provider", cfg.Generation.Provider),
		zap.String("extractor", cfg.Storage.Extractor),
	)

	return c, nil
}

func generationOptions(cfg *config.Config) services.GenerationOptions {
	opts := services.GenerationOptions{
		Provider:   cfg.Generation.Provider,
		Model:      cfg.Gemini.Model,
		Timeout:    cfg.Generation.Timeout,
		LogPreview: cfg.Generation.LogPreview,
	}
	if cfg.Generation.Provider == services.ProviderOpenRouter {
		opts.Model = cfg.OpenRouter.Model
		opts.BaseURL = cfg.OpenRouter.BaseURL
	}
	return opts
}

func (c *Container) sessionRepository(ctx context.Context, logger *zap.Logger) (repositories.SessionRepository, error) {
	if c.Config.Session.Backend != "redis" {
		return repositories.NewMemorySessionRepository(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Addr,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.closers = append(c.closers, client.Close)

	logger.Info("redis session store ready", zap.String("addr", c.Config.Redis.Addr))
	return repositories.NewRedisSessionRepository(client, c.Config.Redis.Prefix, c.Config.Session.TTL), nil
}

func (c *Container) applicationRepository(logger *zap.Logger) (repositories.ApplicationRepository, error) {
	if c.Config.Storage.ResultsBackend != "postgres" {
		return repositories.NewFileApplicationRepository(c.Config.Storage.ResultsPath, c.Config.Storage.Partitioned), nil
	}

	db, err := config.InitDatabase(c.Config, logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	c.closers = append(c.closers, sqlDB.Close)

	return repositories.NewGormApplicationRepository(db), nil
}

// Close releases external connections.
func (c *Container) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// New builds the fiber app serving the API.
func New(c *Container) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(c.Config.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1", middleware.RateLimiter(c.Config.RateLimit.Max, c.Config.RateLimit.Expiration))
	handlers.Register(api, handlers.Dependencies{
		Jobs:        c.Jobs,
		Workflow:    c.Workflow,
		Uploads:     c.Uploads,
		MaxFileSize: c.Config.Storage.MaxFileSize,
	})

	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": appName,
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/jobs",
				"POST /api/v1/sessions",
				"POST /api/v1/sessions/:id/submit",
				"GET /api/v1/applications/:id",
			},
		})
	})

	return app
}

// Run serves app until ctx is cancelled, then shuts it down.
func Run(ctx context.Context, app *fiber.App, port string, logger *zap.Logger) error {
	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			logger.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", port)
	logger.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
