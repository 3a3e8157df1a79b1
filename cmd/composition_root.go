package cmd

import (
	"context"
	"errors"
	"fmt"

	httpadapter "orderdesk/internal/adapters/in/http"
	"orderdesk/internal/adapters/out/postgres"
	"orderdesk/internal/adapters/out/postgres/orderrepo"
	redisadapter "orderdesk/internal/adapters/out/redis"
	"orderdesk/internal/core/application/session"
	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/application/usecases/queries"
	"orderdesk/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CompositionRoot owns the process-wide dependencies.
type CompositionRoot struct {
	cfg    Config
	logger *zap.Logger

	gormDB      *gorm.DB
	redisClient *redis.Client
	uowFactory  *postgres.GormUnitOfWorkFactory
	backend     *postgres.OrderBackend
	desk        *session.Session
}

// NewCompositionRoot opens the database and Redis and wires the desk session.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *zap.Logger) (*CompositionRoot, error) {
	gormDB, err := gorm.Open(gorm_postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err = gormDB.AutoMigrate(&orderrepo.OrderDTO{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	redisClient, err := redisadapter.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}

	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)
	backend := postgres.NewOrderBackend(uowFactory, redisadapter.NewPublisher(redisClient), logger)
	channel := redisadapter.NewChannel(redisClient, cfg.RedisPingInterval, logger)

	desk, err := session.New(backend, channel, cfg.SessionConfig(), logger)
	if err != nil {
		_ = redisClient.Close()
		return nil, err
	}

	return &CompositionRoot{
		cfg:         cfg,
		logger:      logger,
		gormDB:      gormDB,
		redisClient: redisClient,
		uowFactory:  uowFactory,
		backend:     backend,
		desk:        desk,
	}, nil
}

// Start starts the desk session.
func (c *CompositionRoot) Start(ctx context.Context) error {
	return c.desk.Start(ctx, ports.Credentials{AdminID: c.cfg.AdminID})
}

// Close stops the session and releases the connections.
func (c *CompositionRoot) Close(ctx context.Context) error {
	var problems []error
	if err := c.desk.Stop(ctx); err != nil && !errors.Is(err, session.ErrSessionNotStarted) {
		problems = append(problems, err)
	}
	problems = append(problems, c.redisClient.Close())
	if sqlDB, err := c.gormDB.DB(); err == nil {
		problems = append(problems, sqlDB.Close())
	}
	return errors.Join(problems...)
}

func (c *CompositionRoot) CreateChangeOrdersStatusCommandHandler() commands.ChangeOrdersStatusCommandHandler {
	return commands.NewChangeOrdersStatusCommandHandler(c.desk)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	return commands.NewAssignDriverCommandHandler(c.desk)
}

func (c *CompositionRoot) CreateChangeSubOrderStatusCommandHandler() commands.ChangeSubOrderStatusCommandHandler {
	return commands.NewChangeSubOrderStatusCommandHandler(c.desk)
}

func (c *CompositionRoot) CreateUndoBulkActionCommandHandler() commands.UndoBulkActionCommandHandler {
	return commands.NewUndoBulkActionCommandHandler(c.desk)
}

func (c *CompositionRoot) CreateAddNoteCommandHandler() commands.AddNoteCommandHandler {
	return commands.NewAddNoteCommandHandler(c.backend)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.desk)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.desk)
}

func (c *CompositionRoot) CreateGetStatusSummaryQueryHandler() queries.GetStatusSummaryQueryHandler {
	return queries.NewGetStatusSummaryQueryHandler(c.gormDB)
}

// CreateHTTPServer builds the admin API router.
func (c *CompositionRoot) CreateHTTPServer() *echo.Echo {
	server := httpadapter.NewServer(httpadapter.Handlers{
		ChangeStatus:    c.CreateChangeOrdersStatusCommandHandler(),
		AssignDriver:    c.CreateAssignDriverCommandHandler(),
		ChangeSubStatus: c.CreateChangeSubOrderStatusCommandHandler(),
		Undo:            c.CreateUndoBulkActionCommandHandler(),
		AddNote:         c.CreateAddNoteCommandHandler(),
		ListOrders:      c.CreateListOrdersQueryHandler(),
		GetOrder:        c.CreateGetOrderQueryHandler(),
		StatusSummary:   c.CreateGetStatusSummaryQueryHandler(),
	}, c.desk, c.logger)
	return httpadapter.NewRouter(server)
}
