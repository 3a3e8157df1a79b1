package queries_test

import (
	"context"
	"testing"
	"time"

	"orderdesk/internal/adapters/out/postgres/orderrepo"
	"orderdesk/internal/core/application/usecases/queries"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(*order.Order) {}

type GetStatusSummaryQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetStatusSummaryQueryHandler
	repo      *orderrepo.GormOrderRepository
}

func (suite *GetStatusSummaryQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))

	suite.handler = queries.NewGetStatusSummaryQueryHandler(db)
	suite.repo = orderrepo.NewGormOrderRepository(db, noopTracker{})
}

func (suite *GetStatusSummaryQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetStatusSummaryQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)
}

func (suite *GetStatusSummaryQueryHandlerTestSuite) add(id string, status order.Status, cashDue string) {
	o, err := order.RestoreOrder(order.Attributes{
		ID:      id,
		Status:  status,
		Type:    order.TypeMarketplace,
		Amounts: order.Amounts{CashDue: kernel.MustMoney(cashDue)},
		History: []order.HistoryEntry{{Status: status, ChangedAt: changedAt, ChangedBy: "system"}},
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(suite.T().Context(), o))
}

func (suite *GetStatusSummaryQueryHandlerTestSuite) TestHandle_GroupsByStatus() {
	suite.add("ord-1", order.Preparing, "10.50")
	suite.add("ord-2", order.Preparing, "4.25")
	suite.add("ord-3", order.Delivered, "0")

	summary, err := suite.handler.Handle(suite.T().Context(), queries.NewGetStatusSummaryQuery())

	suite.Require().NoError(err)
	suite.Require().Len(summary, len(order.AllStatuses()))

	byStatus := make(map[string]queries.StatusSummary)
	for _, row := range summary {
		byStatus[row.Status] = row
	}
	suite.Equal(int64(2), byStatus["preparing"].Orders)
	suite.True(decimal.RequireFromString("14.75").Equal(byStatus["preparing"].CashDue))
	suite.Equal(int64(1), byStatus["delivered"].Orders)
	suite.Equal(int64(0), byStatus["cancelled"].Orders)
	suite.True(byStatus["cancelled"].CashDue.IsZero())
	suite.Equal("pending_confirmation", summary[0].Status)
}

func (suite *GetStatusSummaryQueryHandlerTestSuite) TestHandle_EmptyTable() {
	summary, err := suite.handler.Handle(suite.T().Context(), queries.NewGetStatusSummaryQuery())

	suite.Require().NoError(err)
	for _, row := range summary {
		suite.Zero(row.Orders)
	}
}

func (suite *GetStatusSummaryQueryHandlerTestSuite) TestHandle_ZeroValueQuery() {
	_, err := suite.handler.Handle(suite.T().Context(), queries.GetStatusSummaryQuery{})

	suite.Require().ErrorIs(err, queries.ErrGetStatusSummaryQueryIsNotConstructed)
}

func TestGetStatusSummaryQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetStatusSummaryQueryHandlerTestSuite))
}
