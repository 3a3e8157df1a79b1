package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	postgres_adapter "orderdesk/internal/adapters/out/postgres"
	"orderdesk/internal/adapters/out/postgres/orderrepo"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/ports"
	"orderdesk/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, event ports.ChangeEvent) error {
	return m.Called(ctx, event).Error(0)
}

// UnitOfWorkIntegrationTestSuite covers the Unit of Work and the order backend
// built on it against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes PostgreSQL container and database connection for all tests.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)
}

// TearDownSuite cleans up PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Begin is idempotent")
	suite.Require().NoError(uow.OrderRepository().Add(ctx, newOrder(suite.T(), "ord-1", order.Preparing)))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Len(uow.TrackedOrders(), 1)
	suite.assertStored("ord-1", order.Preparing)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsWritesAndTracking() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, newOrder(suite.T(), "ord-1", order.Preparing)))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Empty(uow.TrackedOrders())
	_, err := suite.factory.Create().OrderRepository().Get(ctx, "ord-1")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrderBackend_RecordsAnyStatusAndPublishes() {
	ctx := context.Background()
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, ports.ChangeEvent{
		EntityType: ports.EntityOrder, OrderID: "ord-1", Kind: ports.EventCreated,
	}).Return(nil).Once()
	publisher.On("Publish", mock.Anything, ports.ChangeEvent{
		EntityType: ports.EntityOrder, OrderID: "ord-1", Kind: ports.EventStatusChanged,
	}).Return(nil).Twice()
	publisher.On("Publish", mock.Anything, ports.ChangeEvent{
		EntityType: ports.EntityOrder, OrderID: "ord-1", Kind: ports.EventDriverAssigned,
	}).Return(errors.New("broker down")).Once()
	backend := postgres_adapter.NewOrderBackend(suite.factory, publisher, zap.NewNop())

	suite.Require().NoError(backend.Create(ctx, newOrder(suite.T(), "ord-1", order.Preparing)))
	suite.Require().NoError(backend.ChangeStatus(ctx, "ord-1", ports.StatusChange{
		Status: order.Delivered, ChangedBy: "admin-1",
	}))
	// compensating revert out of a terminal state
	suite.Require().NoError(backend.ChangeStatus(ctx, "ord-1", ports.StatusChange{
		Status: order.Preparing, ChangedBy: "admin-1", Reason: "undo bulk action",
	}))
	suite.Require().NoError(backend.AssignDriver(ctx, "ord-1", "drv-3"), "publish failures are not returned")

	got, err := backend.Fetch(ctx, "ord-1")
	suite.Require().NoError(err)
	suite.Equal(order.Preparing, got.Status())
	suite.Equal("drv-3", got.DriverID())
	suite.Len(got.History(), 3)
	suite.Equal("undo bulk action", got.LastChange().Reason)
	publisher.AssertExpectations(suite.T())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrderBackend_ProcurementAndSubOrders() {
	ctx := context.Background()
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	backend := postgres_adapter.NewOrderBackend(suite.factory, publisher, zap.NewNop())

	sub, err := order.NewSubOrder("store-1", nil, "customer", time.Now())
	suite.Require().NoError(err)
	errand, err := order.RestoreOrder(order.Attributes{
		ID:        "err-1",
		Status:    order.AwaitingProcurement,
		Type:      order.TypeErrand,
		Source:    order.SourceShein,
		History:   []order.HistoryEntry{{Status: order.AwaitingProcurement, ChangedAt: time.Now().UTC()}},
		SubOrders: []*order.SubOrder{sub},
	})
	suite.Require().NoError(err)
	suite.Require().NoError(backend.Create(ctx, errand))

	suite.Require().NoError(backend.MarkProcured(ctx, "err-1", ports.Procurement{
		ExternalOrderNo: "SH-77", InvoiceURL: "https://inv/77", ChangedBy: "admin-1",
	}))
	suite.Require().NoError(backend.ChangeSubStatus(ctx, "err-1", "store-1", ports.StatusChange{
		Status: order.Preparing, ChangedBy: "admin-1",
	}))
	suite.Require().NoError(backend.AddNote(ctx, "err-1", order.Note{
		ID: "n1", Body: "size M", Visibility: order.VisibilityPublic, Author: "admin-1",
	}))

	got, err := backend.Fetch(ctx, "err-1")
	suite.Require().NoError(err)
	suite.Equal(order.Procured, got.Status())
	suite.Equal("SH-77", got.ExternalOrderNo())
	s, ok := got.SubOrder("store-1")
	suite.Require().True(ok)
	suite.Equal(order.Preparing, s.Status())
	suite.Len(got.Notes(), 1)

	suite.Require().NoError(backend.FailProcurement(ctx, "err-1", ports.ProcurementFailure{Reason: "out of stock"}))
	got, err = backend.Fetch(ctx, "err-1")
	suite.Require().NoError(err)
	suite.Equal(order.ProcurementFailed, got.Status())

	err = backend.ChangeSubStatus(ctx, "err-1", "store-9", ports.StatusChange{Status: order.Preparing})
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	err = backend.ChangeStatus(ctx, "nope", ports.StatusChange{Status: order.Preparing})
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	list, err := backend.List(ctx, ports.ListFilters{Statuses: []order.Status{order.ProcurementFailed}})
	suite.Require().NoError(err)
	suite.Len(list, 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrderBackend_ConcurrentMutationsAreSerialized() {
	ctx := context.Background()
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	backend := postgres_adapter.NewOrderBackend(suite.factory, publisher, zap.NewNop())
	suite.Require().NoError(backend.Create(ctx, newOrder(suite.T(), "hot", order.Preparing)))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			suite.NoError(backend.ChangeStatus(ctx, "hot", ports.StatusChange{Status: order.Assigned, ChangedBy: "a"}))
		}()
	}
	wg.Wait()

	got, err := backend.Fetch(ctx, "hot")
	suite.Require().NoError(err)
	suite.Len(got.History(), 11, "row locks keep every history append")
}

func (suite *UnitOfWorkIntegrationTestSuite) assertStored(id string, status order.Status) {
	got, err := suite.factory.Create().OrderRepository().Get(context.Background(), id)
	suite.Require().NoError(err)
	suite.Equal(status, got.Status())
}

func newOrder(t *testing.T, id string, status order.Status) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.Attributes{
		ID:            id,
		Status:        status,
		Type:          order.TypeMarketplace,
		PaymentMethod: "cash",
		Amounts:       order.Amounts{Price: kernel.MustMoney("9.99")},
		History:       []order.HistoryEntry{{Status: status, ChangedAt: time.Now().UTC(), ChangedBy: "system"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
