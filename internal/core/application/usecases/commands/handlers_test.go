package commands_test

import (
	"context"
	"errors"
	"testing"

	"orderdesk/internal/core/application/bulk"
	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBulkActions struct{ mock.Mock }

func (m *MockBulkActions) ChangeStatus(
	ctx context.Context,
	orderIDs []string,
	target order.Status,
	meta order.Metadata,
) (*bulk.Ticket, error) {
	args := m.Called(ctx, orderIDs, target, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.Ticket), args.Error(1)
}

func (m *MockBulkActions) AssignDriver(ctx context.Context, orderIDs []string, driverID string) (*bulk.Ticket, error) {
	args := m.Called(ctx, orderIDs, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.Ticket), args.Error(1)
}

func (m *MockBulkActions) ChangeSubStatus(
	ctx context.Context,
	orderID, subID string,
	target order.Status,
	meta order.Metadata,
) (*bulk.Ticket, error) {
	args := m.Called(ctx, orderID, subID, target, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.Ticket), args.Error(1)
}

func (m *MockBulkActions) Undo(ctx context.Context, ticketID string) (bulk.Result, error) {
	args := m.Called(ctx, ticketID)
	return args.Get(0).(bulk.Result), args.Error(1)
}

func TestChangeOrdersStatusCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	meta := order.Metadata{ChangedBy: "admin-1"}

	t.Run("should forward the selection", func(t *testing.T) {
		actions := &MockBulkActions{}
		actions.On("ChangeStatus", ctx, []string{"ord-1", "ord-2"}, order.Delivered, meta).Return(nil, nil).Once()
		cmd, err := commands.NewChangeOrdersStatusCommand([]string{"ord-1", "ord-2"}, order.Delivered, meta)
		require.NoError(t, err)

		_, err = commands.NewChangeOrdersStatusCommandHandler(actions).Handle(ctx, cmd)

		require.NoError(t, err)
		actions.AssertExpectations(t)
	})

	t.Run("should return session errors", func(t *testing.T) {
		actions := &MockBulkActions{}
		boom := errors.New("boom")
		actions.On("ChangeStatus", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)
		cmd, err := commands.NewChangeOrdersStatusCommand([]string{"ord-1"}, order.Delivered, meta)
		require.NoError(t, err)

		ticket, err := commands.NewChangeOrdersStatusCommandHandler(actions).Handle(ctx, cmd)

		require.ErrorIs(t, err, boom)
		assert.Nil(t, ticket)
	})

	t.Run("should refuse a zero-value command", func(t *testing.T) {
		actions := &MockBulkActions{}

		_, err := commands.NewChangeOrdersStatusCommandHandler(actions).Handle(ctx, commands.ChangeOrdersStatusCommand{})

		require.ErrorIs(t, err, commands.ErrChangeOrdersStatusCommandIsNotConstructed)
		actions.AssertNotCalled(t, "ChangeStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAssignDriverCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	actions := &MockBulkActions{}
	actions.On("AssignDriver", ctx, []string{"ord-1"}, "drv-9").Return(nil, nil).Once()
	cmd, err := commands.NewAssignDriverCommand([]string{"ord-1"}, "drv-9")
	require.NoError(t, err)

	_, err = commands.NewAssignDriverCommandHandler(actions).Handle(ctx, cmd)

	require.NoError(t, err)
	actions.AssertExpectations(t)

	_, err = commands.NewAssignDriverCommandHandler(actions).Handle(ctx, commands.AssignDriverCommand{})
	require.ErrorIs(t, err, commands.ErrAssignDriverCommandIsNotConstructed)
}

func TestChangeSubOrderStatusCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	meta := order.Metadata{ChangedBy: "admin-1", Reason: "store closed"}
	actions := &MockBulkActions{}
	actions.On("ChangeSubStatus", ctx, "ord-1", "sub-1", order.Cancelled, meta).Return(nil, nil).Once()
	cmd, err := commands.NewChangeSubOrderStatusCommand("ord-1", "sub-1", order.Cancelled, meta)
	require.NoError(t, err)

	_, err = commands.NewChangeSubOrderStatusCommandHandler(actions).Handle(ctx, cmd)

	require.NoError(t, err)
	actions.AssertExpectations(t)
}

func TestUndoBulkActionCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()

	t.Run("should undo by ticket id", func(t *testing.T) {
		actions := &MockBulkActions{}
		want := bulk.Result{Outcome: bulk.Undone, Compensated: []string{"ord-1"}}
		actions.On("Undo", ctx, id.String()).Return(want, nil).Once()
		cmd, err := commands.NewUndoBulkActionCommand(id.String())
		require.NoError(t, err)

		got, err := commands.NewUndoBulkActionCommandHandler(actions).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, want, got)
		actions.AssertExpectations(t)
	})

	t.Run("should surface unknown tickets and closed windows", func(t *testing.T) {
		for _, cause := range []error{errs.NewObjectNotFoundError("ticketId", id), bulk.ErrUndoUnavailable} {
			actions := &MockBulkActions{}
			actions.On("Undo", ctx, id.String()).Return(bulk.Result{}, cause)
			cmd, err := commands.NewUndoBulkActionCommand(id.String())
			require.NoError(t, err)

			_, err = commands.NewUndoBulkActionCommandHandler(actions).Handle(ctx, cmd)

			require.ErrorIs(t, err, cause)
		}
	})
}
