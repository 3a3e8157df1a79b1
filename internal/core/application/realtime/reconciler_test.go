package realtime_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"orderdesk/internal/core/application/realtime"
	"orderdesk/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type fakeChannel struct {
	events       chan ports.ChangeEvent
	connectivity chan bool
	connectErr   error

	mu     sync.Mutex
	joins  map[string]int
	leaves map[string]int
	creds  ports.Credentials
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		events:       make(chan ports.ChangeEvent, 64),
		connectivity: make(chan bool, 4),
		joins:        map[string]int{},
		leaves:       map[string]int{},
	}
}

func (c *fakeChannel) Connect(_ context.Context, creds ports.Credentials) (*ports.Stream, error) {
	if c.connectErr != nil {
		return nil, c.connectErr
	}
	c.mu.Lock()
	c.creds = creds
	c.mu.Unlock()
	return &ports.Stream{Events: c.events, Connectivity: c.connectivity}, nil
}

func (c *fakeChannel) JoinRoom(_ context.Context, orderID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.joins[orderID]++
	return nil
}

func (c *fakeChannel) LeaveRoom(_ context.Context, orderID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leaves[orderID]++
	return nil
}

func (c *fakeChannel) counts(orderID string) (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.joins[orderID], c.leaves[orderID]
}

type MockListRefresher struct {
	mock.Mock
	calls atomic.Int32
}

func (m *MockListRefresher) Refresh(ctx context.Context) error {
	defer m.calls.Inc()
	return m.Called(ctx).Error(0)
}

type MockDetailRefresher struct {
	mock.Mock
	calls atomic.Int32
}

func (m *MockDetailRefresher) Refresh(ctx context.Context, orderID string) error {
	defer m.calls.Inc()
	return m.Called(ctx, orderID).Error(0)
}

type running struct {
	reconciler *realtime.Reconciler
	channel    *fakeChannel
	cancel     context.CancelFunc
	done       chan error
}

func start(t *testing.T, list *MockListRefresher, details *MockDetailRefresher, tick time.Duration) running {
	t.Helper()
	ch := newFakeChannel()
	r := realtime.New(ch, list, details, zap.NewNop(), realtime.WithCoalesceTick(tick))
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, ports.Credentials{AdminID: "admin-1", Token: "t"}) }()
	require.Eventually(t, r.Connected, time.Second, time.Millisecond)
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return running{reconciler: r, channel: ch, cancel: cancel, done: done}
}

func statusChanged(id string) ports.ChangeEvent {
	return ports.ChangeEvent{EntityType: ports.EntityOrder, OrderID: id, Kind: ports.EventStatusChanged}
}

func TestReconciler_CoalescesEventsIntoOneRefetch(t *testing.T) {
	list := new(MockListRefresher)
	details := new(MockDetailRefresher)
	list.On("Refresh", mock.Anything).Return(nil).Once()
	details.On("Refresh", mock.Anything, "ord-42").Return(nil).Once()

	rt := start(t, list, details, 100*time.Millisecond)
	require.NoError(t, rt.reconciler.SubscribeDetail(t.Context(), "ord-42"))

	for i := 0; i < 3; i++ {
		rt.channel.events <- statusChanged("ord-42")
	}

	require.Eventually(t, func() bool {
		return list.calls.Load() == 1 && details.calls.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)

	list.AssertExpectations(t)
	details.AssertExpectations(t)
	list.AssertNumberOfCalls(t, "Refresh", 1)
	details.AssertNumberOfCalls(t, "Refresh", 1)
}

func TestReconciler_IgnoresEventsWhileDisconnected(t *testing.T) {
	list := new(MockListRefresher)
	details := new(MockDetailRefresher)
	r := realtime.New(newFakeChannel(), list, details, zap.NewNop())

	assert.Equal(t, realtime.Disconnected, r.State())
	assert.False(t, r.OnEvent(statusChanged("ord-1")))
	list.AssertNotCalled(t, "Refresh", mock.Anything)
}

func TestReconciler_IgnoresUnknownKinds(t *testing.T) {
	list := new(MockListRefresher)
	rt := start(t, list, new(MockDetailRefresher), 10*time.Millisecond)

	accepted := rt.reconciler.OnEvent(ports.ChangeEvent{EntityType: ports.EntityOrder, OrderID: "ord-1", Kind: "teleported"})

	assert.False(t, accepted)
	time.Sleep(30 * time.Millisecond)
	list.AssertNotCalled(t, "Refresh", mock.Anything)
}

func TestReconciler_ListOnlyForUnopenedOrders(t *testing.T) {
	list := new(MockListRefresher)
	details := new(MockDetailRefresher)
	list.On("Refresh", mock.Anything).Return(errors.New("offline"))

	rt := start(t, list, details, 10*time.Millisecond)
	assert.True(t, rt.reconciler.OnEvent(statusChanged("ord-7")))

	require.Eventually(t, func() bool { return list.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	details.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
}

func TestReconciler_BalancedSubscriptions(t *testing.T) {
	rt := start(t, new(MockListRefresher), new(MockDetailRefresher), 10*time.Millisecond)
	ctx := t.Context()
	r := rt.reconciler

	require.NoError(t, r.SubscribeDetail(ctx, "A"))
	require.NoError(t, r.SubscribeDetail(ctx, "A"))
	require.NoError(t, r.SubscribeDetail(ctx, "B"))
	assert.Equal(t, []string{"A", "B"}, r.Rooms())

	require.NoError(t, r.UnsubscribeDetail(ctx, "A"))
	assert.Equal(t, []string{"A", "B"}, r.Rooms(), "A still has a viewer")
	require.NoError(t, r.UnsubscribeDetail(ctx, "A"))
	require.NoError(t, r.UnsubscribeDetail(ctx, "B"))
	require.NoError(t, r.UnsubscribeDetail(ctx, "B"), "unbalanced leave is ignored")

	assert.Empty(t, r.Rooms())
	joins, leaves := rt.channel.counts("A")
	assert.Equal(t, 1, joins)
	assert.Equal(t, 1, leaves)
	joins, leaves = rt.channel.counts("B")
	assert.Equal(t, 1, joins)
	assert.Equal(t, 1, leaves)
}

func TestReconciler_KeepsRoomsAcrossConnectivityFlaps(t *testing.T) {
	rt := start(t, new(MockListRefresher), new(MockDetailRefresher), 10*time.Millisecond)
	r := rt.reconciler
	require.NoError(t, r.SubscribeDetail(t.Context(), "ord-1"))

	rt.channel.connectivity <- false
	require.Eventually(t, func() bool { return r.State() == realtime.Disconnected }, time.Second, time.Millisecond)
	assert.False(t, r.OnEvent(statusChanged("ord-1")))

	rt.channel.connectivity <- true
	require.Eventually(t, r.Connected, time.Second, time.Millisecond)

	joins, leaves := rt.channel.counts("ord-1")
	assert.Equal(t, 1, joins, "the stream keeps its rooms while it is down")
	assert.Zero(t, leaves)
}

func TestReconciler_LeavesRoomClosedWhileDisconnected(t *testing.T) {
	rt := start(t, new(MockListRefresher), new(MockDetailRefresher), 10*time.Millisecond)
	r := rt.reconciler
	require.NoError(t, r.SubscribeDetail(t.Context(), "A"))

	rt.channel.connectivity <- false
	require.Eventually(t, func() bool { return r.State() == realtime.Disconnected }, time.Second, time.Millisecond)
	require.NoError(t, r.UnsubscribeDetail(t.Context(), "A"))

	rt.channel.connectivity <- true
	require.Eventually(t, r.Connected, time.Second, time.Millisecond)

	assert.Empty(t, r.Rooms())
	joins, leaves := rt.channel.counts("A")
	assert.Equal(t, 1, joins)
	assert.Equal(t, 1, leaves, "every join is matched by a leave")
}

func TestReconciler_RejoinsRoomsOnNewStream(t *testing.T) {
	ch := newFakeChannel()
	r := realtime.New(ch, new(MockListRefresher), new(MockDetailRefresher), zap.NewNop())
	creds := ports.Credentials{AdminID: "admin-1"}

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, creds) }()
	require.Eventually(t, r.Connected, time.Second, time.Millisecond)
	require.NoError(t, r.SubscribeDetail(t.Context(), "ord-1"))
	cancel()
	require.NoError(t, <-done)

	ctx, cancel = context.WithCancel(t.Context())
	defer cancel()
	go func() { done <- r.Run(ctx, creds) }()

	require.Eventually(t, func() bool {
		joins, _ := ch.counts("ord-1")
		return joins == 2
	}, time.Second, time.Millisecond)
	assert.Equal(t, []string{"ord-1"}, r.Rooms())

	cancel()
	require.NoError(t, <-done)
}

func TestReconciler_SubscribeWhileDisconnectedJoinsOnConnect(t *testing.T) {
	ch := newFakeChannel()
	r := realtime.New(ch, new(MockListRefresher), new(MockDetailRefresher), zap.NewNop())

	require.NoError(t, r.SubscribeDetail(t.Context(), "ord-9"))
	joins, _ := ch.counts("ord-9")
	assert.Zero(t, joins)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, ports.Credentials{AdminID: "admin-1"}) }()

	require.Eventually(t, func() bool {
		joins, _ := ch.counts("ord-9")
		return joins == 1
	}, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, realtime.Disconnected, r.State())
}

func TestReconciler_RunErrors(t *testing.T) {
	t.Run("connect failure", func(t *testing.T) {
		ch := newFakeChannel()
		ch.connectErr = errors.New("unauthorized")
		r := realtime.New(ch, new(MockListRefresher), new(MockDetailRefresher), zap.NewNop())

		err := r.Run(t.Context(), ports.Credentials{})

		require.EqualError(t, err, "unauthorized")
		assert.Equal(t, realtime.Disconnected, r.State())
	})

	t.Run("closed stream", func(t *testing.T) {
		ch := newFakeChannel()
		r := realtime.New(ch, new(MockListRefresher), new(MockDetailRefresher), zap.NewNop())
		close(ch.events)

		err := r.Run(t.Context(), ports.Credentials{})

		require.ErrorIs(t, err, realtime.ErrStreamClosed)
		assert.False(t, r.Connected())
	})
}
