package services

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nsxd/internal/content"
	"nsxd/internal/lifecycle"
	"nsxd/internal/models"
	"nsxd/internal/prefs"
	"nsxd/internal/structures"
	"nsxd/internal/testutil"
)

type memQueue struct {
	mu    sync.Mutex
	items []*models.PendingNotification
}

func (q *memQueue) Enqueue(item *models.PendingNotification) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, item)
	return nil
}

func (q *memQueue) Dequeue() (*models.PendingNotification, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, nil
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, nil
}

func (q *memQueue) Size() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items), nil
}

type nilRates struct{}

func (nilRates) CurrentRate(_ string) *models.ExchangeRate { return nil }

func newTestService(t *testing.T) (NotificationServiceInterface, *memQueue, *clock.Mock, *testutil.MockPresence) {
	t.Helper()

	logger := &testutil.MockLogger{}
	clk := clock.NewMock()
	queue := &memQueue{}
	pres := testutil.NewMockPresence()
	p := prefs.NewPrefs(&structures.Config{
		Prefs: structures.PrefsConfig{Path: filepath.Join(t.TempDir(), "prefs.json")},
	}, logger)

	sc := &lifecycle.SharedContext{
		Presence: pres,
		Manager:  testutil.NewStubManager(testutil.NewStubEngine()),
		Queue:    queue,
		Builder:  content.NewBuilder(p, nilRates{}, logger),
		Prefs:    p,
		Clock:    clk,
		Timers: structures.TimersConfig{
			Deadline:  29500 * time.Millisecond,
			Settle:    5 * time.Second,
			Heartbeat: 2 * time.Second,
		},
		Logger:  logger,
		Metrics: testutil.NewMockMetrics(),
	}
	return NewNotificationService(sc, logger), queue, clk, pres
}

func TestNotificationService_BridgePushReturnsContent(t *testing.T) {
	ns, _, _, _ := newTestService(t)

	c := ns.HandlePush(map[string]interface{}{
		"acinq": map[string]interface{}{"amt": 1000},
	})
	assert.Equal(t, "Current bitcoin price", c.Title)
}

func TestNotificationService_ExpireUnblocksPush(t *testing.T) {
	ns, _, _, pres := newTestService(t)

	done := make(chan models.Content, 1)
	go func() {
		done <- ns.HandlePush(map[string]interface{}{
			"reason":         "IncomingPayment",
			"gcm.message_id": "1",
		})
	}()

	require.Eventually(t, func() bool {
		resumes, _ := pres.Counts()
		return resumes == 1
	}, 2*time.Second, time.Millisecond)

	ns.Expire()

	select {
	case c := <-done:
		assert.Equal(t, "Missed incoming payment", c.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("push did not finish after expire")
	}
}

func TestNotificationService_ExpireWithNothingInFlight(t *testing.T) {
	ns, _, _, _ := newTestService(t)
	ns.Expire()
}

func TestNotificationService_PendingCount(t *testing.T) {
	ns, queue, _, _ := newTestService(t)
	assert.Equal(t, 0, ns.PendingCount())

	require.NoError(t, queue.Enqueue(&models.PendingNotification{Identifier: "x"}))
	assert.Equal(t, 1, ns.PendingCount())
}
