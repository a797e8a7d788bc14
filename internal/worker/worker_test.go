package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/model"
	"vidtube/internal/queue"
	"vidtube/internal/worker"
)

// =============================================================================
// Mock Implementations
// =============================================================================

// recordingDeleter records deleted keys and fails for keys in failOn.
type recordingDeleter struct {
	mu      sync.Mutex
	deleted []string
	kinds   []model.MediaKind
	failOn  map[string]bool
}

func (d *recordingDeleter) Delete(_ context.Context, key string, kind model.MediaKind) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failOn[key] {
		return errors.New("store unavailable")
	}
	d.deleted = append(d.deleted, key)
	d.kinds = append(d.kinds, kind)
	return nil
}

func (d *recordingDeleter) keys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.deleted...)
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

// =============================================================================
// Handler
// =============================================================================

func TestHandler_MediaDelete(t *testing.T) {
	deleter := &recordingDeleter{}
	h := worker.NewHandler(deleter)

	err := h.HandleEvent(context.Background(), queue.NewMediaDeleteEvent("covers/a.jpg", "cover", "replaced"))

	require.NoError(t, err)
	assert.Equal(t, []string{"covers/a.jpg"}, deleter.keys())
	assert.Equal(t, []model.MediaKind{model.MediaCover}, deleter.kinds)
}

func TestHandler_UnknownEvent(t *testing.T) {
	h := worker.NewHandler(&recordingDeleter{})

	err := h.HandleEvent(context.Background(), queue.MediaEvent{Type: "resize", Key: "x"})

	assert.Error(t, err)
}

// =============================================================================
// Manager
// =============================================================================

func TestManager_ConsumesAndAcksEvenOnFailure(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	client := setupRedis(t)
	pub := queue.NewPublisher(client)
	cons := queue.NewConsumer(client)
	deleter := &recordingDeleter{failOn: map[string]bool{"videos/bad.mp4": true}}

	mgr := worker.NewManager(cons, worker.NewHandler(deleter), worker.ManagerConfig{
		WorkerCount:  1,
		BlockTimeout: 20 * time.Millisecond,
	})
	require.NoError(t, mgr.Start(ctx))
	defer mgr.Stop()

	// ACT
	for _, key := range []string{"videos/bad.mp4", "videos/good.mp4"} {
		_, err := pub.Publish(ctx, queue.StreamMedia, queue.NewMediaDeleteEvent(key, "video", "deleted"))
		require.NoError(t, err)
	}

	// ASSERT
	require.Eventually(t, func() bool {
		return len(deleter.keys()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"videos/good.mp4"}, deleter.keys())

	require.Eventually(t, func() bool {
		n, err := cons.Pending(ctx, queue.StreamMedia, queue.ConsumerGroupMedia)
		return err == nil && n == 0
	}, 2*time.Second, 10*time.Millisecond)
}
