package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"vidtube/internal/logging"
	"vidtube/internal/queue"
)

const (
	// DefaultWorkerCount is the default number of worker goroutines
	DefaultWorkerCount = 2

	// DefaultBatchSize is the number of messages to read per batch
	DefaultBatchSize = 10

	// DefaultBlockTimeout is how long to block waiting for new messages
	DefaultBlockTimeout = 5 * time.Second
)

// Manager orchestrates worker goroutines that consume the media stream.
type Manager struct {
	consumer    queue.Consumer
	handler     *Handler
	workerCount int
	batchSize   int64
	blockTime   time.Duration
	log         *logrus.Entry

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// ManagerConfig holds configuration for the worker manager.
type ManagerConfig struct {
	WorkerCount  int           // Number of worker goroutines
	BatchSize    int64         // Messages per read
	BlockTimeout time.Duration // Block time for XREADGROUP
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		WorkerCount:  DefaultWorkerCount,
		BatchSize:    DefaultBatchSize,
		BlockTimeout: DefaultBlockTimeout,
	}
}

// NewManager creates a new worker manager.
func NewManager(consumer queue.Consumer, handler *Handler, cfg ManagerConfig) *Manager {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}

	return &Manager{
		consumer:    consumer,
		handler:     handler,
		workerCount: cfg.WorkerCount,
		batchSize:   cfg.BatchSize,
		blockTime:   cfg.BlockTimeout,
	}
}

// Start ensures the consumer group exists and begins the worker goroutines.
// Call Stop() to shut down.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.log = logging.Component(ctx, "worker_manager").WithField("stream", queue.StreamMedia)

	if err := m.consumer.EnsureGroup(m.ctx, queue.StreamMedia, queue.ConsumerGroupMedia); err != nil {
		m.cancel()
		return err
	}

	for i := 0; i < m.workerCount; i++ {
		workerID := i + 1
		m.wg.Add(1)
		go m.runWorker(workerID, consumerNameForWorker(workerID))
	}

	m.log.WithField("workers", m.workerCount).Info("workers started")
	return nil
}

// Stop cancels the workers and blocks until they have all returned.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.wg.Wait()
	m.log.Info("workers stopped")
}

func (m *Manager) runWorker(workerID int, consumerName string) {
	defer m.wg.Done()
	log := m.log.WithField("consumer", consumerName)

	// Messages delivered before a crash are replayed first.
	m.processPending(log, consumerName)

	for {
		select {
		case <-m.ctx.Done():
			log.Debug("worker shutting down")
			return
		default:
			m.processMessages(log, consumerName)
		}
	}
}

func (m *Manager) processPending(log *logrus.Entry, consumerName string) {
	for m.ctx.Err() == nil {
		messages, err := m.consumer.ReadPending(m.ctx, queue.StreamMedia, queue.ConsumerGroupMedia, consumerName, m.batchSize)
		if err != nil {
			log.WithError(err).Warn("read pending failed")
			return
		}
		if len(messages) == 0 {
			return
		}
		log.WithField("count", len(messages)).Info("replaying pending messages")
		m.handleMessages(log, messages)
	}
}

func (m *Manager) processMessages(log *logrus.Entry, consumerName string) {
	messages, err := m.consumer.Read(m.ctx, queue.StreamMedia, queue.ConsumerGroupMedia, consumerName, m.batchSize, m.blockTime)
	if err != nil {
		if m.ctx.Err() != nil {
			return
		}
		log.WithError(err).Warn("read failed")
		select {
		case <-time.After(time.Second):
		case <-m.ctx.Done():
		}
		return
	}
	m.handleMessages(log, messages)
}

// handleMessages processes a batch and acknowledges every message. Failed
// deletes are logged and not retried.
func (m *Manager) handleMessages(log *logrus.Entry, messages []queue.Message) {
	for _, msg := range messages {
		if err := m.handler.HandleEvent(m.ctx, msg.Event); err != nil {
			log.WithError(err).WithField("msg_id", msg.ID).Warn("media cleanup failed, dropping")
		}
		if err := m.consumer.Ack(m.ctx, queue.StreamMedia, queue.ConsumerGroupMedia, msg.ID); err != nil {
			log.WithError(err).WithField("msg_id", msg.ID).Error("ack failed")
		}
	}
}

func consumerNameForWorker(workerID int) string {
	return fmt.Sprintf("cleaner-%d", workerID)
}
