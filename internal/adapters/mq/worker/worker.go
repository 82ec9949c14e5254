// Package worker defines the pool that classifies queued check-in messages.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/hrforge/talentd/internal/domain/model"
	"github.com/hrforge/talentd/internal/domain/sentiment"
	"github.com/hrforge/talentd/pkg/logger"
	"github.com/hrforge/talentd/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Event abstracts what workers read off the queue.
type Event = model.CheckinEvent

// Classifier assigns a sentiment to a check-in message.
type Classifier interface {
	Classify(ctx context.Context, text string) (sentiment.Result, error)
}

// Sink receives classified check-in records.
type Sink interface {
	Put(ctx context.Context, rec model.CheckinRecord) error
}

// Queue defines how workers receive check-ins.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker processes check-ins off the queue until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for classifying check-ins.
type InMemoryWorker struct {
	queue      Queue
	classifier Classifier
	sink       Sink
	name       string

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, classifier Classifier, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      queue,
		classifier: classifier,
		sink:       sink,
		name:       "worker",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	eventChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if err := w.processCheckin(ctx, event); err != nil {
				w.logger.Error(ctx, "error processing check-in", logger.Error(err))
			}
		}
	}
}

// signalStop closes the shutdown channel exactly once.
func (w *InMemoryWorker) signalStop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.signalStop()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processCheckin classifies one check-in and stores the resulting record.
// Negative sentiment raises the requires-attention flag for supervisors.
func (w *InMemoryWorker) processCheckin(ctx context.Context, event Event) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	result, err := w.classifier.Classify(ctx, event.Message)
	if err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "classification failed for check-in",
			logger.String("messageID", event.MessageID),
			logger.Error(err),
		)
		return fmt.Errorf("classify check-in %s: %w", event.MessageID, err)
	}

	rec := model.CheckinRecord{
		MessageID:         event.MessageID,
		InternID:          event.InternID,
		Message:           event.Message,
		ReceivedAt:        event.ReceivedAt,
		Sentiment:         string(result.Label),
		Confidence:        result.Confidence,
		RequiresAttention: result.Label == sentiment.LabelNegative,
		ClassifiedAt:      time.Now().UTC(),
	}

	if err := w.sink.Put(ctx, rec); err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "storing classified check-in failed",
			logger.String("messageID", event.MessageID),
			logger.Error(err),
		)
		return fmt.Errorf("store check-in %s: %w", event.MessageID, err)
	}

	metrics.RecordCheckinClassified(rec.Sentiment)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	shutdown chan struct{}
	stopOnce sync.Once

	logger logger.Logger
}

// NewPool creates a pool of classification workers.
func NewPool(workerCount int, queue Queue, classifier Classifier, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    queue,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			classifier,
			sink,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.shutdown) })

	for _, worker := range p.workers {
		worker.signalStop()
	}
	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue and waits for the workers to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	p.stopOnce.Do(func() { close(p.shutdown) })

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
