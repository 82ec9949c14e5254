// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	checkinqueue "github.com/hrforge/talentd/internal/adapters/mq/queue"
	workerpool "github.com/hrforge/talentd/internal/adapters/mq/worker"
	repository "github.com/hrforge/talentd/internal/adapters/repository"
	"github.com/hrforge/talentd/internal/ai"
	"github.com/hrforge/talentd/internal/domain/dashboard"
	"github.com/hrforge/talentd/internal/domain/dedupe"
	"github.com/hrforge/talentd/internal/domain/match"
	"github.com/hrforge/talentd/internal/domain/model"
	"github.com/hrforge/talentd/internal/domain/risk"
	"github.com/hrforge/talentd/internal/domain/scoreset"
	"github.com/hrforge/talentd/internal/domain/sentiment"
	"github.com/hrforge/talentd/internal/domain/workflow"
	"github.com/hrforge/talentd/pkg/logger"
	"github.com/hrforge/talentd/pkg/metrics"
)

// Service wires the decision engine components behind the API dependencies.
type Service struct {
	mu sync.RWMutex

	// Core components
	evaluations repository.EvaluationStore
	checkins    repository.CheckinStore
	directory   repository.DirectoryStore
	deduper     dedupe.Deduper
	queue       checkinqueue.Queue
	pool        *workerpool.Pool

	classifier   *sentiment.Classifier
	insighter    *workflow.Insighter
	matchScorer  *match.Scorer
	riskScorer   *risk.Scorer

	// Configuration
	workerCount       int
	queueSize         int
	dedupeSize        int
	capability        ai.Capability
	capabilityTimeout time.Duration
	overlapWeight     float64
	similarityWeight  float64
	tenureThreshold   time.Duration
	criterionWeights  map[string]float64

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of classification workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the check-in queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCapability sets the external text capability shared by the
// classifier, the match scorer, and the insighter. Nil means offline:
// every component uses its deterministic fallback.
func WithCapability(capability ai.Capability) Option {
	return func(s *Service) {
		s.capability = capability
	}
}

// WithCapabilityTimeout bounds each external capability call.
func WithCapabilityTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.capabilityTimeout = timeout
		}
	}
}

// WithMatchWeights sets the overlap/similarity split for match scoring.
func WithMatchWeights(overlap, similarity float64) Option {
	return func(s *Service) {
		if overlap > 0 && similarity > 0 {
			s.overlapWeight = overlap
			s.similarityWeight = similarity
		}
	}
}

// WithRiskTenureThreshold sets the tenure at which tenure risk reaches zero.
func WithRiskTenureThreshold(threshold time.Duration) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.tenureThreshold = threshold
		}
	}
}

// WithCriterionWeights sets the default weights applied when an evaluation
// is created without explicit ones.
func WithCriterionWeights(weights map[string]float64) Option {
	return func(s *Service) {
		if len(weights) > 0 {
			s.criterionWeights = weights
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:       runtime.NumCPU() * 2,
		queueSize:         10_000,
		dedupeSize:        50_000,
		capabilityTimeout: 5 * time.Second,
		overlapWeight:     0.7,
		similarityWeight:  0.3,
		tenureThreshold:   5 * 365 * 24 * time.Hour,
		criterionWeights: map[string]float64{
			"technical":    0.25,
			"productivity": 0.20,
			"teamwork":     0.20,
			"innovation":   0.20,
			"attendance":   0.15,
		},
		stopCh: make(chan struct{}),
		logger: nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting decision engine...")

	// Initialize stores
	s.evaluations = repository.NewMemEvaluationStore()
	s.checkins = repository.NewMemCheckinStore()
	s.directory = repository.NewMemDirectoryStore()
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = checkinqueue.NewInMemoryQueue(
		checkinqueue.WithCapacity(s.queueSize),
	)

	// Initialize engine components. A nil capability leaves every component
	// on its deterministic fallback.
	s.classifier = sentiment.NewClassifier(
		sentiment.WithCapability(s.capability),
		sentiment.WithCapabilityTimeout(s.capabilityTimeout),
		sentiment.WithLogger(s.logger),
	)
	s.insighter = workflow.NewInsighter(
		workflow.WithCapability(s.capability),
		workflow.WithCapabilityTimeout(s.capabilityTimeout),
		workflow.WithLogger(s.logger),
	)
	s.matchScorer = match.NewScorer(
		match.WithCapability(s.capability),
		match.WithWeights(s.overlapWeight, s.similarityWeight),
		match.WithCapabilityTimeout(s.capabilityTimeout),
		match.WithLogger(s.logger),
	)
	s.riskScorer = risk.NewScorer(
		risk.WithTenureThreshold(s.tenureThreshold),
	)

	// Start the classification pool
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.classifier, s.checkins)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "decision engine started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Bool("capability", s.capability != nil),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping decision engine...")

	// Stop worker pool first so in-flight classifications drain
	if s.pool != nil {
		s.pool.Stop()
	}

	// Close queue
	if q, ok := s.queue.(*checkinqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	// Signal cleanup loop to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "decision engine stopped")
}

// CreateEvaluation creates a Draft evaluation for an employee and period.
// When weights is empty the configured default criterion weights apply.
func (s *Service) CreateEvaluation(ctx context.Context, employeeID, period string, values, weights map[string]float64) (workflow.Evaluation, error) {
	if weights == nil {
		weights = s.criterionWeights
	}
	scores, err := scoreset.New(values, weights)
	if err != nil {
		return workflow.Evaluation{}, err
	}

	ev, err := s.evaluations.Create(ctx, workflow.NewEvaluation("", employeeID, period, scores))
	if err != nil {
		return workflow.Evaluation{}, err
	}

	metrics.RecordEvaluationCreated()
	s.logger.Debug(ctx, "evaluation created",
		logger.String("id", ev.ID),
		logger.String("employeeID", employeeID),
		logger.String("period", period),
	)
	return ev, nil
}

// GetEvaluation returns the latest committed state of an evaluation.
func (s *Service) GetEvaluation(ctx context.Context, id string) (workflow.Evaluation, error) {
	return s.evaluations.Get(ctx, id)
}

// SubmitEvaluation moves a Draft evaluation to Submitted, computing its
// weighted average and recommendation.
func (s *Service) SubmitEvaluation(ctx context.Context, id string) (workflow.Evaluation, error) {
	ev, err := s.evaluations.Update(ctx, id, func(e *workflow.Evaluation) error {
		return e.Submit(time.Now().UTC())
	})
	if err != nil {
		return workflow.Evaluation{}, err
	}

	metrics.RecordEvaluationSubmitted()
	return ev, nil
}

// ApproveEvaluation moves a Submitted evaluation to Approved.
func (s *Service) ApproveEvaluation(ctx context.Context, id, approver string) (workflow.Evaluation, error) {
	ev, err := s.evaluations.Update(ctx, id, func(e *workflow.Evaluation) error {
		return e.Approve(approver, time.Now().UTC())
	})
	if err != nil {
		return workflow.Evaluation{}, err
	}

	metrics.RecordEvaluationApproved()
	return ev, nil
}

// RejectEvaluation moves a Submitted evaluation to Rejected. A reason is
// mandatory.
func (s *Service) RejectEvaluation(ctx context.Context, id, approver, reason string) (workflow.Evaluation, error) {
	ev, err := s.evaluations.Update(ctx, id, func(e *workflow.Evaluation) error {
		return e.Reject(approver, reason, time.Now().UTC())
	})
	if err != nil {
		return workflow.Evaluation{}, err
	}

	metrics.RecordEvaluationRejected()
	return ev, nil
}

// GenerateInsight produces (and stores) the narrative summary for an
// evaluation that has left Draft. Repeat calls return the stored narrative.
func (s *Service) GenerateInsight(ctx context.Context, id string) (string, error) {
	ev, err := s.evaluations.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if ev.Insight != "" {
		return ev.Insight, nil
	}

	narrative, err := s.insighter.Generate(ctx, &ev)
	if err != nil {
		return "", err
	}

	updated, err := s.evaluations.Update(ctx, id, func(e *workflow.Evaluation) error {
		if e.Insight == "" {
			e.Insight = narrative
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return updated.Insight, nil
}

// ScoreMatch computes candidate-role fit.
func (s *Service) ScoreMatch(ctx context.Context, candidate match.Candidate, role *match.Role) (match.Result, error) {
	result, err := s.matchScorer.Score(ctx, candidate, role)
	if err != nil {
		return match.Result{}, err
	}

	metrics.RecordMatchScored()
	return result, nil
}

// RankCandidates scores every candidate against the role and orders them
// best first.
func (s *Service) RankCandidates(ctx context.Context, candidates []match.RankedCandidate, role *match.Role) ([]match.RankedResult, error) {
	results, err := s.matchScorer.Rank(ctx, candidates, role)
	if err != nil {
		return nil, err
	}

	metrics.RecordMatchScored()
	return results, nil
}

// SubmitCheckin validates, dedupes, and enqueues a check-in for asynchronous
// classification. A full queue surfaces as ErrBacklogFull and the message ID
// is released so the caller can retry.
func (s *Service) SubmitCheckin(ctx context.Context, event model.CheckinEvent) error {
	if event.MessageID == "" {
		return fmt.Errorf("%w: message id is blank", ErrInvalidCheckin)
	}
	if event.Message == "" {
		return fmt.Errorf("%w: message text is blank", ErrInvalidCheckin)
	}
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now().UTC()
	}

	if s.deduper.SeenAndRecord(ctx, event.MessageID) {
		metrics.RecordCheckinDuplicate()
		s.logger.Debug(ctx, "duplicate check-in, skipping",
			logger.String("messageID", event.MessageID),
		)
		return fmt.Errorf("%w: %s", ErrDuplicateCheckin, event.MessageID)
	}

	if !s.queue.Enqueue(ctx, event) {
		// Release the ID so the same message can be retried once the
		// backlog drains.
		s.deduper.Unrecord(ctx, event.MessageID)
		return fmt.Errorf("%w: %d queued", ErrBacklogFull, s.queue.Len(ctx))
	}
	return nil
}

// GetCheckin returns a classified check-in by message ID. A message that is
// still queued reports not found until a worker commits its classification.
func (s *Service) GetCheckin(ctx context.Context, messageID string) (model.CheckinRecord, error) {
	return s.checkins.Get(ctx, messageID)
}

// ScoreRisk computes the turnover risk for an evaluation history.
func (s *Service) ScoreRisk(_ context.Context, history risk.History) (risk.Result, error) {
	result, err := s.riskScorer.Score(history)
	if err != nil {
		return risk.Result{}, err
	}

	metrics.RecordRiskScored(string(result.Band))
	return result, nil
}

// UpsertEmployee stores an employee record for dashboard rollups.
func (s *Service) UpsertEmployee(ctx context.Context, e model.Employee) (model.Employee, error) {
	return s.directory.UpsertEmployee(ctx, e)
}

// UpsertEquipment stores an equipment record for dashboard rollups.
func (s *Service) UpsertEquipment(ctx context.Context, e model.Equipment) (model.Equipment, error) {
	return s.directory.UpsertEquipment(ctx, e)
}

// UpsertTraining stores a training record for dashboard rollups.
func (s *Service) UpsertTraining(ctx context.Context, t model.Training) (model.Training, error) {
	return s.directory.UpsertTraining(ctx, t)
}

// Dashboard aggregates rollups over everything currently stored.
func (s *Service) Dashboard(ctx context.Context) dashboard.Rollups {
	return dashboard.Aggregate(dashboard.Input{
		Employees:   s.directory.Employees(ctx),
		Evaluations: s.evaluations.List(ctx),
		Equipment:   s.directory.Equipment(ctx),
		Trainings:   s.directory.Trainings(ctx),
	}, time.Now().UTC())
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["evaluations"] = s.evaluations.Count(ctx)
		stats["checkins"] = s.checkins.Count(ctx)

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
