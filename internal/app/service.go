// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"maps"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/quizpattern/internal/adapters/mq/queue"
	"github.com/okian/quizpattern/internal/adapters/mq/worker"
	"github.com/okian/quizpattern/internal/adapters/repository"
	"github.com/okian/quizpattern/internal/domain/analysis"
	"github.com/okian/quizpattern/internal/domain/cluster"
	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/internal/domain/report"
	"github.com/okian/quizpattern/internal/domain/sequence"
	"github.com/okian/quizpattern/internal/domain/types"
	"github.com/okian/quizpattern/pkg/logger"
	"github.com/okian/quizpattern/pkg/metrics"
)

// partitionsPerWorker controls how finely a run splits the contestants.
const partitionsPerWorker = 4

// Service owns the loaded event log and runs analyses over it.
type Service struct {
	mu sync.RWMutex

	// Core components
	standings repository.Store
	source    Source

	// Loaded log; replaced wholesale by Load, never mutated.
	events    []model.Event
	sequences []*model.Sequence
	version   uint64

	// Configuration
	workerCount int
	queueSize   int
	analysis    analysis.Options

	// Report cache for the current version.
	runMu     sync.Mutex
	cached    *report.Report
	cachedVer uint64
	lastRun   runInfo
	runs      int

	// State
	started bool
	stopCtx context.Context
	stop    context.CancelFunc

	// Logging
	logger logger.Logger
}

type runInfo struct {
	ID         string
	Duration   time.Duration
	Partitions int
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		analysis:    analysis.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the standings store and loads the configured source.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if err := s.analysis.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.logger.Info(ctx, "starting analysis service...")

	s.standings = repository.NewTreapStore()
	s.stopCtx, s.stop = context.WithCancel(context.Background())
	s.started = true
	src := s.source
	s.mu.Unlock()

	var events []model.Event
	if src != nil {
		var err error
		events, err = src(ctx)
		if err != nil {
			s.Stop()
			return fmt.Errorf("%w: %w", ErrSource, err)
		}
	}
	if err := s.Load(ctx, events); err != nil {
		s.Stop()
		return err
	}

	s.logger.Info(ctx, "analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop cancels in-flight runs and marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.stop()
	s.started = false
	s.logger.Info(context.Background(), "analysis service stopped")
}

// Load replaces the event log with events, kept as given. Repeated rows are
// dropped by the dataset reader, so Load and analysis.Run see the same log.
// The standings are rebuilt from the new log.
func (s *Service) Load(ctx context.Context, events []model.Event) error {
	start := time.Now()
	kept := append([]model.Event(nil), events...)
	seqs := sequence.Build(kept)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}

	s.standings.Reset(ctx)
	for _, seq := range seqs {
		if err := s.standings.Upsert(ctx, types.StandingOf(seq)); err != nil {
			return fmt.Errorf("standings: %w", err)
		}
	}
	s.events = kept
	s.sequences = seqs
	s.version++
	metrics.UpdateContestants(len(seqs))

	s.logger.Info(ctx, "event log loaded",
		logger.Int("events", len(kept)),
		logger.Int("contestants", len(seqs)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// Report analyzes the loaded log. Runs over the same log return the cached
// report.
func (s *Service) Report(ctx context.Context) (*report.Report, error) {
	s.mu.RLock()
	if !s.started {
		s.mu.RUnlock()
		return nil, ErrNotStarted
	}
	seqs, ver, stopCtx := s.sequences, s.version, s.stopCtx
	s.mu.RUnlock()

	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cached != nil && s.cachedVer == ver {
		return s.cached, nil
	}

	rep, info, err := s.run(ctx, stopCtx, seqs)
	if err != nil {
		metrics.RecordAnalysisError()
		s.logger.Error(ctx, "analysis failed", logger.String("run_id", info.ID), logger.Error(err))
		return nil, err
	}
	s.cached, s.cachedVer = rep, ver
	s.lastRun = info
	s.runs++
	return rep, nil
}

// run partitions seqs over a fresh queue and worker pool and reduces the
// per-worker partials.
func (s *Service) run(ctx, stopCtx context.Context, seqs []*model.Sequence) (*report.Report, runInfo, error) {
	info := runInfo{ID: uuid.NewString()}
	start := time.Now()
	log := s.logger.Named("run")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	unhook := context.AfterFunc(stopCtx, cancel)
	defer unhook()

	opts := s.analysis
	q := queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	pool, err := worker.NewPool(s.workerCount, q,
		func() (*analysis.Partial, error) { return analysis.NewPartial(opts) },
		worker.WithLogger(log),
	)
	if err != nil {
		return nil, info, err
	}
	if err := pool.Start(runCtx); err != nil {
		return nil, info, err
	}

	chunk := max(1, (len(seqs)+pool.Size()*partitionsPerWorker-1)/(pool.Size()*partitionsPerWorker))
	for lo := 0; lo < len(seqs); lo += chunk {
		hi := min(lo+chunk, len(seqs))
		if err := q.Enqueue(runCtx, queue.Partition{Index: info.Partitions, Sequences: seqs[lo:hi]}); err != nil {
			cancel()
			_ = q.Close()
			_, _ = pool.Wait()
			return nil, info, fmt.Errorf("enqueue partition %d: %w", info.Partitions, err)
		}
		info.Partitions++
	}
	_ = q.Close()

	partials, err := pool.Wait()
	if err != nil {
		return nil, info, err
	}
	merged, err := analysis.Reduce(opts, partials...)
	if err != nil {
		return nil, info, err
	}
	rep := merged.Report()
	info.Duration = time.Since(start)

	metrics.RecordAnalysisRun(float64(info.Duration.Milliseconds()))
	metrics.UpdateContestants(merged.Contestants())
	sizes := merged.TableSizes()
	for _, table := range slices.Sorted(maps.Keys(sizes)) {
		metrics.UpdatePatternsMaterialized(table, sizes[table])
	}
	for _, b := range []cluster.Bucket{cluster.HighPerformers, cluster.MidPerformers, cluster.EarlyEliminators, cluster.JokerDependent} {
		metrics.UpdateClusterContestants(string(b), len(rep.Clusters.Members(b)))
	}

	log.Info(ctx, "analysis complete",
		logger.String("run_id", info.ID),
		logger.Int("contestants", merged.Contestants()),
		logger.Int("workers", pool.Size()),
		logger.Int("partitions", info.Partitions),
		logger.Int("sequential_patterns", sizes[report.SectionSequential]),
		logger.Duration("took", info.Duration),
	)
	return rep, info, nil
}

// Section returns one top-level section of the current report.
func (s *Service) Section(ctx context.Context, name string) (any, error) {
	rep, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}
	return rep.Section(name)
}

// TopN returns the best n standings.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Standing, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return store.TopN(ctx, n)
}

// Rank returns the standing of one contestant.
func (s *Service) Rank(ctx context.Context, contestantID string) (types.Standing, error) {
	store, err := s.store()
	if err != nil {
		return types.Standing{}, err
	}
	return store.Rank(ctx, contestantID)
}

func (s *Service) store() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.standings, nil
}

// Events returns the loaded log. Callers must not modify it.
func (s *Service) Events() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"events":      len(s.events),
		"contestants": len(s.sequences),
	}
	if s.started {
		stats["standings"] = s.standings.Count(context.Background())
	}
	s.mu.RUnlock()

	s.runMu.Lock()
	stats["runs"] = s.runs
	if s.lastRun.ID != "" {
		stats["lastRunID"] = s.lastRun.ID
		stats["lastRunMs"] = s.lastRun.Duration.Milliseconds()
		stats["lastRunPartitions"] = s.lastRun.Partitions
	}
	s.runMu.Unlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystemMemoryUsage(mem.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	return stats
}
