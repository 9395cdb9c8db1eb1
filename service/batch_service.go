package service

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"

	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/analyzer"
	"github.com/ludo-technologies/codeguard/internal/config"
	"github.com/ludo-technologies/codeguard/internal/constants"
	"github.com/ludo-technologies/codeguard/internal/voting"
)

// evaluateFunc scores one pair with one detector
type evaluateFunc func(d analyzer.Detector, a, b *analyzer.SourceUnit, threshold float64) domain.DetectorResult

// BatchServiceImpl implements the domain.BatchService interface
type BatchServiceImpl struct {
	registry   *config.PresetRegistry
	thresholds *config.ThresholdManager
	options    analyzer.Options
	logger     *slog.Logger
	evaluate   evaluateFunc

	defaultPreset string
}

// BatchOption configures a BatchServiceImpl
type BatchOption func(*BatchServiceImpl)

// WithLogger sets the structured logger; the default discards everything
func WithLogger(logger *slog.Logger) BatchOption {
	return func(s *BatchServiceImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPresetRegistry sets the registry used to resolve preset names
func WithPresetRegistry(registry *config.PresetRegistry) BatchOption {
	return func(s *BatchServiceImpl) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithDefaultPreset sets the preset used when a request names none
func WithDefaultPreset(name string) BatchOption {
	return func(s *BatchServiceImpl) {
		if strings.TrimSpace(name) != "" {
			s.defaultPreset = name
		}
	}
}

// WithAnalyzerOptions sets the representation options
func WithAnalyzerOptions(opts analyzer.Options) BatchOption {
	return func(s *BatchServiceImpl) {
		s.options = opts
	}
}

// NewBatchService creates a new batch service
func NewBatchService(opts ...BatchOption) *BatchServiceImpl {
	s := &BatchServiceImpl{
		registry:      config.NewPresetRegistry(),
		thresholds:    config.NewThresholdManager(),
		options:       analyzer.DefaultOptions(),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		evaluate:      evaluateDetector,
		defaultPreset: constants.PresetStandard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func evaluateDetector(d analyzer.Detector, a, b *analyzer.SourceUnit, threshold float64) domain.DetectorResult {
	return d.Evaluate(a, b, threshold)
}

type pairJob struct {
	a, b *analyzer.SourceUnit
}

type pairOutcome struct {
	done     bool
	record   domain.PairRecord
	decision domain.VotingDecision
}

// Run compares every unordered pair of files in req.
//
// Preset and input errors are returned before any pair is evaluated. Per-file
// and per-detector failures never abort the batch; they degrade the affected
// results. If ctx is cancelled, no new pair is started, pairs already running
// finish, and the partial result is returned with Cancelled set.
func (s *BatchServiceImpl) Run(ctx context.Context, req domain.BatchRequest) (*domain.BatchResult, error) {
	start := time.Now()

	preset, err := s.thresholds.Resolve(s.registry, s.presetName(req.PresetName), req.Overrides)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.options.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid analyzer options", err)
	}

	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	detectors, err := analyzer.Detectors(preset.EnabledKinds(), s.options)
	if err != nil {
		return nil, err
	}

	cache, err := BuildUnitCache(ctx, req.Files, UnitCacheConfig{Options: s.options, Concurrency: workers})
	if err != nil {
		return nil, err
	}

	ids := cache.IDs()
	units := make([]domain.UnitStatus, 0, len(ids))
	for _, id := range ids {
		u, _ := cache.Get(id)
		st := u.Status()
		for _, e := range st.Errors {
			s.logger.Warn("degraded source file", "file", id, "code", e.Code, "error", e.Message)
		}
		units = append(units, st)
	}

	jobs := make([]pairJob, 0, len(ids)*(len(ids)-1)/2)
	for i := 0; i < len(ids); i++ {
		a, _ := cache.Get(ids[i])
		for j := i + 1; j < len(ids); j++ {
			b, _ := cache.Get(ids[j])
			jobs = append(jobs, pairJob{a: a, b: b})
		}
	}
	s.logger.Debug("starting batch", "preset", preset.Name, "files", len(ids), "pairs", len(jobs), "workers", workers)

	outcomes := make([]pairOutcome, len(jobs))
	progress := newProgressCounter(req.Progress, len(jobs))

	p := pool.New().WithMaxGoroutines(workers)
	for i, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			d := s.comparePair(job, detectors, preset)
			outcomes[i] = pairOutcome{
				done:     true,
				record:   domain.NewPairRecord(job.a.ID, job.b.ID, d),
				decision: d,
			}
			progress.increment()
		})
	}
	p.Wait()

	result := &domain.BatchResult{
		Preset: preset,
		Units:  units,
	}
	decisions := make([]domain.VotingDecision, 0, len(jobs))
	for _, o := range outcomes {
		if !o.done {
			continue
		}
		result.Pairs = append(result.Pairs, o.record)
		decisions = append(decisions, o.decision)
	}
	result.Cancelled = len(result.Pairs) < len(jobs)
	result.Summary = Summarize(decisions, units, len(jobs))
	result.Clusters = BuildClusters(result.Pairs)
	result.Duration = time.Since(start).Milliseconds()

	if result.Cancelled {
		s.logger.Warn("batch cancelled", "compared", len(result.Pairs), "pairs", len(jobs))
	}
	return result, nil
}

// comparePair runs the enabled detectors concurrently and fuses their results
func (s *BatchServiceImpl) comparePair(job pairJob, detectors []analyzer.Detector, preset domain.Preset) domain.VotingDecision {
	results := make([]domain.DetectorResult, len(detectors))

	var wg conc.WaitGroup
	for i, d := range detectors {
		wg.Go(func() {
			kind := d.Kind()
			threshold := preset.Setting(kind).Threshold

			var pc panics.Catcher
			pc.Try(func() {
				results[i] = s.evaluate(d, job.a, job.b, threshold)
			})
			if rec := pc.Recovered(); rec != nil {
				s.logger.Warn("detector panicked",
					"detector", string(kind),
					"file_a", job.a.ID,
					"file_b", job.b.ID,
					"code", domain.ErrCodeDetectorInternal,
					"panic", rec.Value,
				)
				results[i] = domain.UnavailableResult(kind, threshold, domain.NewDetectorInternalError(kind, rec.AsError()))
			}
		})
	}
	wg.Wait()

	return voting.Decide(results, preset)
}

func (s *BatchServiceImpl) presetName(name string) string {
	if strings.TrimSpace(name) == "" {
		return s.defaultPreset
	}
	return name
}

// progressCounter serialises progress callbacks so done strictly increases
type progressCounter struct {
	mu    sync.Mutex
	done  int
	total int
	fn    domain.ProgressFunc
}

func newProgressCounter(fn domain.ProgressFunc, total int) *progressCounter {
	return &progressCounter{fn: fn, total: total}
}

func (c *progressCounter) increment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done++
	if c.fn != nil {
		c.fn(c.done, c.total)
	}
}
