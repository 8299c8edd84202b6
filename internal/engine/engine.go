package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-growth/internal/config"
	"github.com/tartampluch/go-growth/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Backend is the set of collaborator calls the engine consumes.
type Backend interface {
	ReferenceSource
	FetchMeasurements(ctx context.Context, childID string) ([]MeasurementRecord, error)
	FetchPrediction(ctx context.Context, childID string, horizonDays int) (*Prediction, error)
	FetchEntitlement(ctx context.Context, accountID string) (Entitlement, error)
}

// Engine loads growth snapshots and turns them into chart datasets.
// Only the latest Load is kept: a load that finishes after a newer one was
// started returns ErrSuperseded.
type Engine struct {
	Backend Backend
	Clock   Clock

	labelsMu sync.RWMutex
	labels   LabelFunc

	cache SessionCache
	gen   Generation
}

// NewEngine creates an engine using the default labels.
func NewEngine(backend Backend, clock Clock) *Engine {
	if clock == nil {
		clock = RealClock{}
	}
	return &Engine{Backend: backend, Clock: clock}
}

// SetLabels changes the series labels used by later builds.
func (e *Engine) SetLabels(f LabelFunc) {
	e.labelsMu.Lock()
	defer e.labelsMu.Unlock()
	e.labels = f
}

func (e *Engine) builder() DatasetBuilder {
	e.labelsMu.RLock()
	defer e.labelsMu.RUnlock()
	return DatasetBuilder{Labels: e.labels}
}

// Invalidate drops the session cache.
func (e *Engine) Invalidate() {
	e.cache.Invalidate()
	slog.Debug(config.MsgCacheInvalidated, config.LogKeyComponent, config.CompEngine)
}

// Load returns the inputs of key, from the session cache unless refetch is
// set. Collaborator failures are logged and turn into absent data; the only
// errors are context cancellation and ErrSuperseded.
func (e *Engine) Load(ctx context.Context, key ChildKey, accountID string, refetch bool) (*Snapshot, error) {
	if e.Backend == nil {
		return nil, errors.New(config.ErrBackendMissing)
	}

	ticket := e.gen.Next()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyChild, key.ChildID,
		config.LogKeyGender, string(key.Gender),
		config.LogKeyTicket, ticket,
	)

	if refetch {
		e.Invalidate()
	} else if snap, ok := e.cache.Get(key); ok {
		metrics.SnapshotLoad(metrics.OutcomeCached)
		log.Debug(config.MsgLoadCached)
		return snap, nil
	}

	start := time.Now()
	log.Info(config.MsgLoadStarted)

	snap := &Snapshot{Key: key}
	var g errgroup.Group

	g.Go(func() error {
		recs, err := e.Backend.FetchMeasurements(ctx, key.ChildID)
		if err != nil {
			upstreamFailed(log, metrics.SourceMeasurements, err)
			return nil
		}
		snap.Measurements = recs
		return nil
	})
	g.Go(func() error {
		pred, err := e.Backend.FetchPrediction(ctx, key.ChildID, config.DefaultPredictionHorizonDays)
		if err != nil {
			upstreamFailed(log, metrics.SourcePrediction, err)
			return nil
		}
		snap.Prediction = pred
		return nil
	})
	g.Go(func() error {
		ent, err := e.Backend.FetchEntitlement(ctx, accountID)
		if err != nil {
			upstreamFailed(log, metrics.SourceEntitlement, err)
			return nil
		}
		snap.Entitlement = ent
		return nil
	})
	g.Go(func() error {
		snap.Reference = SampleReferenceGrid(ctx, e.Backend, key.Gender, Metrics())
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !e.gen.IsCurrent(ticket) {
		metrics.SnapshotLoad(metrics.OutcomeSuperseded)
		log.Debug(config.MsgLoadSuperseded)
		return nil, ErrSuperseded
	}

	snap.LoadedAt = e.Clock.Now()
	e.cache.Store(snap)
	metrics.SnapshotLoad(metrics.OutcomeLoaded)
	log.Info(config.MsgLoadFinished,
		config.LogKeyCount, len(snap.Measurements),
		config.LogKeyDuration, time.Since(start).Milliseconds())

	return snap, nil
}

// Build returns the dataset of metric m for snap. A nil snapshot yields the
// degenerate dataset.
func (e *Engine) Build(snap *Snapshot, m Metric) ChartDataset {
	if snap == nil {
		snap = &Snapshot{}
	}
	return e.builder().Build(m, snap.Measurements, snap.Reference[m], snap.Prediction, snap.Entitlement)
}

// BuildAll returns one dataset per metric.
func (e *Engine) BuildAll(snap *Snapshot) map[Metric]ChartDataset {
	out := make(map[Metric]ChartDataset, len(Metrics()))
	for _, m := range Metrics() {
		out[m] = e.Build(snap, m)
	}
	return out
}

func upstreamFailed(log *slog.Logger, source string, err error) {
	metrics.UpstreamFailure(source)
	log.Warn(config.MsgUpstreamFailed,
		config.LogKeySource, source,
		config.LogKeyError, err)
}
