package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-growth/internal/engine"
)

func gridSource(g engine.Gender, age int, m engine.Metric) (*engine.ReferencePoint, error) {
	p := refPoint(age)
	return &p, nil
}

func TestEngine_LoadAndBuild(t *testing.T) {
	backend := &stubBackend{
		records: map[string][]engine.MeasurementRecord{
			"kid": {heightAt(60, 58), heightAt(120, 62)},
		},
		prediction: &engine.Prediction{Points: []engine.PredictionPoint{{AgeInDays: 150, PredictedHeight: f64(64)}}},
		ent:        engine.Entitlement{IsVIP: true},
		reference:  gridSource,
	}
	clock := &MockClock{CurrentTime: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	e := engine.NewEngine(backend, clock)
	key := engine.ChildKey{ChildID: "kid", Gender: engine.GenderMale}

	snap, err := e.Load(context.Background(), key, "acc", false)

	require.NoError(t, err)
	assert.Equal(t, key, snap.Key)
	assert.Equal(t, clock.CurrentTime, snap.LoadedAt)
	assert.Len(t, snap.Reference, 4)
	assert.Len(t, snap.Reference[engine.MetricHeight], 144)
	assert.Equal(t, 144*4, backend.refCalls)

	ds := e.Build(snap, engine.MetricHeight)
	assert.True(t, ds.PredictionAllowed)
	assert.Contains(t, kinds(ds), engine.SeriesPrediction)

	all := e.BuildAll(snap)
	assert.Len(t, all, 4)
}

func TestEngine_LoadUsesSessionCache(t *testing.T) {
	backend := &stubBackend{reference: gridSource}
	e := engine.NewEngine(backend, &MockClock{})
	key := engine.ChildKey{ChildID: "kid", Gender: engine.GenderFemale}

	first, err := e.Load(context.Background(), key, "acc", false)
	require.NoError(t, err)
	second, err := e.Load(context.Background(), key, "acc", false)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, backend.measCalls)

	third, err := e.Load(context.Background(), key, "acc", true)
	require.NoError(t, err)
	assert.NotSame(t, first, third, "refetch bypasses the cache")
	assert.Equal(t, 2, backend.measCalls)

	other := engine.ChildKey{ChildID: "sibling", Gender: engine.GenderFemale}
	_, err = e.Load(context.Background(), other, "acc", false)
	require.NoError(t, err)
	assert.Equal(t, 3, backend.measCalls, "child switch misses the cache")
}

func TestEngine_UpstreamFailuresBecomeAbsentData(t *testing.T) {
	backend := &stubBackend{
		measErr: errors.New("boom"),
		predErr: errors.New("boom"),
		entErr:  errors.New("boom"),
		reference: func(engine.Gender, int, engine.Metric) (*engine.ReferencePoint, error) {
			return nil, errors.New("boom")
		},
	}
	e := engine.NewEngine(backend, &MockClock{})

	snap, err := e.Load(context.Background(), engine.ChildKey{ChildID: "kid"}, "acc", false)

	require.NoError(t, err)
	assert.Empty(t, snap.Measurements)
	assert.Nil(t, snap.Prediction)
	assert.False(t, snap.Entitlement.IsVIP)
	assert.Empty(t, snap.Reference[engine.MetricWeight])

	ds := e.Build(snap, engine.MetricWeight)
	assert.Len(t, ds.Series, 1, "degenerate dataset still renders")
}

func TestEngine_SupersededLoadIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	backend := &stubBackend{
		records: map[string][]engine.MeasurementRecord{"new": {heightAt(30, 54)}},
		block:   map[string]chan struct{}{"old": release},
		entered: make(chan string, 1),
	}
	e := engine.NewEngine(backend, &MockClock{})

	type result struct {
		snap *engine.Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := e.Load(context.Background(), engine.ChildKey{ChildID: "old"}, "acc", false)
		done <- result{snap, err}
	}()
	<-backend.entered

	newSnap, err := e.Load(context.Background(), engine.ChildKey{ChildID: "new"}, "acc", false)
	require.NoError(t, err)

	close(release)
	old := <-done

	assert.ErrorIs(t, old.err, engine.ErrSuperseded)
	assert.Nil(t, old.snap)

	cached, err := e.Load(context.Background(), engine.ChildKey{ChildID: "new"}, "acc", false)
	require.NoError(t, err)
	assert.Same(t, newSnap, cached, "the late load did not overwrite the cache")
}

func TestEngine_ContextCancelled(t *testing.T) {
	e := engine.NewEngine(&stubBackend{}, &MockClock{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Load(ctx, engine.ChildKey{ChildID: "kid"}, "acc", false)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_NilBackend(t *testing.T) {
	e := engine.NewEngine(nil, nil)

	_, err := e.Load(context.Background(), engine.ChildKey{}, "", false)
	assert.Error(t, err)
}

func TestEngine_SetLabels(t *testing.T) {
	e := engine.NewEngine(&stubBackend{}, &MockClock{})
	e.SetLabels(func(k engine.SeriesKind) string { return "x-" + k.String() })

	snap := &engine.Snapshot{Measurements: []engine.MeasurementRecord{heightAt(30, 54)}}
	ds := e.Build(snap, engine.MetricHeight)

	assert.Equal(t, []string{"x-actual"}, ds.Legend)
}

func TestGeneration(t *testing.T) {
	var g engine.Generation
	a := g.Next()
	assert.True(t, g.IsCurrent(a))
	b := g.Next()
	assert.False(t, g.IsCurrent(a))
	assert.True(t, g.IsCurrent(b))
}

func TestSessionCache(t *testing.T) {
	var c engine.SessionCache
	key := engine.ChildKey{ChildID: "a", Gender: engine.GenderMale}

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Store(&engine.Snapshot{Key: key})
	_, ok = c.Get(key)
	assert.True(t, ok)
	_, ok = c.Get(engine.ChildKey{ChildID: "a", Gender: engine.GenderFemale})
	assert.False(t, ok, "gender is part of the key")

	c.Invalidate()
	_, ok = c.Get(key)
	assert.False(t, ok)
}
