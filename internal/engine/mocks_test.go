package engine_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tartampluch/go-growth/internal/engine"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockFetcher simulates the directory download using `testify/mock`.
type MockFetcher struct {
	mock.Mock
}

// Fetch implements the engine.VCardFetcher interface.
func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMeasurements implements engine.MeasurementSource.
type MockMeasurements struct {
	mock.Mock
}

func (m *MockMeasurements) FetchMeasurements(ctx context.Context, childID string) ([]engine.MeasurementRecord, error) {
	args := m.Called(ctx, childID)
	if r := args.Get(0); r != nil {
		return r.([]engine.MeasurementRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockClock controls time for deterministic testing. Timers only fire
// through Fire.
type MockClock struct {
	CurrentTime time.Time

	mu     sync.Mutex
	timers []*mockTimer
}

func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

func (m *MockClock) AfterFunc(d time.Duration, f func()) engine.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &mockTimer{delay: d, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Fire runs every pending timer.
func (m *MockClock) Fire() {
	m.mu.Lock()
	pending := m.timers
	m.timers = nil
	m.mu.Unlock()

	for _, t := range pending {
		if !t.stopped {
			t.f()
		}
	}
}

// Pending counts timers that were neither stopped nor fired.
func (m *MockClock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

type mockTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (t *mockTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// stubBackend is a hand-rolled engine.Backend: the reference fan-out issues
// hundreds of calls, which a recorded mock would make unreadable.
type stubBackend struct {
	records    map[string][]engine.MeasurementRecord
	prediction *engine.Prediction
	ent        engine.Entitlement
	reference  func(g engine.Gender, age int, m engine.Metric) (*engine.ReferencePoint, error)

	measErr, predErr, entErr error

	// block holds FetchMeasurements for a child until the channel is closed.
	block   map[string]chan struct{}
	entered chan string

	mu        sync.Mutex
	measCalls int
	refCalls  int
}

func (s *stubBackend) FetchMeasurements(ctx context.Context, childID string) ([]engine.MeasurementRecord, error) {
	s.mu.Lock()
	s.measCalls++
	s.mu.Unlock()

	if ch, ok := s.block[childID]; ok {
		if s.entered != nil {
			s.entered <- childID
		}
		<-ch
	}
	if s.measErr != nil {
		return nil, s.measErr
	}
	return s.records[childID], nil
}

func (s *stubBackend) FetchPrediction(ctx context.Context, childID string, horizonDays int) (*engine.Prediction, error) {
	return s.prediction, s.predErr
}

func (s *stubBackend) FetchEntitlement(ctx context.Context, accountID string) (engine.Entitlement, error) {
	return s.ent, s.entErr
}

func (s *stubBackend) FetchReferencePoint(ctx context.Context, g engine.Gender, age int, m engine.Metric) (*engine.ReferencePoint, error) {
	s.mu.Lock()
	s.refCalls++
	s.mu.Unlock()
	if s.reference == nil {
		return nil, nil
	}
	return s.reference(g, age, m)
}

// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

func f64(v float64) *float64 { return &v }

// fullGrid returns a reference grid on every sampling age.
func fullGrid() []engine.ReferencePoint {
	var out []engine.ReferencePoint
	for _, age := range engine.GridAges() {
		out = append(out, refPoint(age))
	}
	return out
}

func refPoint(age int) engine.ReferencePoint {
	median := 50 + float64(age)/40
	return engine.ReferencePoint{
		AgeInDays:   age,
		AgeInMonths: age / 30,
		Median:      median,
		SD3Neg:      median - 10,
		SD3Pos:      median + 10,
	}
}

func gridOf(ages ...int) []engine.ReferencePoint {
	out := make([]engine.ReferencePoint, 0, len(ages))
	for _, a := range ages {
		out = append(out, refPoint(a))
	}
	return out
}

func heightAt(age int, v float64) engine.MeasurementRecord {
	return engine.MeasurementRecord{
		AgeInDays: age,
		Height:    f64(v),
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, age),
	}
}

func ages(pts []engine.ReferencePoint) []int {
	out := make([]int, 0, len(pts))
	for _, p := range pts {
		out = append(out, p.AgeInDays)
	}
	return out
}
