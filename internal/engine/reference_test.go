package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-growth/internal/engine"
)

func TestGridAges(t *testing.T) {
	ages := engine.GridAges()

	require.Len(t, ages, 144)
	assert.Equal(t, 30, ages[0])
	assert.Equal(t, 4320, ages[len(ages)-1])
	for i := 1; i < len(ages); i++ {
		assert.Equal(t, 30, ages[i]-ages[i-1])
	}
}

func TestSampleReferenceGrid_DropsAbsentAndFailed(t *testing.T) {
	src := &stubBackend{reference: func(g engine.Gender, age int, m engine.Metric) (*engine.ReferencePoint, error) {
		switch {
		case age%90 == 0:
			return nil, nil
		case age == 4290:
			return nil, errors.New("upstream down")
		case m == engine.MetricBMI:
			return nil, nil
		}
		return &engine.ReferencePoint{Median: float64(age)}, nil
	}}

	grid := engine.SampleReferenceGrid(context.Background(), src, engine.GenderMale, engine.Metrics())

	require.Len(t, grid, 4)
	assert.Empty(t, grid[engine.MetricBMI])

	heights := grid[engine.MetricHeight]
	assert.Len(t, heights, 144-48-1) // every third age is absent, 4290 failed
	for i, p := range heights {
		assert.NotZero(t, p.AgeInDays%90)
		assert.Equal(t, float64(p.AgeInDays), p.Median)
		assert.Equal(t, p.AgeInDays/30, p.AgeInMonths)
		if i > 0 {
			assert.Less(t, heights[i-1].AgeInDays, p.AgeInDays)
		}
	}
}

func TestSampleReferenceGrid_CancelledContext(t *testing.T) {
	src := &stubBackend{reference: gridSource}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	grid := engine.SampleReferenceGrid(ctx, src, engine.GenderFemale, []engine.Metric{engine.MetricHeight})

	assert.Empty(t, grid[engine.MetricHeight])
	assert.Zero(t, src.refCalls)
}
