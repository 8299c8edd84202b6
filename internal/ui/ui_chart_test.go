package ui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-growth/internal/config"
	"github.com/tartampluch/go-growth/internal/engine"
)

func TestLoadCharts_WithoutBackend(t *testing.T) {
	app, _, _ := setupTestApp(t)

	datasets, err := app.LoadCharts(app.Ctx, engine.ChildProfile{ID: "c1"}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrAPIURLEmpty)

	require.Len(t, datasets, len(engine.Metrics()))
	for _, ds := range datasets {
		require.Len(t, ds.Series, 1, "Degenerate dataset keeps a single anchor series")
		assert.Empty(t, ds.Legend)
	}
}

func TestLoadCharts_PublishesToServer(t *testing.T) {
	app, _, _ := setupTestApp(t)
	setLanguage(app, "en")
	withBackend(app, &stubBackend{records: []engine.MeasurementRecord{
		{AgeInDays: 120, Height: f64(61)},
		{AgeInDays: 300, Height: f64(70)},
	}})

	child := engine.ChildProfile{ID: "c1", Name: "Lan", Gender: engine.GenderFemale}
	datasets, err := app.LoadCharts(app.Ctx, child, false)
	require.NoError(t, err)

	height := datasets[engine.MetricHeight]
	assert.False(t, height.PredictionAllowed)
	assert.Equal(t, []engine.Advisory{engine.AdvisoryNotVIP}, height.Advisories)
	assert.Equal(t, []string{"Actual", "Standard", "Min", "Max"}, height.Legend)

	req := httptest.NewRequest(http.MethodGet, "/api/charts/c1/height", nil)
	rec := httptest.NewRecorder()
	app.Server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Actual"`)
}

func TestChartView_Apply(t *testing.T) {
	app, _, _ := setupTestApp(t)
	setLanguage(app, "en")

	v := app.newChartView()
	t.Cleanup(v.window.Close)
	require.Same(t, v, app.currentChartView())

	child := engine.ChildProfile{ID: "c1", Name: "Lan"}
	v.current = &child

	ds := engine.DatasetBuilder{Labels: app.SeriesLabel}.Build(engine.MetricHeight, []engine.MeasurementRecord{
		{AgeInDays: 100, Height: f64(60)},
	}, nil, nil, engine.Entitlement{})
	v.apply(child, map[engine.Metric]engine.ChartDataset{engine.MetricHeight: ds})

	assert.Equal(t, ds.Legend, v.charts[engine.MetricHeight].Dataset().Legend)
	assert.NotEmpty(t, v.charts[engine.MetricWeight].Dataset().Series, "Missing metrics get the degenerate dataset")
	assert.Contains(t, v.advisory.Text, app.AdvisoryText(engine.AdvisoryNotVIP))
	assert.Empty(t, v.narrative.Text)

	// A result for another child is dropped.
	other := engine.ChildProfile{ID: "c2"}
	v.apply(other, map[engine.Metric]engine.ChartDataset{})
	assert.Equal(t, ds.Legend, v.charts[engine.MetricHeight].Dataset().Legend)
}

func TestChartView_NarrativeWhenAllowed(t *testing.T) {
	app, _, _ := setupTestApp(t)

	v := app.newChartView()
	t.Cleanup(v.window.Close)
	child := engine.ChildProfile{ID: "c1"}
	v.current = &child

	ds := engine.ChartDataset{
		PredictionAllowed: true,
		Narrative:         &engine.Narrative{MedicalDisclaimer: "Consult a doctor."},
	}
	v.apply(child, map[engine.Metric]engine.ChartDataset{engine.MetricHeight: ds})

	assert.Equal(t, "Consult a doctor.", v.narrative.Text)
	assert.Empty(t, v.advisory.Text)
}

func TestShowChartWindow_Singleton(t *testing.T) {
	app, _, _ := setupTestApp(t)

	app.ShowChartWindow()
	v := app.currentChartView()
	require.NotNil(t, v)

	app.ShowChartWindow()
	assert.Same(t, v, app.currentChartView())

	v.window.Close()
	assert.Nil(t, app.currentChartView())
}
