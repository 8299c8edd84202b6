package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-growth/internal/config"
	"github.com/tartampluch/go-growth/internal/engine"
)

// chartView is the state of the growth chart window.
type chartView struct {
	app    *GrowthApp
	window fyne.Window

	children    []engine.ChildProfile
	childSelect *widget.Select
	tabs        *container.AppTabs
	charts      map[engine.Metric]*GrowthChart
	advisory    *widget.Label
	narrative   *widget.Label
	refreshBtn  *widget.Button

	current  *engine.ChildProfile
	datasets map[engine.Metric]engine.ChartDataset
}

// ShowChartWindow opens the growth chart window, or focuses it when open.
func (app *GrowthApp) ShowChartWindow() {
	if v := app.currentChartView(); v != nil {
		v.window.RequestFocus()
		return
	}

	slog.Info(config.LogMsgOpenChart, config.LogKeyComponent, config.CompUIChart)
	v := app.newChartView()
	v.window.Show()
}

// ShowChartFor opens the chart window on one child.
func (app *GrowthApp) ShowChartFor(child engine.ChildProfile) {
	app.ShowChartWindow()
	if v := app.currentChartView(); v != nil {
		v.childSelect.SetSelected(child.Name)
	}
}

func (app *GrowthApp) currentChartView() *chartView {
	app.ChildrenMut.RLock()
	defer app.ChildrenMut.RUnlock()
	return app.chartView
}

func (app *GrowthApp) newChartView() *chartView {
	v := &chartView{
		app:       app,
		window:    app.App.NewWindow(app.GetMsg(config.TKeyWinChart)),
		charts:    make(map[engine.Metric]*GrowthChart),
		advisory:  widget.NewLabel(""),
		narrative: widget.NewLabel(""),
	}
	v.advisory.Wrapping = fyne.TextWrapWord
	v.advisory.Importance = widget.WarningImportance
	v.narrative.Wrapping = fyne.TextWrapWord
	v.narrative.TextStyle = fyne.TextStyle{Italic: true}

	v.childSelect = widget.NewSelect(nil, v.onChildSelected)
	v.refreshBtn = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnRefresh), theme.ViewRefreshIcon(), func() {
		if v.current != nil {
			v.load(*v.current, true)
		}
	})

	v.tabs = container.NewAppTabs()
	for _, m := range engine.Metrics() {
		chart := NewGrowthChart(app.Clock)
		chart.FormatTooltip = app.TooltipText
		v.charts[m] = chart
		v.tabs.Append(container.NewTabItem(app.MetricTitle(m), chart))
	}
	v.tabs.OnSelected = func(*container.TabItem) { v.updateAdvisory() }

	header := container.NewBorder(nil, nil,
		widget.NewLabel(app.GetMsg(config.TKeyLblChild)), v.refreshBtn, v.childSelect)
	footer := container.NewVBox(v.advisory, v.narrative)

	v.window.SetContent(container.NewBorder(header, footer, nil, nil, v.tabs))
	v.window.Resize(fyne.NewSize(config.ChartWindowWidth, config.ChartWindowHeight))
	v.window.SetOnClosed(func() {
		app.ChildrenMut.Lock()
		app.chartView = nil
		app.ChildrenMut.Unlock()
	})

	app.ChildrenMut.Lock()
	app.chartView = v
	app.ChildrenMut.Unlock()

	v.reloadChildren()
	return v
}

// reloadChildren refreshes the selector after a directory sync.
func (v *chartView) reloadChildren() {
	v.children = v.app.snapshotChildren()
	names := make([]string, len(v.children))
	for i, c := range v.children {
		names[i] = c.Name
	}
	v.childSelect.Options = names
	v.childSelect.Refresh()

	if v.current == nil && len(v.children) > 0 {
		v.childSelect.SetSelected(names[0])
	}
}

func (v *chartView) onChildSelected(name string) {
	for i := range v.children {
		if v.children[i].Name == name {
			child := v.children[i]
			v.current = &child
			v.load(child, false)
			return
		}
	}
}

// load fetches the child's snapshot in the background and applies it on the
// UI goroutine. A load overtaken by a newer selection is dropped.
func (v *chartView) load(child engine.ChildProfile, refetch bool) {
	go func() {
		datasets, err := v.app.LoadCharts(v.app.Ctx, child, refetch)
		if errors.Is(err, engine.ErrSuperseded) || errors.Is(err, context.Canceled) {
			return
		}
		if err != nil {
			slog.Warn(config.MsgChartLoadFailed,
				config.LogKeyComponent, config.CompUIChart,
				config.LogKeyChild, child.ID,
				config.LogKeyError, err)
		}
		fyne.Do(func() { v.apply(child, datasets) })
	}()
}

// apply shows datasets if child is still the selected child.
func (v *chartView) apply(child engine.ChildProfile, datasets map[engine.Metric]engine.ChartDataset) {
	if v.current == nil || v.current.ID != child.ID {
		return
	}
	v.datasets = datasets
	for m, chart := range v.charts {
		ds, ok := datasets[m]
		if !ok {
			ds = engine.DatasetBuilder{Labels: v.app.SeriesLabel}.Build(m, nil, nil, nil, engine.Entitlement{})
		}
		chart.SetDataset(ds, v.app.AxisTitle(ds.Unit))
	}
	v.updateAdvisory()
}

// updateAdvisory shows the advisories and narrative of the visible metric.
func (v *chartView) updateAdvisory() {
	m := engine.Metrics()[max(0, v.tabs.SelectedIndex())]
	ds, ok := v.datasets[m]
	if !ok {
		v.advisory.SetText("")
		v.narrative.SetText("")
		return
	}

	lines := make([]string, 0, len(ds.Advisories))
	for _, a := range ds.Advisories {
		lines = append(lines, v.app.AdvisoryText(a))
	}
	v.advisory.SetText(strings.Join(lines, "\n"))

	if ds.Narrative != nil && ds.PredictionAllowed {
		v.narrative.SetText(ds.Narrative.MedicalDisclaimer)
	} else {
		v.narrative.SetText("")
	}
}

// LoadCharts loads the snapshot of child, builds its datasets and publishes
// them on the local server. Without a configured backend the degenerate
// datasets are returned.
func (app *GrowthApp) LoadCharts(ctx context.Context, child engine.ChildProfile, refetch bool) (map[engine.Metric]engine.ChartDataset, error) {
	eng := app.currentEngine()
	if eng == nil {
		empty := make(map[engine.Metric]engine.ChartDataset)
		for _, m := range engine.Metrics() {
			empty[m] = engine.DatasetBuilder{Labels: app.SeriesLabel}.Build(m, nil, nil, nil, engine.Entitlement{})
		}
		return empty, errors.New(config.ErrAPIURLEmpty)
	}

	snap, err := eng.Load(ctx, child.Key(), app.Preferences.String(config.PrefAccountID), refetch)
	if err != nil {
		return nil, err
	}

	datasets := eng.BuildAll(snap)
	if app.Server != nil {
		if err := app.Server.PublishCharts(child.ID, child.Name, datasets); err != nil {
			slog.Error(config.ErrRenderChart,
				config.LogKeyComponent, config.CompUIChart,
				config.LogKeyChild, child.ID,
				config.LogKeyError, err)
		}
	}
	return datasets, nil
}
