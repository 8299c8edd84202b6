package engine

import (
	"log/slog"
	"strconv"

	"github.com/tartampluch/go-growth/internal/config"
	"github.com/tartampluch/go-growth/internal/metrics"
)

// DatasetBuilder assembles chart datasets. Labels may be nil, in which case
// DefaultLabels is used.
type DatasetBuilder struct {
	Labels LabelFunc
}

// BuildChartDataset builds a dataset with the default labels.
func BuildChartDataset(m Metric, records []MeasurementRecord, grid []ReferencePoint, prediction *Prediction, ent Entitlement) ChartDataset {
	return DatasetBuilder{}.Build(m, records, grid, prediction, ent)
}

// Build composes up to five series in fixed order: actual, prediction,
// standard, min, max. Empty series are left out. The result always holds at
// least one series.
func (b DatasetBuilder) Build(m Metric, records []MeasurementRecord, grid []ReferencePoint, prediction *Prediction, ent Entitlement) ChartDataset {
	label := b.Labels
	if label == nil {
		label = DefaultLabels
	}

	norm := NormalizeMeasurements(records, m)

	unit := UnitDays
	var window WindowSelection
	if last, ok := norm.Last(); ok {
		unit = AxisUnitFor(last.AgeInDays)
		window = SelectReferenceWindow(grid, last.AgeInDays)
	}

	gate := EvaluateGate(ent, window.Count(), norm.Count())
	metrics.GateDecision(gate.Allow)
	slog.Debug(config.MsgGateDecision,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMetric, m.String(),
		config.LogKeyAllowed, gate.Allow,
		config.LogKeyPoints, window.Count(),
		config.LogKeyCount, norm.Count())

	var all []Series

	actual := Series{Kind: SeriesActual, Label: label(SeriesActual), Color: SeriesActual.Color()}
	for _, p := range norm.Display() {
		actual.Points = append(actual.Points, SeriesPoint{AgeInDays: p.AgeInDays, Value: p.Value})
	}
	all = append(all, actual)

	if gate.Allow {
		if seg, ok := AlignPrediction(norm.All, prediction, m, label(SeriesPrediction)); ok {
			all = append(all, *seg)
		}
	}

	standard := Series{Kind: SeriesStandard, Label: label(SeriesStandard), Color: SeriesStandard.Color()}
	low := Series{Kind: SeriesMin, Label: label(SeriesMin), Color: SeriesMin.Color()}
	high := Series{Kind: SeriesMax, Label: label(SeriesMax), Color: SeriesMax.Color()}
	for _, p := range window.Points {
		standard.Points = append(standard.Points, SeriesPoint{AgeInDays: p.AgeInDays, Value: p.Median})
		low.Points = append(low.Points, SeriesPoint{AgeInDays: p.AgeInDays, Value: p.SD3Neg})
		high.Points = append(high.Points, SeriesPoint{AgeInDays: p.AgeInDays, Value: p.SD3Pos})
	}
	all = append(all, standard, low, high)

	ds := ChartDataset{
		Metric:            m,
		MetricName:        m.String(),
		Unit:              unit,
		UnitName:          unit.String(),
		PredictionAllowed: gate.Allow,
		Advisories:        gate.Advisories(),
		Legend:            []string{},
	}
	for _, a := range ds.Advisories {
		ds.AdvisoryCodes = append(ds.AdvisoryCodes, a.String())
	}
	if prediction != nil {
		n := prediction.Narrative
		ds.Narrative = &n
	}

	for _, s := range all {
		if len(s.Points) == 0 {
			continue
		}
		if s.Points[0].AgeInDays != 0 {
			s.Points = append([]SeriesPoint{{AgeInDays: 0}}, s.Points...)
		}
		for i := range s.Points {
			s.Points[i].AgeLabel = FormatAge(s.Points[i].AgeInDays, unit)
		}
		ds.Series = append(ds.Series, s)
		ds.Legend = append(ds.Legend, s.Label)
	}

	if len(ds.Series) == 0 {
		ds.Series = []Series{{
			Kind:   SeriesActual,
			Points: []SeriesPoint{{AgeInDays: 0, AgeLabel: FormatAge(0, unit), Value: 0}},
			Color:  SeriesActual.Color(),
		}}
	}

	return ds
}

// AxisUnitFor picks years for children past the short horizon threshold.
func AxisUnitFor(latestAge int) AxisUnit {
	if latestAge > config.LongHorizonThresholdDays {
		return UnitYears
	}
	return UnitDays
}

// FormatAge renders an age for axis ticks and tooltips.
func FormatAge(days int, unit AxisUnit) string {
	if unit == UnitYears {
		return strconv.FormatFloat(float64(days)/config.DaysPerYear, 'f', config.YearLabelPrecision, 64)
	}
	return strconv.Itoa(days)
}
