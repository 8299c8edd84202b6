package engine

import (
	"math"

	"github.com/tartampluch/go-growth/internal/config"
)

// HorizonDays is how far ahead of age the next point of interest lies:
// a year for children past the short horizon, a month otherwise.
func HorizonDays(age int) int {
	if age > config.LongHorizonThresholdDays {
		return config.LongHorizonDays
	}
	return config.ShortHorizonDays
}

// AlignPrediction builds the two-point dashed segment from the last actual
// point to the prediction point closest to the horizon target.
// actual must be the full normalised sequence, not the display slice.
// It reports false when any input needed for the segment is missing.
func AlignPrediction(actual []MeasurementPoint, prediction *Prediction, m Metric, label string) (*Series, bool) {
	if len(actual) == 0 || prediction == nil || len(prediction.Points) == 0 {
		return nil, false
	}

	last := actual[len(actual)-1]
	target := last.AgeInDays + HorizonDays(last.AgeInDays)

	chosen := prediction.Points[0]
	bestDist := absInt(chosen.AgeInDays - target)
	for _, p := range prediction.Points[1:] {
		if d := absInt(p.AgeInDays - target); d < bestDist {
			chosen, bestDist = p, d
		}
	}

	v := chosen.Value(m)
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil, false
	}

	return &Series{
		Kind:  SeriesPrediction,
		Label: label,
		Points: []SeriesPoint{
			{AgeInDays: last.AgeInDays, Value: last.Value},
			{AgeInDays: chosen.AgeInDays, Value: *v},
		},
		Color:  SeriesPrediction.Color(),
		Dashed: true,
	}, true
}

// Gate is the outcome of the prediction policy.
type Gate struct {
	Allow bool

	NotVIP                bool
	InsufficientReference bool
	InsufficientActual    bool
}

// EvaluateGate allows the prediction only for VIP accounts with at least two
// reference points and two actual points. Each failing condition is reported
// on its own.
func EvaluateGate(ent Entitlement, referenceCount, actualCount int) Gate {
	g := Gate{
		NotVIP:                !ent.IsVIP,
		InsufficientReference: referenceCount < config.MinReferencePoints,
		InsufficientActual:    actualCount < config.MinActualPoints,
	}
	g.Allow = !g.NotVIP && !g.InsufficientReference && !g.InsufficientActual
	return g
}

// Advisories lists the messages to show, in a fixed order.
func (g Gate) Advisories() []Advisory {
	var out []Advisory
	if g.NotVIP {
		out = append(out, AdvisoryNotVIP)
	}
	if g.InsufficientReference {
		out = append(out, AdvisoryInsufficientReference)
	}
	if g.InsufficientActual {
		out = append(out, AdvisoryInsufficientActual)
	}
	return out
}
