package engine

import (
	"math"
	"sort"

	"github.com/tartampluch/go-growth/internal/config"
)

// Normalized is the filtered, deduplicated, age-ascending history of one metric.
type Normalized struct {
	// All is the full sequence, used for gating and age lookups.
	All []MeasurementPoint
}

// Display returns the most recent points shown as the actual series.
func (n Normalized) Display() []MeasurementPoint {
	if len(n.All) <= config.ActualDisplayPoints {
		return n.All
	}
	return n.All[len(n.All)-config.ActualDisplayPoints:]
}

// Last returns the latest point.
func (n Normalized) Last() (MeasurementPoint, bool) {
	if len(n.All) == 0 {
		return MeasurementPoint{}, false
	}
	return n.All[len(n.All)-1], true
}

// Count is the number of usable actual points.
func (n Normalized) Count() int {
	return len(n.All)
}

// NormalizeMeasurements keeps the records of metric m that carry a finite,
// non-predicted value at a non-negative age, sorted by age.
// When several records share an age the one with the latest CreatedAt wins;
// on equal CreatedAt the later record in input order wins.
func NormalizeMeasurements(records []MeasurementRecord, m Metric) Normalized {
	type candidate struct {
		rec   MeasurementRecord
		value float64
	}

	byAge := make(map[int]candidate, len(records))
	for _, r := range records {
		v := r.Value(m)
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		if r.AgeInDays < 0 || ParseStatus(r.Status) == StatusPredicted {
			continue
		}
		prev, ok := byAge[r.AgeInDays]
		if ok && prev.rec.CreatedAt.After(r.CreatedAt) {
			continue
		}
		byAge[r.AgeInDays] = candidate{rec: r, value: *v}
	}

	if len(byAge) == 0 {
		return Normalized{}
	}

	points := make([]MeasurementPoint, 0, len(byAge))
	for age, c := range byAge {
		points = append(points, MeasurementPoint{
			AgeInDays: age,
			Value:     c.value,
			Status:    ParseStatus(c.rec.Status),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].AgeInDays < points[j].AgeInDays })

	return Normalized{All: points}
}

// LatestActualAge returns the highest age carrying any usable measurement,
// across every metric.
func LatestActualAge(records []MeasurementRecord) (int, bool) {
	latest, found := 0, false
	for _, m := range Metrics() {
		if last, ok := NormalizeMeasurements(records, m).Last(); ok && (!found || last.AgeInDays > latest) {
			latest, found = last.AgeInDays, true
		}
	}
	return latest, found
}
