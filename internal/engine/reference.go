package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/go-growth/internal/config"
	"github.com/tartampluch/go-growth/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// ReferenceSource returns population statistics at one age.
// A nil point with a nil error means the source has no data for that age.
type ReferenceSource interface {
	FetchReferencePoint(ctx context.Context, gender Gender, ageInDays int, m Metric) (*ReferencePoint, error)
}

// GridAges returns the fixed sampling ages, ascending.
func GridAges() []int {
	ages := make([]int, 0, (config.ReferenceGridEndDays-config.ReferenceGridStartDays)/config.ReferenceGridStepDays+1)
	for a := config.ReferenceGridStartDays; a <= config.ReferenceGridEndDays; a += config.ReferenceGridStepDays {
		ages = append(ages, a)
	}
	return ages
}

// SampleReferenceGrid queries src for every grid age of every metric
// concurrently and returns the points found, age-ascending per metric.
// Absent points and failed calls are dropped.
func SampleReferenceGrid(ctx context.Context, src ReferenceSource, gender Gender, ms []Metric) map[Metric][]ReferencePoint {
	start := time.Now()
	ages := GridAges()

	// One slot per (metric, age); goroutines only write their own slot.
	slots := make([][]*ReferencePoint, len(ms))
	for i := range slots {
		slots[i] = make([]*ReferencePoint, len(ages))
	}

	var g errgroup.Group
	g.SetLimit(config.ReferenceFetchConcurrency)

	for mi, m := range ms {
		for ai, age := range ages {
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				p, err := src.FetchReferencePoint(ctx, gender, age, m)
				switch {
				case err != nil:
					metrics.ReferenceFetch(metrics.ResultError)
					slog.Debug(config.MsgUpstreamFailed,
						config.LogKeyComponent, config.CompSampler,
						config.LogKeySource, metrics.SourceReference,
						config.LogKeyMetric, m.String(),
						config.LogKeyValue, age,
						config.LogKeyError, err)
				case p == nil:
					metrics.ReferenceFetch(metrics.ResultAbsent)
				default:
					metrics.ReferenceFetch(metrics.ResultOK)
					pt := *p
					pt.AgeInDays = age
					if pt.AgeInMonths == 0 {
						pt.AgeInMonths = age / config.DaysPerMonth
					}
					slots[mi][ai] = &pt
				}
				return nil
			})
		}
	}
	_ = g.Wait()

	out := make(map[Metric][]ReferencePoint, len(ms))
	dropped := 0
	for mi, m := range ms {
		pts := make([]ReferencePoint, 0, len(ages))
		for _, p := range slots[mi] {
			if p == nil {
				dropped++
				continue
			}
			pts = append(pts, *p)
		}
		out[m] = pts
	}

	slog.Debug(config.MsgReferenceSampled,
		config.LogKeyComponent, config.CompSampler,
		config.LogKeyGender, string(gender),
		config.LogKeyDropped, dropped,
		config.LogKeyDuration, time.Since(start).Milliseconds())

	return out
}
