package engine

import (
	"log/slog"
	"math"
	"sort"

	"github.com/tartampluch/go-growth/internal/config"
)

// Regime is the reference selection strategy chosen from the latest age.
type Regime int

const (
	RegimeShort Regime = iota
	RegimeLong
)

func (r Regime) String() string {
	if r == RegimeLong {
		return "long"
	}
	return "short"
}

// RegimeFor returns RegimeLong for ages beyond the short horizon threshold.
func RegimeFor(latestAge int) Regime {
	if latestAge > config.LongHorizonThresholdDays {
		return RegimeLong
	}
	return RegimeShort
}

// WindowSelection is the subset of the reference grid drawn on the chart.
type WindowSelection struct {
	Points []ReferencePoint
	Regime Regime
}

// Count is the number of selected points, as used by the prediction gate.
func (w WindowSelection) Count() int {
	return len(w.Points)
}

// SelectReferenceWindow returns the reference points relevant to latestAge,
// ascending by age and without duplicate ages. Ties on distance always go to
// the lowest age.
func SelectReferenceWindow(grid []ReferencePoint, latestAge int) WindowSelection {
	regime := RegimeFor(latestAge)
	pts := uniqueByAge(grid)
	if len(pts) == 0 {
		return WindowSelection{Regime: regime}
	}

	var selected []ReferencePoint
	if regime == RegimeShort {
		selected = selectShort(pts, latestAge)
	} else {
		selected = selectLong(pts, latestAge)
	}

	sort.Slice(selected, func(i, j int) bool { return selected[i].AgeInDays < selected[j].AgeInDays })
	return WindowSelection{Points: selected, Regime: regime}
}

// ShortWindowBounds returns the inclusive age range of the short regime window.
// expanded selects the single widened retry.
func ShortWindowBounds(latestAge int, expanded bool) (lo, hi int) {
	half := config.ShortWindowDays
	if expanded {
		half += config.ShortWindowExpandDays
	}
	return max(config.ReferenceGridStartDays, latestAge-half), latestAge + half
}

func selectShort(pts []ReferencePoint, latestAge int) []ReferencePoint {
	in := func(expanded bool) []ReferencePoint {
		lo, hi := ShortWindowBounds(latestAge, expanded)
		var out []ReferencePoint
		for _, p := range pts {
			if p.AgeInDays >= lo && p.AgeInDays <= hi {
				out = append(out, p)
			}
		}
		return out
	}

	out := in(false)
	if len(out) < config.MinReferencePoints {
		out = in(true)
	}
	return out
}

// LongTargets returns the two target ages of the long regime: the multiples
// of a year bracketing latestAge, or the previous and current multiple when
// latestAge sits exactly on one.
func LongTargets(latestAge int) (int, int) {
	x := float64(latestAge) / float64(config.LongTargetStepDays)
	lowerX, upperX := int(math.Floor(x)), int(math.Ceil(x))
	if lowerX == upperX {
		lowerX, upperX = max(1, lowerX-1), lowerX
	}
	return config.LongTargetStepDays * lowerX, config.LongTargetStepDays * upperX
}

func selectLong(pts []ReferencePoint, latestAge int) []ReferencePoint {
	lowT, highT := LongTargets(latestAge)

	var picked []ReferencePoint
	for _, t := range []int{lowT, highT} {
		p := nearest(pts, t)
		if len(picked) == 0 || picked[0].AgeInDays != p.AgeInDays {
			picked = append(picked, p)
		}
	}

	if len(picked) >= config.MinReferencePoints && spacedEnough(picked[0], picked[1]) {
		return picked
	}

	log := slog.With(
		config.LogKeyComponent, config.CompSelector,
		config.LogKeyLatestAge, latestAge,
	)

	candidates := fallbackCandidates(pts, latestAge)
	if len(candidates) == 0 {
		log.Debug(config.MsgWindowFallback, config.LogKeyPoints, len(picked), config.LogKeyValue, "no_candidates")
		return picked
	}

	selected := []ReferencePoint{candidates[0]}
	for _, c := range candidates[1:] {
		if spacedEnough(c, selected[0]) {
			selected = append(selected, c)
			log.Debug(config.MsgWindowFallback, config.LogKeyPoints, len(selected), config.LogKeyValue, "closest_spaced")
			return selected
		}
	}

	if a, b, ok := closestSpacedPair(candidates, latestAge); ok {
		log.Debug(config.MsgWindowFallback, config.LogKeyPoints, 2, config.LogKeyValue, "spaced_pair")
		return []ReferencePoint{a, b}
	}

	if len(candidates) > 1 {
		selected = append(selected, candidates[1])
	}
	log.Debug(config.MsgWindowFallback, config.LogKeyPoints, len(selected), config.LogKeyValue, "unspaced")
	return selected
}

// nearest returns the grid point closest to target. pts must be non-empty
// and age-ascending, so the first minimum is the lowest age.
func nearest(pts []ReferencePoint, target int) ReferencePoint {
	best := pts[0]
	bestDist := absInt(best.AgeInDays - target)
	for _, p := range pts[1:] {
		if d := absInt(p.AgeInDays - target); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// fallbackCandidates returns the points within the fallback radius of
// latestAge, closest first.
func fallbackCandidates(pts []ReferencePoint, latestAge int) []ReferencePoint {
	var out []ReferencePoint
	for _, p := range pts {
		if absInt(p.AgeInDays-latestAge) <= config.LongFallbackRadiusDays {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := absInt(out[i].AgeInDays-latestAge), absInt(out[j].AgeInDays-latestAge)
		if di != dj {
			return di < dj
		}
		return out[i].AgeInDays < out[j].AgeInDays
	})
	return out
}

// closestSpacedPair finds the pair of candidates at least the minimum spacing
// apart with the smallest combined distance to latestAge.
func closestSpacedPair(candidates []ReferencePoint, latestAge int) (ReferencePoint, ReferencePoint, bool) {
	var a, b ReferencePoint
	bestCost, found := 0, false
	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			if !spacedEnough(candidates[i], candidates[j]) {
				continue
			}
			cost := absInt(candidates[i].AgeInDays-latestAge) + absInt(candidates[j].AgeInDays-latestAge)
			if !found || cost < bestCost {
				a, b, bestCost, found = candidates[i], candidates[j], cost, true
			}
		}
	}
	if a.AgeInDays > b.AgeInDays {
		a, b = b, a
	}
	return a, b, found
}

func spacedEnough(a, b ReferencePoint) bool {
	return absInt(a.AgeInDays-b.AgeInDays) >= config.MinReferenceSpacingDays
}

// uniqueByAge sorts a copy of grid by age and keeps the first point of each age.
func uniqueByAge(grid []ReferencePoint) []ReferencePoint {
	pts := make([]ReferencePoint, len(grid))
	copy(pts, grid)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].AgeInDays < pts[j].AgeInDays })

	out := pts[:0]
	for i, p := range pts {
		if i > 0 && p.AgeInDays == out[len(out)-1].AgeInDays {
			continue
		}
		out = append(out, p)
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
