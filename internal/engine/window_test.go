package engine_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-growth/internal/engine"
)

func assertSortedUnique(t *testing.T, pts []engine.ReferencePoint, latest int) {
	t.Helper()
	for i := 1; i < len(pts); i++ {
		if !assert.Less(t, pts[i-1].AgeInDays, pts[i].AgeInDays, "L=%d: not strictly ascending", latest) {
			return
		}
	}
}

// sparseGrids returns the full grid, a shuffled grid with duplicates and
// random subsets of it.
func sparseGrids() [][]engine.ReferencePoint {
	r := rand.New(rand.NewPCG(7, 11))
	full := fullGrid()

	shuffled := append(append([]engine.ReferencePoint{}, full...), full[10:40]...)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	grids := [][]engine.ReferencePoint{full, shuffled}
	for _, keep := range []float64{0.1, 0.25, 0.5} {
		for range 10 {
			var g []engine.ReferencePoint
			for _, p := range full {
				if r.Float64() < keep {
					g = append(g, p)
				}
			}
			grids = append(grids, g)
		}
	}
	return grids
}

func TestSelectReferenceWindow_SortedAndUnique(t *testing.T) {
	for _, grid := range sparseGrids() {
		for latest := 0; latest <= 4500; latest += 13 {
			sel := engine.SelectReferenceWindow(grid, latest)
			assertSortedUnique(t, sel.Points, latest)
			assert.Equal(t, len(sel.Points), sel.Count())
		}
	}
}

func TestSelectReferenceWindow_ShortHorizonBounds(t *testing.T) {
	for _, grid := range sparseGrids() {
		for latest := 0; latest <= 720; latest++ {
			sel := engine.SelectReferenceWindow(grid, latest)
			require.Equal(t, engine.RegimeShort, sel.Regime)

			lo, hi := engine.ShortWindowBounds(latest, false)
			inPrimary := map[int]bool{}
			for _, p := range grid {
				if p.AgeInDays >= lo && p.AgeInDays <= hi {
					inPrimary[p.AgeInDays] = true
				}
			}
			if len(inPrimary) < 2 {
				lo, hi = engine.ShortWindowBounds(latest, true)
			}
			for _, p := range sel.Points {
				assert.GreaterOrEqual(t, p.AgeInDays, lo, "L=%d", latest)
				assert.LessOrEqual(t, p.AgeInDays, hi, "L=%d", latest)
			}
		}
	}
}

func TestSelectReferenceWindow_ShortHorizonExpandsOnce(t *testing.T) {
	sel := engine.SelectReferenceWindow(fullGrid(), 15)

	// [30, 45] holds only 30; the retry window [30, 105] holds three points.
	assert.Equal(t, []int{30, 60, 90}, ages(sel.Points))
}

func TestSelectReferenceWindow_ShortHorizonRegular(t *testing.T) {
	sel := engine.SelectReferenceWindow(fullGrid(), 365)

	assert.Equal(t, []int{360, 390}, ages(sel.Points))
}

func TestSelectReferenceWindow_LongHorizonSpacing(t *testing.T) {
	for _, grid := range sparseGrids() {
		for latest := 721; latest <= 4500; latest += 7 {
			sel := engine.SelectReferenceWindow(grid, latest)
			require.Equal(t, engine.RegimeLong, sel.Regime)
			if sel.Count() != 2 || !spacedPairExists(grid, latest) {
				continue
			}
			diff := sel.Points[1].AgeInDays - sel.Points[0].AgeInDays
			assert.GreaterOrEqual(t, diff, 180, "L=%d picked %v", latest, ages(sel.Points))
		}
	}
}

func spacedPairExists(grid []engine.ReferencePoint, latest int) bool {
	for _, a := range grid {
		for _, b := range grid {
			near := abs(a.AgeInDays-latest) <= 720 && abs(b.AgeInDays-latest) <= 720
			if near && b.AgeInDays-a.AgeInDays >= 180 {
				return true
			}
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestSelectReferenceWindow_Scenario1826(t *testing.T) {
	lo, hi := engine.LongTargets(1826)
	assert.Equal(t, 1800, lo)
	assert.Equal(t, 2160, hi)

	sel := engine.SelectReferenceWindow(fullGrid(), 1826)

	assert.Equal(t, engine.RegimeLong, sel.Regime)
	assert.Equal(t, []int{1800, 2160}, ages(sel.Points))
}

func TestLongTargets_ExactMultiple(t *testing.T) {
	lo, hi := engine.LongTargets(1800)
	assert.Equal(t, 1440, lo)
	assert.Equal(t, 1800, hi)

	sel := engine.SelectReferenceWindow(fullGrid(), 1800)
	assert.Equal(t, []int{1440, 1800}, ages(sel.Points))
}

func TestSelectReferenceWindow_TieGoesToLowestAge(t *testing.T) {
	sel := engine.SelectReferenceWindow(gridOf(1815, 1785, 2160), 1826)

	assert.Equal(t, []int{1785, 2160}, ages(sel.Points))
}

func TestSelectReferenceWindow_FallbackClosestSpaced(t *testing.T) {
	// Both targets resolve to 2500; the fallback keeps it and adds the
	// closest candidate at least 180 days away.
	sel := engine.SelectReferenceWindow(gridOf(2500, 2560, 2700), 2520)

	assert.Equal(t, []int{2500, 2700}, ages(sel.Points))
}

func TestSelectReferenceWindow_FallbackSpacedPair(t *testing.T) {
	// 1830 has no partner 180 days away, but 1700 and 1900 do.
	sel := engine.SelectReferenceWindow(gridOf(1700, 1830, 1900), 1826)

	assert.Equal(t, []int{1700, 1900}, ages(sel.Points))
}

func TestSelectReferenceWindow_FallbackUnspaced(t *testing.T) {
	sel := engine.SelectReferenceWindow(gridOf(1800, 1830, 1860), 1826)

	// No pair can be spaced: closest plus second closest.
	assert.Equal(t, []int{1800, 1830}, ages(sel.Points))
}

func TestSelectReferenceWindow_FallbackWithoutCandidates(t *testing.T) {
	sel := engine.SelectReferenceWindow(gridOf(30), 3000)

	assert.Equal(t, []int{30}, ages(sel.Points))
}

func TestSelectReferenceWindow_EmptyGrid(t *testing.T) {
	assert.Zero(t, engine.SelectReferenceWindow(nil, 100).Count())
	assert.Zero(t, engine.SelectReferenceWindow(nil, 2000).Count())
}

func TestRegimeFor(t *testing.T) {
	assert.Equal(t, engine.RegimeShort, engine.RegimeFor(720))
	assert.Equal(t, engine.RegimeLong, engine.RegimeFor(721))
	assert.Equal(t, "long", engine.RegimeLong.String())
}
