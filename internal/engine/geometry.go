package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/tartampluch/go-growth/internal/config"
)

// Padding is the space between the chart bounds and the plot area, in pixels.
type Padding struct {
	Left, Top, Right, Bottom float64
}

// ResponsivePadding scales the padding with the chart size, never going
// below the configured floors.
func ResponsivePadding(width, height float64) Padding {
	return Padding{
		Left:   math.Max(config.PaddingLeftFloor, width*config.PaddingLeftRatio),
		Right:  math.Max(config.PaddingRightFloor, width*config.PaddingRightRatio),
		Top:    math.Max(config.PaddingTopFloor, height*config.PaddingTopRatio),
		Bottom: math.Max(config.PaddingBottomFloor, height*config.PaddingBottomRatio),
	}
}

// Pixel is a screen position relative to the chart's top-left corner.
type Pixel struct {
	X, Y float64
}

// CoordinateMapper maps (age label, value) pairs into pixel space.
// X spans [0, max age label] over the plot width; Y spans [0, max value]
// over the plot height, inverted.
type CoordinateMapper struct {
	Padding    Padding
	PlotWidth  float64
	PlotHeight float64
	MaxX       float64
	MaxY       float64
}

// NewCoordinateMapper derives shared scales from every point of every series.
func NewCoordinateMapper(series []Series, width, height float64, padding Padding) CoordinateMapper {
	cm := CoordinateMapper{
		Padding:    padding,
		PlotWidth:  math.Max(0, width-padding.Left-padding.Right),
		PlotHeight: math.Max(0, height-padding.Top-padding.Bottom),
	}
	for _, s := range series {
		for _, p := range s.Points {
			cm.MaxX = math.Max(cm.MaxX, ParseAgeLabel(p.AgeLabel))
			if !math.IsNaN(p.Value) && !math.IsInf(p.Value, 0) {
				cm.MaxY = math.Max(cm.MaxY, p.Value)
			}
		}
	}
	// A zero domain would divide by zero; everything then sits on the axis.
	if cm.MaxX == 0 {
		cm.MaxX = 1
	}
	if cm.MaxY == 0 {
		cm.MaxY = 1
	}
	return cm
}

// Map returns the pixel of one point.
func (cm CoordinateMapper) Map(p SeriesPoint) Pixel {
	return Pixel{
		X: cm.Padding.Left + ParseAgeLabel(p.AgeLabel)/cm.MaxX*cm.PlotWidth,
		Y: cm.Padding.Top + cm.PlotHeight - p.Value/cm.MaxY*cm.PlotHeight,
	}
}

// MapSeries maps every point of every series, keeping the series layout.
func (cm CoordinateMapper) MapSeries(series []Series) [][]Pixel {
	out := make([][]Pixel, len(series))
	for i, s := range series {
		out[i] = make([]Pixel, len(s.Points))
		for j, p := range s.Points {
			out[i][j] = cm.Map(p)
		}
	}
	return out
}

// MapToPixels maps series into a chart of the given size.
func MapToPixels(series []Series, width, height float64, padding Padding) [][]Pixel {
	return NewCoordinateMapper(series, width, height, padding).MapSeries(series)
}

// ParseAgeLabel reads a numeric age label. Anything else counts as 0.
func ParseAgeLabel(label string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(label), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Hit identifies the point selected by a pointer event.
type Hit struct {
	SeriesIndex int
	PointIndex  int
	Distance    float64
}

// HitTest returns the point nearest to (px, py) over all series. The first
// series and the first point win ties. A candidate at or beyond tolerance
// is rejected.
func HitTest(px, py float64, mapped [][]Pixel, tolerance float64) (Hit, bool) {
	best := Hit{SeriesIndex: -1, PointIndex: -1, Distance: math.Inf(1)}
	for si, pts := range mapped {
		for pi, p := range pts {
			if d := math.Hypot(p.X-px, p.Y-py); d < best.Distance {
				best = Hit{SeriesIndex: si, PointIndex: pi, Distance: d}
			}
		}
	}
	if best.SeriesIndex < 0 || !(best.Distance < tolerance) {
		return Hit{SeriesIndex: -1, PointIndex: -1}, false
	}
	return best, true
}

// Size is a width and a height in pixels.
type Size struct {
	Width, Height float64
}

// Viewport bounds the tooltip: Width is the visible width, Height the chart height.
type Viewport struct {
	Width, Height float64
}

// PlaceTooltip positions a tooltip of size tip above the hit pixel and clamps
// its top-left corner to
// left in [10, viewport width - tip width - 10] and top in [20, chart height - 80].
// When a range is empty its lower bound is used.
func PlaceTooltip(hit Pixel, vp Viewport, tip Size) Pixel {
	left := hit.X - tip.Width/2
	top := hit.Y - tip.Height - config.TooltipGap

	return Pixel{
		X: clamp(left, config.TooltipMarginX, vp.Width-tip.Width-config.TooltipMarginX),
		Y: clamp(top, config.TooltipMarginTop, vp.Height-config.TooltipBottomOffset),
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo || hi < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
