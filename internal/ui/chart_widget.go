package ui

import (
	"image/color"
	"math"
	"strconv"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-growth/internal/config"
	"github.com/tartampluch/go-growth/internal/engine"
)

// GrowthChart draws a ChartDataset and shows a tooltip for the point nearest
// to a tap.
type GrowthChart struct {
	widget.BaseWidget

	// FormatTooltip returns the tooltip text of a point. Optional.
	FormatTooltip func(engine.Series, engine.SeriesPoint) string

	mu        sync.RWMutex
	dataset   engine.ChartDataset
	axisTitle string
	tip       engine.TooltipState

	tooltip *engine.Tooltip
}

// NewGrowthChart creates an empty chart. clock drives the tooltip timer.
func NewGrowthChart(clock engine.Clock) *GrowthChart {
	c := &GrowthChart{}
	c.tooltip = engine.NewTooltip(clock, c.onTooltip)
	c.ExtendBaseWidget(c)
	return c
}

// SetDataset replaces the plotted data and hides the tooltip.
func (c *GrowthChart) SetDataset(ds engine.ChartDataset, axisTitle string) {
	c.mu.Lock()
	c.dataset = ds
	c.axisTitle = axisTitle
	c.mu.Unlock()

	c.tooltip.Dismiss()
	c.Refresh()
}

// Dataset returns the plotted data.
func (c *GrowthChart) Dataset() engine.ChartDataset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dataset
}

// Tapped implements fyne.Tappable.
func (c *GrowthChart) Tapped(ev *fyne.PointEvent) {
	c.TapAt(float64(ev.Position.X), float64(ev.Position.Y))
}

// TapAt hit-tests a position in widget coordinates and updates the tooltip.
func (c *GrowthChart) TapAt(x, y float64) (engine.Hit, bool) {
	mapped := c.mapped(c.Size())
	hit, ok := engine.HitTest(x, y, mapped, config.HitTolerancePx)
	c.tooltip.Handle(hit, ok)
	return hit, ok
}

// TooltipState returns the current tooltip state.
func (c *GrowthChart) TooltipState() engine.TooltipState {
	return c.tooltip.State()
}

// TooltipText returns the text of the visible tooltip, or "" when hidden.
func (c *GrowthChart) TooltipText() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tooltipTextLocked()
}

func (c *GrowthChart) tooltipTextLocked() string {
	if !c.tip.Visible {
		return ""
	}
	h := c.tip.Hit
	if h.SeriesIndex < 0 || h.SeriesIndex >= len(c.dataset.Series) {
		return ""
	}
	s := c.dataset.Series[h.SeriesIndex]
	if h.PointIndex < 0 || h.PointIndex >= len(s.Points) {
		return ""
	}
	p := s.Points[h.PointIndex]
	if c.FormatTooltip != nil {
		return c.FormatTooltip(s, p)
	}
	return s.Label + ": " + p.AgeLabel + " → " + strconv.FormatFloat(p.Value, 'f', 1, 64)
}

// onTooltip may run on the timer goroutine.
func (c *GrowthChart) onTooltip(st engine.TooltipState) {
	c.mu.Lock()
	c.tip = st
	c.mu.Unlock()
	fyne.Do(c.Refresh)
}

func (c *GrowthChart) mapped(size fyne.Size) [][]engine.Pixel {
	w, h := float64(size.Width), float64(size.Height)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return engine.MapToPixels(c.dataset.Series, w, h, engine.ResponsivePadding(w, h))
}

// CreateRenderer implements fyne.Widget.
func (c *GrowthChart) CreateRenderer() fyne.WidgetRenderer {
	r := &growthChartRenderer{chart: c}
	r.Layout(c.Size())
	return r
}

type growthChartRenderer struct {
	chart   *GrowthChart
	objects []fyne.CanvasObject
}

func (r *growthChartRenderer) Destroy() {}

func (r *growthChartRenderer) MinSize() fyne.Size {
	return fyne.NewSize(config.ChartMinWidth, config.ChartMinHeight)
}

func (r *growthChartRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *growthChartRenderer) Refresh() {
	r.Layout(r.chart.Size())
	canvas.Refresh(r.chart)
}

// Layout rebuilds the drawing for size: axes, series, then the tooltip.
func (r *growthChartRenderer) Layout(size fyne.Size) {
	c := r.chart
	w, h := float64(size.Width), float64(size.Height)
	pad := engine.ResponsivePadding(w, h)

	c.mu.RLock()
	ds := c.dataset
	axisTitle := c.axisTitle
	tipText := c.tooltipTextLocked()
	tip := c.tip
	c.mu.RUnlock()

	cm := engine.NewCoordinateMapper(ds.Series, w, h, pad)
	mapped := cm.MapSeries(ds.Series)

	fg := theme.Color(theme.ColorNameForeground)
	objs := make([]fyne.CanvasObject, 0, 64)
	objs = append(objs, r.axes(cm, fg, axisTitle)...)

	for i, s := range ds.Series {
		col := parseHexColor(s.Color)
		pts := mapped[i]
		for j := 1; j < len(pts); j++ {
			if s.Dashed {
				objs = append(objs, dashedSegment(pts[j-1], pts[j], col)...)
			} else {
				objs = append(objs, segment(pts[j-1], pts[j], col))
			}
		}
		for _, p := range pts {
			dot := canvas.NewCircle(col)
			dot.Resize(fyne.NewSize(2*config.ChartPointRadius, 2*config.ChartPointRadius))
			dot.Move(fyne.NewPos(float32(p.X)-config.ChartPointRadius, float32(p.Y)-config.ChartPointRadius))
			objs = append(objs, dot)
		}
	}

	if tip.Visible && tipText != "" {
		hi, pi := tip.Hit.SeriesIndex, tip.Hit.PointIndex
		if hi >= 0 && hi < len(mapped) && pi >= 0 && pi < len(mapped[hi]) {
			objs = append(objs, tooltipBox(mapped[hi][pi], engine.Viewport{Width: w, Height: h}, tipText, fg)...)
		}
	}

	r.objects = objs
}

// axes draws the two axes with evenly spaced value ticks.
func (r *growthChartRenderer) axes(cm engine.CoordinateMapper, fg color.Color, axisTitle string) []fyne.CanvasObject {
	left := cm.Padding.Left
	bottom := cm.Padding.Top + cm.PlotHeight
	right := left + cm.PlotWidth

	objs := []fyne.CanvasObject{
		segment(engine.Pixel{X: left, Y: cm.Padding.Top}, engine.Pixel{X: left, Y: bottom}, fg),
		segment(engine.Pixel{X: left, Y: bottom}, engine.Pixel{X: right, Y: bottom}, fg),
	}

	for i := 0; i <= config.ChartAxisTickCount; i++ {
		frac := float64(i) / config.ChartAxisTickCount

		xv := canvas.NewText(trimFloat(cm.MaxX*frac), fg)
		xv.TextSize = config.ChartAxisLabelSize
		xv.Move(fyne.NewPos(float32(left+frac*cm.PlotWidth), float32(bottom)+2))
		objs = append(objs, xv)

		yv := canvas.NewText(trimFloat(cm.MaxY*frac), fg)
		yv.TextSize = config.ChartAxisLabelSize
		yv.Alignment = fyne.TextAlignTrailing
		yv.Move(fyne.NewPos(float32(left)-4-yv.MinSize().Width, float32(bottom-frac*cm.PlotHeight)-config.ChartAxisLabelSize/2))
		objs = append(objs, yv)
	}

	if axisTitle != "" {
		t := canvas.NewText(axisTitle, fg)
		t.TextSize = config.ChartAxisLabelSize
		t.Move(fyne.NewPos(float32(right)-t.MinSize().Width, float32(bottom)+config.ChartAxisLabelSize+4))
		objs = append(objs, t)
	}
	return objs
}

func tooltipBox(at engine.Pixel, vp engine.Viewport, text string, fg color.Color) []fyne.CanvasObject {
	pos := engine.PlaceTooltip(at, vp, engine.Size{Width: config.TooltipWidth, Height: config.TooltipHeight})

	bg := canvas.NewRectangle(theme.Color(theme.ColorNameOverlayBackground))
	bg.StrokeColor = fg
	bg.StrokeWidth = 1
	bg.CornerRadius = 4
	bg.Resize(fyne.NewSize(config.TooltipWidth, config.TooltipHeight))
	bg.Move(fyne.NewPos(float32(pos.X), float32(pos.Y)))

	label := canvas.NewText(text, fg)
	label.TextSize = config.ChartAxisLabelSize + 2
	label.Move(fyne.NewPos(float32(pos.X)+config.ChartTooltipTextPad, float32(pos.Y)+config.ChartTooltipTextPad))

	return []fyne.CanvasObject{bg, label}
}

func segment(a, b engine.Pixel, col color.Color) *canvas.Line {
	l := canvas.NewLine(col)
	l.StrokeWidth = config.ChartStrokeWidth
	l.Position1 = fyne.NewPos(float32(a.X), float32(a.Y))
	l.Position2 = fyne.NewPos(float32(b.X), float32(b.Y))
	return l
}

// dashedSegment splits a→b into dashes; canvas.Line has no dash style.
func dashedSegment(a, b engine.Pixel, col color.Color) []fyne.CanvasObject {
	length := math.Hypot(b.X-a.X, b.Y-a.Y)
	if length == 0 {
		return nil
	}
	ux, uy := (b.X-a.X)/length, (b.Y-a.Y)/length

	var out []fyne.CanvasObject
	for d := 0.0; d < length; d += config.ChartDashLengthPx + config.ChartDashGapPx {
		end := math.Min(d+config.ChartDashLengthPx, length)
		out = append(out, segment(
			engine.Pixel{X: a.X + ux*d, Y: a.Y + uy*d},
			engine.Pixel{X: a.X + ux*end, Y: a.Y + uy*end},
			col))
	}
	return out
}

// parseHexColor reads "#RRGGBB". Anything else falls back to the foreground.
func parseHexColor(s string) color.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return theme.Color(theme.ColorNameForeground)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return theme.Color(theme.ColorNameForeground)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
