package terminal

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/ZacxDev/video-region-editor/internal/editor"
	"github.com/ZacxDev/video-region-editor/internal/pointer"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// View adapts one editor to the terminal.
type View interface {
	Name() string
	// Resize lays the view out for a screen of width x height cells.
	Resize(width, height int)
	// Mount creates the handle targets under window and subscribes the editor.
	Mount(window *pointer.Target)
	// HitTest returns the handle under a cell, or HandleNone.
	HitTest(x, y int) types.Handle
	Target(h types.Handle) *pointer.Target
	Nudge(dx, dy int)
	Draw(s tcell.Screen)
	Status() string
	Unmount()
}

type targets map[types.Handle]*pointer.Target

func (t targets) get(h types.Handle) *pointer.Target { return t[h] }

// CropView draws and edits a crop rectangle.
type CropView struct {
	crop    *editor.Cropper
	area    *Area
	targets targets
}

// NewCropView wraps c. area must be the bounds provider c was built with.
func NewCropView(c *editor.Cropper, area *Area) *CropView {
	return &CropView{crop: c, area: area}
}

func (v *CropView) Name() string { return v.crop.Name() }

func (v *CropView) Resize(width, height int) { v.area.Set(canvasRect(width, height)) }

func (v *CropView) Mount(window *pointer.Target) {
	canvas := pointer.NewTarget("canvas", window)
	box := pointer.NewTarget(string(types.HandleAll), canvas)
	v.targets = targets{types.HandleAll: box}
	for _, h := range types.CropHandles {
		if h != types.HandleAll {
			v.targets[h] = pointer.NewTarget(string(h), box)
		}
	}
	v.crop.Mount(window, v.targets)
}

func (v *CropView) Target(h types.Handle) *pointer.Target { return v.targets.get(h) }

func (v *CropView) rect() (x0, y0, x1, y1 int) {
	left, top, width, height := v.area.cells()
	r := v.crop.Value()
	x0, x1 = cellSpan(r.X, r.Width, left, width)
	y0, y1 = cellSpan(r.Y, r.Height, top, height)
	return
}

func (v *CropView) HitTest(x, y int) types.Handle {
	x0, y0, x1, y1 := v.rect()
	if x < x0 || x > x1 || y < y0 || y > y1 {
		return types.HandleNone
	}
	return borderHandle(x == x0, x == x1, y == y0, y == y1)
}

// borderHandle picks the handle for a cell on the selection border.
func borderHandle(left, right, top, bottom bool) types.Handle {
	switch {
	case top && left:
		return types.HandleTopLeft
	case top && right:
		return types.HandleTopRight
	case bottom && left:
		return types.HandleBottomLeft
	case bottom && right:
		return types.HandleBottomRight
	case top:
		return types.HandleTop
	case bottom:
		return types.HandleBottom
	case left:
		return types.HandleLeft
	case right:
		return types.HandleRight
	}
	return types.HandleAll
}

func (v *CropView) Nudge(dx, dy int) { v.crop.Nudge(dx, dy) }

func (v *CropView) Draw(s tcell.Screen) {
	left, top, width, height := v.area.cells()
	if width == 0 || height == 0 {
		return
	}
	drawBox(s, left-1, top-1, left+width, top+height, styleDefault)
	fill(s, left, top, left+width-1, top+height-1, '·', styleDim)

	x0, y0, x1, y1 := v.rect()
	fill(s, x0, y0, x1, y1, ' ', styleDefault)
	drawBox(s, x0, y0, x1, y1, styleRegion)
	for _, c := range [][2]int{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		s.SetContent(c[0], c[1], '■', nil, styleHandle)
	}
}

func (v *CropView) Status() string {
	r := v.crop.Value()
	return fmt.Sprintf(" crop x=%.4f y=%.4f w=%.4f h=%.4f [%s]", r.X, r.Y, r.Width, r.Height, v.crop.State())
}

func (v *CropView) Unmount() { v.crop.Unmount() }

// FocalView draws and edits a focal point.
type FocalView struct {
	focal   *editor.FocalPointSelector
	area    *Area
	targets targets
}

// NewFocalView wraps f. area must be the bounds provider f was built with.
func NewFocalView(f *editor.FocalPointSelector, area *Area) *FocalView {
	return &FocalView{focal: f, area: area}
}

func (v *FocalView) Name() string { return v.focal.Name() }

func (v *FocalView) Resize(width, height int) { v.area.Set(canvasRect(width, height)) }

func (v *FocalView) Mount(window *pointer.Target) {
	surface := pointer.NewTarget(string(types.HandlePoint), window)
	v.targets = targets{types.HandlePoint: surface}
	v.focal.Mount(window, v.targets)
}

func (v *FocalView) Target(h types.Handle) *pointer.Target { return v.targets.get(h) }

func (v *FocalView) HitTest(x, y int) types.Handle {
	left, top, width, height := v.area.cells()
	if x < left || x >= left+width || y < top || y >= top+height {
		return types.HandleNone
	}
	return types.HandlePoint
}

func (v *FocalView) Nudge(dx, dy int) { v.focal.Nudge(dx, dy) }

func (v *FocalView) cell() (int, int) {
	left, top, width, height := v.area.cells()
	p := v.focal.Value()
	x := left + min(int(p.X*float64(width)), width-1)
	y := top + min(int(p.Y*float64(height)), height-1)
	return x, y
}

func (v *FocalView) Draw(s tcell.Screen) {
	left, top, width, height := v.area.cells()
	if width == 0 || height == 0 {
		return
	}
	drawBox(s, left-1, top-1, left+width, top+height, styleDefault)

	x, y := v.cell()
	for cx := left; cx < left+width; cx++ {
		s.SetContent(cx, y, tcell.RuneHLine, nil, styleDim)
	}
	for cy := top; cy < top+height; cy++ {
		s.SetContent(x, cy, tcell.RuneVLine, nil, styleDim)
	}
	s.SetContent(x, y, '✛', nil, styleHandle)
}

func (v *FocalView) Status() string {
	p := v.focal.Value()
	return fmt.Sprintf(" focal x=%.4f y=%.4f [%s]", p.X, p.Y, v.focal.State())
}

func (v *FocalView) Unmount() { v.focal.Unmount() }

// TrimView draws and edits a trim interval on a one-row timeline.
type TrimView struct {
	trim    *editor.TrimScrubber
	area    *Area
	targets targets
}

// NewTrimView wraps t. area must be the bounds provider t was built with.
func NewTrimView(t *editor.TrimScrubber, area *Area) *TrimView {
	return &TrimView{trim: t, area: area}
}

func (v *TrimView) Name() string { return v.trim.Name() }

func (v *TrimView) Resize(width, height int) { v.area.Set(trackRect(width, height)) }

func (v *TrimView) Mount(window *pointer.Target) {
	track := pointer.NewTarget(string(types.HandleTrack), window)
	zone := pointer.NewTarget(string(types.HandleZone), window)
	v.targets = targets{
		types.HandleTrack: track,
		types.HandleZone:  zone,
		types.HandleStart: pointer.NewTarget(string(types.HandleStart), zone),
		types.HandleEnd:   pointer.NewTarget(string(types.HandleEnd), zone),
	}
	v.trim.Mount(window, v.targets)
}

func (v *TrimView) Target(h types.Handle) *pointer.Target { return v.targets.get(h) }

// timeCell maps seconds to a column of the track.
func (v *TrimView) timeCell(t float64) int {
	left, _, width, _ := v.area.cells()
	vp := v.trim.Viewport()
	if vp.Visible <= 0 {
		return left
	}
	return left + int(math.Round((t-vp.Offset)/vp.Visible*float64(width)))
}

func (v *TrimView) HitTest(x, y int) types.Handle {
	left, top, width, _ := v.area.cells()
	if y != top || x < left || x >= left+width {
		return types.HandleNone
	}
	sel := v.trim.Value()
	sx, ex := v.timeCell(sel.StartTime), v.timeCell(sel.EndTime)
	switch {
	case x == sx:
		return types.HandleStart
	case x == ex:
		return types.HandleEnd
	case x > sx && x < ex:
		return types.HandleZone
	}
	return types.HandleTrack
}

func (v *TrimView) Nudge(dx, _ int) {
	if dx != 0 {
		v.trim.Nudge(dx)
	}
}

func (v *TrimView) Draw(s tcell.Screen) {
	left, top, width, _ := v.area.cells()
	if width == 0 {
		return
	}
	vp := v.trim.Viewport()
	sel := v.trim.Value()
	sx, ex := v.timeCell(sel.StartTime), v.timeCell(sel.EndTime)

	for x := left; x < left+width; x++ {
		r, style := tcell.RuneHLine, styleDim
		if x > sx && x < ex {
			r, style = '█', styleRegion
		}
		s.SetContent(x, top, r, nil, style)
	}
	if sx >= left && sx < left+width {
		s.SetContent(sx, top, '[', nil, styleHandle)
	}
	if ex >= left && ex < left+width {
		s.SetContent(ex, top, ']', nil, styleHandle)
	}
	if pc := v.timeCell(v.trim.PlaybackTime()); pc >= left && pc < left+width {
		s.SetContent(pc, top-1, '▼', nil, styleDefault)
	}

	drawText(s, left, top+1, styleDim, fmt.Sprintf("%.2fs", vp.Offset))
	end := fmt.Sprintf("%.2fs", vp.End())
	drawText(s, left+width-len(end), top+1, styleDim, end)
}

func (v *TrimView) Status() string {
	sel := v.trim.Value()
	return fmt.Sprintf(" trim %.2fs-%.2fs (%.2fs) play=%.2fs [%s]",
		sel.StartTime, sel.EndTime, sel.Duration(), v.trim.PlaybackTime(), v.trim.State())
}

func (v *TrimView) Unmount() { v.trim.Unmount() }
