package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Area is a rectangle in root window coordinates.
type Area struct {
	X, Y, Width, Height int
}

func (a Area) intersect(b Area) (Area, bool) {
	x1, y1 := max(a.X, b.X), max(a.Y, b.Y)
	x2, y2 := min(a.X+a.Width, b.X+b.Width), min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return Area{}, false
	}
	return Area{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, true
}

// Screen is one active RandR output. Usable excludes panels and docks.
type Screen struct {
	ID     int
	Name   string
	Bounds Area
	Usable Area
}

// Screens lists the active RandR outputs, each clipped to the EWMH work
// area of the current desktop when one is published.
func (c *Connection) Screens() ([]Screen, error) {
	xc := c.XUtil.Conn()
	if err := randr.Init(xc); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	res, err := randr.GetScreenResources(xc, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	workArea, hasWorkArea := c.workArea()

	var screens []Screen
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(xc, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		s := Screen{
			ID:     i,
			Name:   fmt.Sprintf("screen-%d", i),
			Bounds: Area{X: int(info.X), Y: int(info.Y), Width: int(info.Width), Height: int(info.Height)},
		}
		if out, err := randr.GetOutputInfo(xc, info.Outputs[0], res.ConfigTimestamp).Reply(); err == nil {
			s.Name = string(out.Name)
		}
		s.Usable = s.Bounds
		if hasWorkArea {
			if clipped, ok := s.Bounds.intersect(workArea); ok {
				s.Usable = clipped
			}
		}
		screens = append(screens, s)
	}
	return screens, nil
}

func (c *Connection) workArea() (Area, bool) {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return Area{}, false
	}
	desktop := 0
	if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(areas) {
		desktop = int(cur)
	}
	wa := areas[desktop]
	return Area{X: int(wa.X), Y: int(wa.Y), Width: int(wa.Width), Height: int(wa.Height)}, true
}
