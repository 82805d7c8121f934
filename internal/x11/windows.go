package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// CreateFloatingWindow creates and maps a top-level utility window that the
// window manager treats as floating.
func (c *Connection) CreateFloatingWindow(title string, x, y, width, height int) (xproto.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}

	err = win.CreateChecked(
		c.Root,
		x, y, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		0x000000,
		xproto.EventMaskStructureNotify,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}

	if title != "" {
		// Titles are cosmetic; a WM without EWMH still shows WM_NAME.
		_ = ewmh.WmNameSet(c.XUtil, win.Id, title)
		_ = icccm.WmNameSet(c.XUtil, win.Id, title)
	}
	_ = ewmh.WmWindowTypeSet(c.XUtil, win.Id, []string{"_NET_WM_WINDOW_TYPE_UTILITY"})

	// Position must be honored on first map, otherwise most WMs cascade.
	_ = icccm.WmNormalHintsSet(c.XUtil, win.Id, &icccm.NormalHints{
		Flags:  icccm.SizeHintUSPosition | icccm.SizeHintUSSize,
		X:      x,
		Y:      y,
		Width:  uint(width),
		Height: uint(height),
	})

	win.Map()
	return win.Id, nil
}

// DestroyWindow unmaps and destroys a window, detaching its event handlers.
func (c *Connection) DestroyWindow(windowID xproto.Window) {
	xwindow.New(c.XUtil, windowID).Destroy()
}

// SetSizeBounds publishes WM_NORMAL_HINTS min/max sizes. A zero bound is
// left out of the hint flags, so passing all zeros clears both bounds.
func (c *Connection) SetSizeBounds(windowID xproto.Window, minW, minH, maxW, maxH int) error {
	hints := &icccm.NormalHints{}
	if minW > 0 && minH > 0 {
		hints.Flags |= icccm.SizeHintPMinSize
		hints.MinWidth = uint(minW)
		hints.MinHeight = uint(minH)
	}
	if maxW > 0 && maxH > 0 {
		hints.Flags |= icccm.SizeHintPMaxSize
		hints.MaxWidth = uint(maxW)
		hints.MaxHeight = uint(maxH)
	}
	return icccm.WmNormalHintsSet(c.XUtil, windowID, hints)
}

// ResizeWindow issues a ConfigureWindow request for the window's width and
// height only. The change is acknowledged later through ConfigureNotify.
func (c *Connection) ResizeWindow(windowID xproto.Window, width, height int) error {
	// A maximized window ignores configure requests under most WMs. Not
	// every window exposes _NET_WM_STATE, so failure is ignored.
	_ = c.unmaximizeWindow(windowID)

	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		windowID,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(width), uint32(height)},
	).Check()
}

// WindowGeometry returns the window's root-relative position and size as the
// server currently knows it.
func (c *Connection) WindowGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// OnConfigureNotify calls fn with the new size every time the server
// reports a configure change for windowID. fn runs on the event loop
// goroutine.
func (c *Connection) OnConfigureNotify(windowID xproto.Window, fn func(width, height int)) {
	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		fn(int(ev.Width), int(ev.Height))
	}).Connect(c.XUtil, windowID)
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			if err := ewmh.WmStateReq(c.XUtil, windowID, 0, state); err != nil {
				return err
			}
		}
	}
	return nil
}
