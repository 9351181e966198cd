//go:build linux

package surface

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xfixes"
	"github.com/jezek/xgb/xproto"
	log "github.com/sirupsen/logrus"

	"github.com/alswo471/screensaver/pkg/interfaces"
	"github.com/alswo471/screensaver/pkg/types"
)

// putImageChunk caps the pixel payload of one PutImage request, staying
// under the X11 maximum request length.
const putImageChunk = 256 * 1024

// X11Provider creates override-redirect, always-on-top windows over one
// shared X connection and forwards their input events.
type X11Provider struct {
	conn   *xgb.Conn
	screen *xproto.ScreenInfo
	events chan types.InputEvent

	mu      sync.Mutex
	windows map[xproto.Window]*x11Surface
}

func newPlatformProvider() (interfaces.SurfaceProvider, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	if err := xfixes.Init(conn); err != nil {
		// Cursor hiding is cosmetic; carry on without it.
		log.WithError(err).Warn("xfixes unavailable, cursor stays visible")
	} else {
		xfixes.QueryVersion(conn, 4, 0)
	}

	p := &X11Provider{
		conn:    conn,
		screen:  xproto.Setup(conn).DefaultScreen(conn),
		events:  make(chan types.InputEvent, 64),
		windows: make(map[xproto.Window]*x11Surface),
	}
	go p.eventLoop()
	return p, nil
}

// Events implements interfaces.SurfaceProvider.
func (p *X11Provider) Events() <-chan types.InputEvent {
	return p.events
}

// CreateSurface builds one borderless top-most window covering rect. The
// window's input events flow as soon as it is mapped.
func (p *X11Provider) CreateSurface(id int, rect types.MonitorRect) (interfaces.Surface, error) {
	wid, err := xproto.NewWindowId(p.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	err = xproto.CreateWindowChecked(
		p.conn,
		p.screen.RootDepth,
		wid,
		p.screen.Root,
		int16(rect.Left), int16(rect.Top),
		uint16(rect.Width), uint16(rect.Height),
		0,
		xproto.WindowClassInputOutput,
		p.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{
			p.screen.BlackPixel,
			1, // override redirect: no decorations, WM keeps hands off
			uint32(xproto.EventMaskKeyPress |
				xproto.EventMaskButtonPress |
				xproto.EventMaskPointerMotion |
				xproto.EventMaskExposure),
		},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("failed to create overlay window: %w", err)
	}

	gc, err := xproto.NewGcontextId(p.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate gcontext: %w", err)
	}
	if err := xproto.CreateGCChecked(p.conn, gc, xproto.Drawable(wid), 0, nil).Check(); err != nil {
		return nil, fmt.Errorf("failed to create gcontext: %w", err)
	}

	xproto.MapWindow(p.conn, wid)
	xproto.ConfigureWindow(p.conn, wid, xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove})
	xfixes.HideCursor(p.conn, wid)

	// Keyboard focus follows the newest overlay so key presses reach us.
	xproto.SetInputFocus(p.conn, xproto.InputFocusPointerRoot, wid, xproto.TimeCurrentTime)

	s := &x11Surface{
		provider: p,
		id:       id,
		window:   wid,
		gc:       gc,
		rect:     rect,
	}
	p.mu.Lock()
	p.windows[wid] = s
	p.mu.Unlock()
	return s, nil
}

// Close shuts the provider down, destroying any remaining windows.
func (p *X11Provider) Close() {
	p.mu.Lock()
	surfaces := make([]*x11Surface, 0, len(p.windows))
	for _, s := range p.windows {
		surfaces = append(surfaces, s)
	}
	p.mu.Unlock()
	for _, s := range surfaces {
		s.Close()
	}
	p.conn.Close()
}

func (p *X11Provider) lookup(w xproto.Window) (*x11Surface, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.windows[w]
	return s, ok
}

func (p *X11Provider) forget(w xproto.Window) {
	p.mu.Lock()
	delete(p.windows, w)
	p.mu.Unlock()
}

func (p *X11Provider) emit(ev types.InputEvent) {
	select {
	case p.events <- ev:
	default:
		// A stalled consumer only costs us an input event; the next one
		// will exit the screensaver just as well.
	}
}

// eventLoop translates X events into surface input events.
func (p *X11Provider) eventLoop() {
	for {
		ev, err := p.conn.WaitForEvent()
		if ev == nil && err == nil {
			return // connection closed
		}
		if err != nil {
			log.WithError(err).Debug("x11 event error")
			continue
		}

		switch e := ev.(type) {
		case xproto.KeyPressEvent:
			if s, ok := p.lookup(e.Event); ok {
				p.emit(types.InputEvent{
					Kind:      types.KeyPress,
					SurfaceID: s.id,
					Pos:       types.Point{X: int(e.RootX), Y: int(e.RootY)},
					Time:      time.Now(),
				})
			}
		case xproto.ButtonPressEvent:
			if s, ok := p.lookup(e.Event); ok {
				p.emit(types.InputEvent{
					Kind:      types.ButtonPress,
					SurfaceID: s.id,
					Pos:       types.Point{X: int(e.RootX), Y: int(e.RootY)},
					Time:      time.Now(),
				})
			}
		case xproto.MotionNotifyEvent:
			if s, ok := p.lookup(e.Event); ok {
				p.emit(types.InputEvent{
					Kind:      types.Motion,
					SurfaceID: s.id,
					Pos:       types.Point{X: int(e.RootX), Y: int(e.RootY)},
					Time:      time.Now(),
				})
			}
		case xproto.ExposeEvent:
			if s, ok := p.lookup(e.Window); ok {
				s.redraw()
			}
		}
	}
}

// x11Surface is one overlay window.
type x11Surface struct {
	provider *X11Provider
	id       int
	window   xproto.Window
	gc       xproto.Gcontext
	rect     types.MonitorRect

	mu     sync.Mutex
	frame  *image.NRGBA
	closed bool
}

// ID implements interfaces.Surface.
func (s *x11Surface) ID() int { return s.id }

// Bounds implements interfaces.Surface.
func (s *x11Surface) Bounds() types.MonitorRect { return s.rect }

// SetFrame uploads a full frame to the window. The frame is retained for
// Expose redraws.
func (s *x11Surface) SetFrame(frame *image.NRGBA) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.frame = frame
	s.mu.Unlock()
	s.upload(frame)
}

// PointerPosition returns the pointer location in root coordinates.
func (s *x11Surface) PointerPosition() (types.Point, bool) {
	reply, err := xproto.QueryPointer(s.provider.conn, s.provider.screen.Root).Reply()
	if err != nil {
		return types.Point{}, false
	}
	return types.Point{X: int(reply.RootX), Y: int(reply.RootY)}, true
}

// Close destroys the window. Safe to call more than once.
func (s *x11Surface) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.provider.forget(s.window)
	xproto.FreeGC(s.provider.conn, s.gc)
	xproto.DestroyWindow(s.provider.conn, s.window)
}

func (s *x11Surface) redraw() {
	s.mu.Lock()
	frame := s.frame
	closed := s.closed
	s.mu.Unlock()
	if closed || frame == nil {
		return
	}
	s.upload(frame)
}

// upload pushes the frame with PutImage, chunked by scanline groups to
// stay under the request size limit.
func (s *x11Surface) upload(frame *image.NRGBA) {
	w := frame.Bounds().Dx()
	h := frame.Bounds().Dy()
	if w <= 0 || h <= 0 {
		return
	}

	rowBytes := w * 4
	rowsPerChunk := putImageChunk / rowBytes
	if rowsPerChunk < 1 {
		rowsPerChunk = 1
	}

	for y := 0; y < h; y += rowsPerChunk {
		rows := rowsPerChunk
		if y+rows > h {
			rows = h - y
		}
		data := make([]byte, rows*rowBytes)
		for r := 0; r < rows; r++ {
			src := frame.Pix[(y+r)*frame.Stride : (y+r)*frame.Stride+rowBytes]
			dst := data[r*rowBytes:]
			// NRGBA to the server's BGRX ZPixmap layout.
			for x := 0; x < w; x++ {
				dst[x*4+0] = src[x*4+2]
				dst[x*4+1] = src[x*4+1]
				dst[x*4+2] = src[x*4+0]
				dst[x*4+3] = 0xFF
			}
		}
		xproto.PutImage(
			s.provider.conn,
			xproto.ImageFormatZPixmap,
			xproto.Drawable(s.window),
			s.gc,
			uint16(w), uint16(rows),
			0, int16(y),
			0,
			s.provider.screen.RootDepth,
			data,
		)
	}
}
