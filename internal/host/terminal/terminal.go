// Package terminal runs the reference host in a terminal. The screen stands
// in for the video surface: clicking it drives the plugin, and the title bar
// shows what the player did.
package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pauseclick/internal/classifier"
	"github.com/dshills/pauseclick/internal/host"
	"github.com/dshills/pauseclick/internal/logging"
	"github.com/dshills/pauseclick/internal/mouse"
	"github.com/dshills/pauseclick/internal/playback"
)

// iconDuration is how long an OSD icon stays on screen.
const iconDuration = 800 * time.Millisecond

// Options configure a Terminal.
type Options struct {
	// Host is driven by the terminal's mouse events. Required.
	Host *host.Host

	// Screen is the tcell screen. Nil creates the default screen.
	Screen tcell.Screen

	Logger *logging.Logger
}

// redraw is posted from other goroutines to get a repaint on the UI
// goroutine.
type redraw struct {
	fire *classifier.FireResult
	icon playback.Icon
}

type quit struct{}

// Terminal is an interactive front end for a Host.
type Terminal struct {
	host   *host.Host
	screen tcell.Screen
	logger *logging.Logger

	ready chan struct{}

	// Owned by the UI goroutine.
	held      mouse.Mask
	last      host.Event
	icon      playback.Icon
	iconUntil time.Time
	fires     int
}

// New creates a Terminal. The screen is initialised by Run.
func New(opts Options) (*Terminal, error) {
	if opts.Host == nil {
		return nil, fmt.Errorf("terminal: nil host")
	}
	screen := opts.Screen
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		screen = s
	}
	return &Terminal{
		host:   opts.Host,
		screen: screen,
		logger: logging.OrNull(opts.Logger).WithComponent("terminal"),
		ready:  make(chan struct{}),
	}, nil
}

// Run shows the screen and processes events until q is pressed or ctx is
// done.
func (t *Terminal) Run(ctx context.Context) error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	defer t.screen.Fini()
	t.screen.EnableMouse()
	t.screen.HideCursor()

	// Player and OSD callbacks may run on the timer goroutine.
	post := func(r redraw) { _ = t.screen.PostEvent(tcell.NewEventInterrupt(r)) }
	t.host.OnFire(func(fr classifier.FireResult) { post(redraw{fire: &fr}) })
	t.host.OSD().OnShow(func(ic playback.Icon) { post(redraw{icon: ic}) })
	t.host.Player().OnChange(func(bool) { post(redraw{}) })

	stop := context.AfterFunc(ctx, func() {
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(quit{}))
	})
	defer stop()

	t.draw()
	close(t.ready)
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventKey:
			if t.handleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			t.handleMouse(ev)
		case *tcell.EventInterrupt:
			switch data := ev.Data().(type) {
			case quit:
				return ctx.Err()
			case redraw:
				if data.fire != nil {
					t.fires++
				}
				if data.icon != 0 {
					t.icon = data.icon
					t.iconUntil = time.Now().Add(iconDuration)
					time.AfterFunc(iconDuration, func() { post(redraw{}) })
				}
			}
		}
		t.draw()
	}
}

// handleKey returns true when the terminal should quit.
func (t *Terminal) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 'm':
		p := t.host.Player()
		p.SetInteractiveMenu(!p.InInteractiveMenu())
	case 'i':
		var err error
		if t.host.Interface().State().IsUsable() {
			err = t.host.DetachInterface()
		} else {
			err = t.host.AttachInterface()
		}
		if err != nil {
			t.logger.Warn("interface: %v", err)
		}
	}
	return false
}

// handleMouse turns tcell's button mask into host presses and releases.
func (t *Terminal) handleMouse(ev *tcell.EventMouse) {
	now := buttonsFromTcell(ev.Buttons())

	for _, b := range mouse.Buttons() {
		if b.IsWheel() {
			if now.Has(b) {
				t.record(t.hostScroll(b))
			}
			continue
		}
		switch {
		case now.Has(b) && !t.held.Has(b):
			t.record(t.host.Press(b))
		case !now.Has(b) && t.held.Has(b):
			t.record(t.host.Release(b))
		}
	}

	t.held = 0
	for _, b := range mouse.Buttons() {
		if !b.IsWheel() && now.Has(b) {
			t.held = t.held.With(b)
		}
	}
}

func (t *Terminal) hostScroll(b mouse.Button) host.Event {
	ev := t.host.Press(b)
	t.host.Release(b)
	return ev
}

func (t *Terminal) record(ev host.Event) {
	if ev.Result.Handled {
		t.last = ev
	}
}

// buttonsFromTcell maps a tcell button mask to a mouse mask.
func buttonsFromTcell(b tcell.ButtonMask) mouse.Mask {
	var m mouse.Mask
	pairs := []struct {
		tb tcell.ButtonMask
		mb mouse.Button
	}{
		{tcell.ButtonPrimary, mouse.ButtonLeft},
		{tcell.ButtonMiddle, mouse.ButtonMiddle},
		{tcell.ButtonSecondary, mouse.ButtonRight},
		{tcell.WheelUp, mouse.ButtonWheelUp},
		{tcell.WheelDown, mouse.ButtonWheelDown},
		{tcell.WheelLeft, mouse.ButtonWheelLeft},
		{tcell.WheelRight, mouse.ButtonWheelRight},
	}
	for _, p := range pairs {
		if b&p.tb != 0 {
			m = m.With(p.mb)
		}
	}
	return m
}
