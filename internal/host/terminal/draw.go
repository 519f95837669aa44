package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/pauseclick/internal/playback"
)

var (
	titleStyle = tcell.StyleDefault.Reverse(true)
	iconStyle  = tcell.StyleDefault.Bold(true)
	helpStyle  = tcell.StyleDefault.Dim(true)
)

// iconLabel is the text an OSD icon is drawn as.
func iconLabel(ic playback.Icon) string {
	switch ic {
	case playback.IconPause:
		return "⏸  PAUSE"
	case playback.IconPlay:
		return "▶  PLAY"
	default:
		return ""
	}
}

// centre returns the column at which s starts when centred in width cells.
func centre(s string, width int) int {
	w := runewidth.StringWidth(s)
	if w >= width {
		return 0
	}
	return (width - w) / 2
}

// putString draws s at x, y and returns the column after it. Wide runes take
// two cells.
func putString(screen tcell.Screen, x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	return x
}

func (t *Terminal) status() string {
	p := t.host.Player()

	play := "playing"
	if p.Paused() {
		play = "paused"
	}
	fs := "window"
	if t.host.Fullscreen() {
		fs = "fullscreen"
	}

	s := fmt.Sprintf(" %s | %s | menu:%t | disc-menu:%t | iface:%s | host %s | toggles:%d fires:%d",
		play, fs, t.host.ContextMenu(), p.InInteractiveMenu(),
		t.host.Interface().State(), t.host.Version(), p.Toggles(), t.fires)
	if t.last.Result.Handled {
		s += fmt.Sprintf(" | last:%s", t.last.Result.Decision)
		if t.last.Result.Filters != 0 {
			s += fmt.Sprintf(" [%s]", t.last.Result.Filters)
		}
	}
	if t.host.Armed() {
		s += " | waiting"
	}
	return s
}

func (t *Terminal) draw() {
	t.screen.Clear()
	width, height := t.screen.Size()

	title := t.status()
	for x := putString(t.screen, 0, 0, title, titleStyle); x < width; x++ {
		t.screen.SetContent(x, 0, ' ', nil, titleStyle)
	}

	if t.icon != 0 && time.Now().Before(t.iconUntil) {
		label := iconLabel(t.icon)
		putString(t.screen, centre(label, width), height/2, label, iconStyle)
	}

	help := "click: pause/play  q: quit  m: disc menu  i: attach/detach"
	if height > 2 {
		putString(t.screen, centre(help, width), height-1, help, helpStyle)
	}
	t.screen.Show()
}
