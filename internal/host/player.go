package host

import (
	"sync"

	"github.com/dshills/pauseclick/internal/playback"
)

// Player is an in-memory media player.
type Player struct {
	mu       sync.Mutex
	paused   bool
	menu     bool
	toggles  int
	failNext error
	onChange func(paused bool)
}

// NewPlayer creates a playing player.
func NewPlayer() *Player {
	return &Player{}
}

// TogglePause implements playback.Player.
func (p *Player) TogglePause() (bool, error) {
	p.mu.Lock()
	if err := p.failNext; err != nil {
		p.failNext = nil
		p.mu.Unlock()
		return p.Paused(), err
	}
	p.paused = !p.paused
	p.toggles++
	paused, fn := p.paused, p.onChange
	p.mu.Unlock()

	if fn != nil {
		fn(paused)
	}
	return paused, nil
}

// Paused implements playback.Player.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// InInteractiveMenu implements playback.Player.
func (p *Player) InInteractiveMenu() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.menu
}

// SetInteractiveMenu enters or leaves a disc menu.
func (p *Player) SetInteractiveMenu(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.menu = on
}

// Toggles returns how many times playback was toggled.
func (p *Player) Toggles() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.toggles
}

// FailNext makes the next TogglePause fail with err.
func (p *Player) FailNext(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext = err
}

// OnChange registers fn to run after every successful toggle.
func (p *Player) OnChange(fn func(paused bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

// OSD records every icon shown.
type OSD struct {
	mu     sync.Mutex
	icons  []playback.Icon
	onShow func(playback.Icon)
}

// NewOSD creates an empty OSD.
func NewOSD() *OSD {
	return &OSD{}
}

// ShowIcon implements playback.OSD.
func (o *OSD) ShowIcon(icon playback.Icon) {
	o.mu.Lock()
	o.icons = append(o.icons, icon)
	fn := o.onShow
	o.mu.Unlock()

	if fn != nil {
		fn(icon)
	}
}

// Icons returns a copy of the icons shown so far.
func (o *OSD) Icons() []playback.Icon {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]playback.Icon, len(o.icons))
	copy(out, o.icons)
	return out
}

// Last returns the most recent icon, or zero.
func (o *OSD) Last() playback.Icon {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.icons) == 0 {
		return 0
	}
	return o.icons[len(o.icons)-1]
}

// OnShow registers fn to run after every icon.
func (o *OSD) OnShow(fn func(playback.Icon)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onShow = fn
}
