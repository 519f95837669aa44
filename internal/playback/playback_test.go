package playback

import (
	"errors"
	"testing"
)

type fakePlayer struct {
	paused  bool
	menu    bool
	err     error
	toggles int
}

func (p *fakePlayer) TogglePause() (bool, error) {
	if p.err != nil {
		return p.paused, p.err
	}
	p.toggles++
	p.paused = !p.paused
	return p.paused, nil
}

func (p *fakePlayer) Paused() bool            { return p.paused }
func (p *fakePlayer) InInteractiveMenu() bool { return p.menu }

type fakeOSD struct {
	icons []Icon
}

func (o *fakeOSD) ShowIcon(i Icon) { o.icons = append(o.icons, i) }

func TestControl_NoHandle(t *testing.T) {
	c := NewControl(nil)

	if c.Available() {
		t.Error("Available() = true before Publish")
	}
	if got := c.Toggle(true); got.Result != NoHandle {
		t.Errorf("Toggle() = %v, want NoHandle", got.Result)
	}
	if c.ShowStateIcon() != 0 {
		t.Error("ShowStateIcon() without handle showed an icon")
	}
	if c.Paused() {
		t.Error("Paused() without handle = true")
	}
}

func TestControl_Toggle(t *testing.T) {
	p := &fakePlayer{}
	o := &fakeOSD{}
	c := NewControl(nil)
	c.Publish(&Handle{Player: p, OSD: o})

	tests := []struct {
		showIcon   bool
		wantPaused bool
		wantIcon   Icon
	}{
		{true, true, IconPause},
		{true, false, IconPlay},
		{false, true, 0},
	}

	for i, tt := range tests {
		got := c.Toggle(tt.showIcon)
		if got.Result != Toggled || got.Paused != tt.wantPaused || got.Icon != tt.wantIcon {
			t.Errorf("toggle %d = %+v, want paused=%v icon=%v", i, got, tt.wantPaused, tt.wantIcon)
		}
	}
	if p.toggles != 3 {
		t.Errorf("player toggles = %d, want 3", p.toggles)
	}
	if len(o.icons) != 2 {
		t.Errorf("icons = %v, want 2", o.icons)
	}
}

func TestControl_InteractiveMenu(t *testing.T) {
	p := &fakePlayer{menu: true}
	o := &fakeOSD{}
	c := NewControl(nil)
	c.Publish(&Handle{Player: p, OSD: o})

	if got := c.Toggle(true); got.Result != Suppressed {
		t.Errorf("Toggle() in menu = %v, want Suppressed", got.Result)
	}
	if p.toggles != 0 || len(o.icons) != 0 {
		t.Error("suppressed toggle touched the player or OSD")
	}
}

func TestControl_PlayerError(t *testing.T) {
	boom := errors.New("player gone")
	c := NewControl(nil)
	c.Publish(&Handle{Player: &fakePlayer{err: boom}})

	got := c.Toggle(true)
	if got.Result != Failed || !errors.Is(got.Err, boom) {
		t.Errorf("Toggle() = %+v, want Failed wrapping %v", got, boom)
	}
}

func TestControl_NoOSD(t *testing.T) {
	c := NewControl(nil)
	c.Publish(&Handle{Player: &fakePlayer{}})

	if got := c.Toggle(true); got.Result != Toggled || got.Icon != 0 {
		t.Errorf("Toggle() without OSD = %+v", got)
	}
	if c.ShowStateIcon() != 0 {
		t.Error("ShowStateIcon() without OSD reported an icon")
	}
}

func TestControl_ShowStateIcon(t *testing.T) {
	p := &fakePlayer{paused: true}
	o := &fakeOSD{}
	c := NewControl(nil)
	c.Publish(&Handle{Player: p, OSD: o})

	if got := c.ShowStateIcon(); got != IconPause {
		t.Errorf("ShowStateIcon() = %v, want pause", got)
	}
	p.paused = false
	if got := c.ShowStateIcon(); got != IconPlay {
		t.Errorf("ShowStateIcon() = %v, want play", got)
	}
	if p.toggles != 0 {
		t.Error("ShowStateIcon toggled the player")
	}
}

func TestControl_PublishClear(t *testing.T) {
	c := NewControl(nil)

	c.Publish(&Handle{})
	if c.Available() {
		t.Error("handle without player should not be published")
	}

	c.Publish(&Handle{Player: &fakePlayer{}})
	if !c.Available() {
		t.Fatal("Available() = false after Publish")
	}
	c.Clear()
	if c.Available() {
		t.Error("Available() = true after Clear")
	}
	c.Publish(nil)
	if c.Available() {
		t.Error("Publish(nil) published something")
	}
}

func TestIconAndResultStrings(t *testing.T) {
	if IconPause.String() != "pause" || IconPlay.String() != "play" || Icon(0).String() != "none" {
		t.Error("Icon.String mismatch")
	}
	if IconFor(true) != IconPause || IconFor(false) != IconPlay {
		t.Error("IconFor mismatch")
	}
	for r, want := range map[Result]string{NoHandle: "no-handle", Suppressed: "suppressed", Toggled: "toggled", Failed: "failed", Result(9): "unknown"} {
		if r.String() != want {
			t.Errorf("Result(%d).String() = %q, want %q", r, r.String(), want)
		}
	}
}
