package host

import (
	"errors"
	"testing"
	"time"

	"github.com/dshills/pauseclick/internal/classifier"
	"github.com/dshills/pauseclick/internal/config"
	"github.com/dshills/pauseclick/internal/mouse"
	"github.com/dshills/pauseclick/internal/playback"
	"github.com/dshills/pauseclick/internal/timer"
)

func newTestHost(t *testing.T, v Version, settings map[string]any) (*Host, *config.Store) {
	t.Helper()

	store := config.NewStore()
	for k, val := range settings {
		if err := store.Set(k, val); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	h, err := New(Options{
		Version:   v,
		Source:    store,
		Scheduler: timer.NewManualScheduler(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := h.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(h.Close)
	return h, store
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{"2.1", Version21, false},
		{"2.2", Version22, false},
		{"3", Version3, false},
		{"3.0", Version3, false},
		{"v4", Version4, false},
		{" 4.0 ", Version4, false},
		{"1.1", DefaultVersion, true},
		{"", DefaultVersion, true},
	}

	for _, tt := range tests {
		got, err := ParseVersion(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseVersion(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestVersion_Capabilities(t *testing.T) {
	tests := []struct {
		v    Version
		want classifier.Capabilities
	}{
		{Version21, classifier.Capabilities{UnreliableDoubleClick: true}},
		{Version22, classifier.Capabilities{UnreliableDoubleClick: true}},
		{Version3, classifier.Capabilities{UnreliableDoubleClick: true, AlwaysPropagate: true}},
		{Version4, classifier.Capabilities{SynthesizeButtonState: true, AlwaysPropagate: true}},
	}

	for _, tt := range tests {
		if got := tt.v.Capabilities(); got != tt.want {
			t.Errorf("%s.Capabilities() = %+v, want %+v", tt.v, got, tt.want)
		}
	}
}

func TestClickTracker(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ct := newClickTracker(300 * time.Millisecond)

	steps := []struct {
		at   time.Duration
		want int
	}{
		{0, 1},
		{100 * time.Millisecond, 2},
		{150 * time.Millisecond, 1},
		{1 * time.Second, 1},
		{1300 * time.Millisecond, 2},
		{1200 * time.Millisecond, 1}, // clock went backwards
	}
	for i, s := range steps {
		if got := ct.recordClick(base.Add(s.at)); got != s.want {
			t.Errorf("step %d: count = %d, want %d", i, got, s.want)
		}
	}

	ct.reset()
	if got := ct.recordClick(base); got != 1 {
		t.Errorf("after reset count = %d, want 1", got)
	}
}

func TestHost_SingleClickToggles(t *testing.T) {
	h, _ := newTestHost(t, Version3, nil)

	h.Click(mouse.ButtonLeft)

	if !h.Player().Paused() || h.Player().Toggles() != 1 {
		t.Errorf("paused=%t toggles=%d", h.Player().Paused(), h.Player().Toggles())
	}
	if h.OSD().Last() != playback.IconPause {
		t.Errorf("icon = %v, want pause", h.OSD().Last())
	}
	if st := h.Stats(); st.LastDecision != classifier.NoAction || st.Events != 2 {
		t.Errorf("stats = %+v", st)
	}
}

func TestHost_NativeDoubleClickStyles(t *testing.T) {
	tests := []struct {
		name       string
		v          Version
		fullscreen bool
		toggles    int
	}{
		// The flag-only event qualifies through the unreliable path.
		{"v3 flag only", Version3, true, 2},
		{"v2.2 flag only", Version22, true, 2},
		{"v4 with press", Version4, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHost(t, tt.v, nil)
			h.DoubleClick(mouse.ButtonLeft)

			if h.Fullscreen() != tt.fullscreen {
				t.Errorf("Fullscreen() = %t, want %t", h.Fullscreen(), tt.fullscreen)
			}
			if got := h.Player().Toggles(); got != tt.toggles {
				t.Errorf("toggles = %d, want %d", got, tt.toggles)
			}
		})
	}
}

func TestHost_DelayArbitratesDoubleClick(t *testing.T) {
	for _, v := range []Version{Version21, Version3, Version4} {
		t.Run(v.String(), func(t *testing.T) {
			h, _ := newTestHost(t, v, map[string]any{config.KeyEnableDoubleClickDelay: true})

			h.DoubleClick(mouse.ButtonLeft)
			h.Wait(time.Second)

			if !h.Fullscreen() {
				t.Error("double click did not toggle fullscreen")
			}
			if h.Player().Paused() {
				t.Error("double click left playback paused")
			}
			if n := len(h.OSD().Icons()); n != 0 {
				t.Errorf("double click flashed %d icons", n)
			}
			if h.Stats().Fires != 0 {
				t.Error("deferred decision fired after a double click")
			}
		})
	}
}

func TestHost_IgnoreDoubleClick(t *testing.T) {
	h, _ := newTestHost(t, Version3, map[string]any{config.KeyIgnoreDoubleClick: true})

	h.Click(mouse.ButtonLeft)
	if h.Player().Toggles() != 0 || !h.Armed() {
		t.Fatalf("toggled before the delay: toggles=%d armed=%t", h.Player().Toggles(), h.Armed())
	}

	var fires []classifier.FireResult
	h.OnFire(func(fr classifier.FireResult) { fires = append(fires, fr) })
	h.Wait(time.Duration(config.DefaultDoubleClickDelayMs) * time.Millisecond)

	if h.Player().Toggles() != 1 || h.Armed() {
		t.Errorf("after delay: toggles=%d armed=%t", h.Player().Toggles(), h.Armed())
	}
	if len(fires) != 1 || fires[0].Toggle == nil {
		t.Errorf("fires = %+v", fires)
	}

	h.Wait(time.Second)
	h.DoubleClick(mouse.ButtonLeft)
	h.Wait(time.Second)
	if h.Player().Toggles() != 1 {
		t.Errorf("double click toggled under ignore: toggles=%d", h.Player().Toggles())
	}
}

func TestHost_ContextMenu(t *testing.T) {
	tests := []struct {
		name     string
		v        Version
		settings map[string]any
		button   mouse.Button
		want     bool
	}{
		{"right opens menu", Version3, nil, mouse.ButtonRight, true},
		{"disabled", Version3, map[string]any{config.KeyDisableContextMenuToggle: true}, mouse.ButtonRight, false},
		{"remapped to middle", Version3, map[string]any{
			config.KeyContextMenuToggleMouseButton: mouse.ButtonMiddle.Index(),
		}, mouse.ButtonMiddle, true},
		{"remapped on v2.1", Version21, map[string]any{
			config.KeyContextMenuToggleMouseButton: mouse.ButtonMiddle.Index(),
		}, mouse.ButtonMiddle, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHost(t, tt.v, tt.settings)
			h.Click(tt.button)
			if h.ContextMenu() != tt.want {
				t.Errorf("ContextMenu() = %t, want %t", h.ContextMenu(), tt.want)
			}
		})
	}
}

func TestHost_FullscreenRemap(t *testing.T) {
	for _, v := range []Version{Version22, Version3, Version4} {
		t.Run(v.String(), func(t *testing.T) {
			h, _ := newTestHost(t, v, map[string]any{
				config.KeyFullscreenToggleMouseButton: mouse.ButtonMiddle.Index(),
			})
			h.Click(mouse.ButtonMiddle)
			if !h.Fullscreen() {
				t.Error("middle click did not toggle fullscreen")
			}
		})
	}
}

func TestHost_DisableFullscreen(t *testing.T) {
	h, _ := newTestHost(t, Version4, map[string]any{config.KeyDisableFullscreenToggle: true})
	h.DoubleClick(mouse.ButtonLeft)
	if h.Fullscreen() {
		t.Error("fullscreen toggled while disabled")
	}
}

func TestHost_Scroll(t *testing.T) {
	h, _ := newTestHost(t, Version3, map[string]any{config.KeyMouseButton: mouse.ButtonWheelUp.Index()})

	h.Scroll(mouse.ButtonWheelUp)
	h.Scroll(mouse.ButtonWheelDown)

	if h.Player().Toggles() != 1 {
		t.Errorf("toggles = %d, want 1", h.Player().Toggles())
	}
}

func TestHost_InteractiveMenuSuppresses(t *testing.T) {
	h, _ := newTestHost(t, Version3, nil)
	h.Player().SetInteractiveMenu(true)

	var last Event
	h.OnEvent(func(ev Event) { last = ev })
	h.Press(mouse.ButtonLeft)

	if h.Player().Toggles() != 0 {
		t.Error("toggled inside an interactive menu")
	}
	if last.Result.Toggle == nil || last.Result.Toggle.Result != playback.Suppressed {
		t.Errorf("toggle outcome = %+v", last.Result.Toggle)
	}
}

func TestHost_PropagationOnOldHosts(t *testing.T) {
	h, _ := newTestHost(t, Version21, nil)

	ev := h.Press(mouse.ButtonMiddle)
	if ev.Propagated {
		t.Error("v2.1 host took an unchanged snapshot")
	}
	h.Release(mouse.ButtonMiddle)

	if ev := h.Press(mouse.ButtonLeft); !ev.Propagated || ev.Result.Decision == classifier.NoAction {
		t.Errorf("v2.1 host dropped the snapshot of a toggling click: %+v", ev)
	}
	h.Release(mouse.ButtonLeft)

	h2, _ := newTestHost(t, Version3, nil)
	if ev := h2.Press(mouse.ButtonLeft); !ev.Propagated {
		t.Error("v3 host did not take the snapshot")
	}
}

func TestHost_DetachedInterface(t *testing.T) {
	h, _ := newTestHost(t, Version3, nil)
	if err := h.DetachInterface(); err != nil {
		t.Fatal(err)
	}

	ev := h.Press(mouse.ButtonLeft)
	if ev.Result.Toggle == nil || ev.Result.Toggle.Result != playback.NoHandle {
		t.Errorf("toggle outcome = %+v", ev.Result.Toggle)
	}
	if h.Player().Toggles() != 0 {
		t.Error("detached plugin toggled the player")
	}
}

func TestHost_UnloadedFilterPassesThrough(t *testing.T) {
	h, _ := newTestHost(t, Version3, nil)
	if err := h.Unload(); err != nil {
		t.Fatal(err)
	}

	h.DoubleClick(mouse.ButtonLeft)
	if h.Player().Toggles() != 0 {
		t.Error("unloaded filter toggled")
	}
	if !h.Fullscreen() {
		t.Error("host default did not run without the filter")
	}
	if err := h.Unload(); err == nil {
		t.Error("second Unload should fail")
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("New() without a source should fail")
	}
}

func TestPlayer_FailNext(t *testing.T) {
	p := NewPlayer()
	var changes []bool
	p.OnChange(func(paused bool) { changes = append(changes, paused) })

	boom := errors.New("boom")
	p.FailNext(boom)
	if _, err := p.TogglePause(); !errors.Is(err, boom) {
		t.Errorf("TogglePause() error = %v", err)
	}
	if paused, err := p.TogglePause(); err != nil || !paused {
		t.Errorf("TogglePause() = %t, %v", paused, err)
	}
	if p.Toggles() != 1 || len(changes) != 1 {
		t.Errorf("toggles=%d changes=%v", p.Toggles(), changes)
	}
}
