package config

import (
	"fmt"
	"sync"

	"github.com/dshills/pauseclick/internal/mouse"
)

// Prefix is shared by every setting key.
const Prefix = "pause-click-"

// Setting keys.
const (
	KeyMouseButton                  = Prefix + "mouse-button"
	KeyDisplayIcon                  = Prefix + "display-icon"
	KeyEnableDoubleClickDelay       = Prefix + "enable-double-click-delay"
	KeyDoubleClickDelay             = Prefix + "double-click-delay"
	KeyIgnoreDoubleClick            = Prefix + "ignore-double-click"
	KeyDisableFullscreenToggle      = Prefix + "disable-fs-toggle"
	KeyFullscreenToggleMouseButton  = Prefix + "fs-toggle-mouse-button"
	KeyDisableContextMenuToggle     = Prefix + "disable-context-menu-toggle"
	KeyContextMenuToggleMouseButton = Prefix + "context-menu-toggle-mouse-button"
)

// Defaults.
const (
	DefaultMouseButton        = int64(mouse.ButtonLeft)
	DefaultDoubleClickDelayMs = int64(300)
	MinDoubleClickDelayMs     = int64(20)
	MaxDoubleClickDelayMs     = int64(5000)

	// MaxButtonIndex is the highest valid button index.
	MaxButtonIndex = int64(mouse.ButtonWheelRight)
)

// Preference sections.
const (
	SectionGeneral     = "General"
	SectionDoubleClick = "Double click behavior"
	SectionButtons     = "Mouse button assignment"
)

// Registry maintains all known setting definitions in declaration order.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	settings map[string]*Setting
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		settings: make(map[string]*Setting),
	}
}

// Register adds a setting definition to the registry.
func (r *Registry) Register(setting Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.settings[setting.Key]; exists {
		return fmt.Errorf("setting %s already registered", setting.Key)
	}

	s := setting
	r.settings[s.Key] = &s
	r.order = append(r.order, s.Key)
	return nil
}

// MustRegister registers a setting and panics on error.
func (r *Registry) MustRegister(setting Setting) {
	if err := r.Register(setting); err != nil {
		panic(err)
	}
}

// Lookup returns the setting definition for key.
func (r *Registry) Lookup(key string) (*Setting, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.settings[key]
	return s, ok
}

// All returns the settings in registration order.
func (r *Registry) All() []*Setting {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Setting, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.settings[key])
	}
	return out
}

// Sections returns section names in the order their first setting was
// registered.
func (r *Registry) Sections() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, key := range r.order {
		sec := r.settings[key].Section
		if !seen[sec] {
			seen[sec] = true
			out = append(out, sec)
		}
	}
	return out
}

// Section returns the settings of one section in registration order.
func (r *Registry) Section(name string) []*Setting {
	var out []*Setting
	for _, s := range r.All() {
		if s.Section == name {
			out = append(out, s)
		}
	}
	return out
}

// Defaults returns a map of all default values.
func (r *Registry) Defaults() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]any, len(r.settings))
	for key, s := range r.settings {
		out[key] = s.Default
	}
	return out
}

func buttonChoices() []Choice {
	out := []Choice{{Value: int64(mouse.ButtonNone), Label: mouse.ButtonNone.Label()}}
	for _, b := range mouse.Buttons() {
		out = append(out, Choice{Value: b.Index(), Label: b.Label()})
	}
	return out
}

// NewDefaultRegistry returns a registry holding every pauseclick setting.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(Setting{
		Key:      KeyMouseButton,
		Type:     TypeInt,
		Default:  DefaultMouseButton,
		Section:  SectionGeneral,
		Text:     "Pause/play mouse button",
		LongText: "Defines the mouse button that will pause/play the video. None disables pause/play.",
		Choices:  buttonChoices(),
	})
	r.MustRegister(Setting{
		Key:      KeyDisplayIcon,
		Type:     TypeBool,
		Default:  true,
		Section:  SectionGeneral,
		Text:     "Show pause/play icon animations",
		LongText: "Overlay pause and play icons on the video when it's paused and played respectively.",
	})
	r.MustRegister(Setting{
		Key:      KeyEnableDoubleClickDelay,
		Type:     TypeBool,
		Default:  false,
		Section:  SectionDoubleClick,
		Text:     "Enable the custom double click interval",
		LongText: "Ignore the system's double click interval and use our own instead.",
	})
	r.MustRegister(Setting{
		Key:      KeyDoubleClickDelay,
		Type:     TypeInt,
		Default:  DefaultDoubleClickDelayMs,
		Section:  SectionDoubleClick,
		Text:     "Custom double click interval (milliseconds)",
		LongText: "Two clicks made during this time interval will be treated as a double click.",
		Min:      Int64(MinDoubleClickDelayMs),
		Max:      Int64(MaxDoubleClickDelayMs),
	})
	r.MustRegister(Setting{
		Key:     KeyIgnoreDoubleClick,
		Type:    TypeBool,
		Default: false,
		Section: SectionDoubleClick,
		Text:    "Prevent pause/play from triggering on double click",
		LongText: "Pause/play waits for the double click interval to pass, so it is not as snappy. " +
			"Forces the use of the custom double click interval.",
	})
	r.MustRegister(Setting{
		Key:      KeyDisableFullscreenToggle,
		Type:     TypeBool,
		Default:  false,
		Section:  SectionButtons,
		Text:     "Disable fullscreen toggle on double click",
		LongText: "The video will no longer fullscreen when you double click on it.",
	})
	r.MustRegister(Setting{
		Key:      KeyFullscreenToggleMouseButton,
		Type:     TypeInt,
		Default:  int64(mouse.ButtonNone),
		Section:  SectionButtons,
		Text:     "Assign fullscreen toggle to",
		LongText: "Assigns fullscreen toggle to a mouse button.",
		Choices:  buttonChoices(),
	})
	r.MustRegister(Setting{
		Key:      KeyDisableContextMenuToggle,
		Type:     TypeBool,
		Default:  false,
		Section:  SectionButtons,
		Text:     "Disable context menu toggle on right click",
		LongText: "The context menu will no longer pop up if you right click on the video.",
	})
	r.MustRegister(Setting{
		Key:      KeyContextMenuToggleMouseButton,
		Type:     TypeInt,
		Default:  int64(mouse.ButtonNone),
		Section:  SectionButtons,
		Text:     "Assign context menu toggle to",
		LongText: "Assigns context menu toggle to a mouse button.",
		Choices:  buttonChoices(),
	})

	return r
}
