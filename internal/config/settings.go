package config

import (
	"fmt"
	"time"

	"github.com/dshills/pauseclick/internal/mouse"
)

// Settings is the configuration snapshot one mouse event is classified
// against.
type Settings struct {
	// PrimaryButton triggers pause/play. ButtonNone disables it.
	PrimaryButton mouse.Button

	// DelayEnabled makes the classifier use Delay instead of the host's
	// double-click detection.
	DelayEnabled bool

	// IgnoreDoubleClick defers every toggle until Delay has passed without a
	// second click.
	IgnoreDoubleClick bool

	// Delay is the double-click window, already clamped.
	Delay time.Duration

	DisableFullscreenToggle bool
	FullscreenButton        mouse.Button

	DisableContextMenuToggle bool
	ContextMenuButton        mouse.Button

	DisplayIcon bool
}

// Resolve reads a snapshot from src. Out-of-range button indices fall back
// to the binding's default and the delay is clamped to its range.
func Resolve(src Source) Settings {
	ms := src.GetInt(KeyDoubleClickDelay)
	if ms < MinDoubleClickDelayMs {
		ms = MinDoubleClickDelayMs
	} else if ms > MaxDoubleClickDelayMs {
		ms = MaxDoubleClickDelayMs
	}

	return Settings{
		PrimaryButton:            button(src, KeyMouseButton, mouse.Button(DefaultMouseButton)),
		DelayEnabled:             src.GetBool(KeyEnableDoubleClickDelay),
		IgnoreDoubleClick:        src.GetBool(KeyIgnoreDoubleClick),
		Delay:                    time.Duration(ms) * time.Millisecond,
		DisableFullscreenToggle:  src.GetBool(KeyDisableFullscreenToggle),
		FullscreenButton:         button(src, KeyFullscreenToggleMouseButton, mouse.ButtonNone),
		DisableContextMenuToggle: src.GetBool(KeyDisableContextMenuToggle),
		ContextMenuButton:        button(src, KeyContextMenuToggleMouseButton, mouse.ButtonNone),
		DisplayIcon:              src.GetBool(KeyDisplayIcon),
	}
}

func button(src Source, key string, def mouse.Button) mouse.Button {
	if b, ok := mouse.ButtonFromIndex(src.GetInt(key)); ok {
		return b
	}
	return def
}

// Arbitrates reports whether the classifier, rather than the host, decides
// what a double click of the primary button is. Only the left button is ever
// arbitrated since that is the button hosts report double clicks for.
func (s Settings) Arbitrates() bool {
	return (s.DelayEnabled || s.IgnoreDoubleClick) && s.PrimaryButton == mouse.ButtonLeft
}

// String renders the snapshot on one line for logs.
func (s Settings) String() string {
	return fmt.Sprintf("primary=%s delay=%t ignore=%t interval=%s fs-off=%t fs=%s menu-off=%t menu=%s icon=%t",
		s.PrimaryButton, s.DelayEnabled, s.IgnoreDoubleClick, s.Delay,
		s.DisableFullscreenToggle, s.FullscreenButton,
		s.DisableContextMenuToggle, s.ContextMenuButton, s.DisplayIcon)
}
