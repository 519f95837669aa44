package host

import (
	"fmt"
	"strings"

	"github.com/dshills/pauseclick/internal/classifier"
)

// Version selects which media player release the host imitates. Releases
// differ in how they report double clicks and how they treat the snapshot
// the filter hands back.
type Version int

const (
	// Version21 reports double clicks unreliably and only takes the
	// filter's snapshot when the filter says it changed something.
	Version21 Version = iota
	// Version22 behaves like Version21.
	Version22
	// Version3 reports double clicks unreliably and always takes the
	// filter's snapshot.
	Version3
	// Version4 reports double clicks together with the press and needs the
	// left button held for a double click to toggle fullscreen.
	Version4
)

// DefaultVersion is used when no version is configured.
const DefaultVersion = Version3

// Versions lists every supported release, oldest first.
func Versions() []Version {
	return []Version{Version21, Version22, Version3, Version4}
}

// String returns the release number.
func (v Version) String() string {
	switch v {
	case Version21:
		return "2.1"
	case Version22:
		return "2.2"
	case Version3:
		return "3"
	case Version4:
		return "4"
	default:
		return "unknown"
	}
}

// ParseVersion parses "2.1", "2.2", "3", "3.0", "4" or "4.0". A leading "v"
// is accepted.
func ParseVersion(s string) (Version, error) {
	switch strings.TrimPrefix(strings.TrimSpace(strings.ToLower(s)), "v") {
	case "2.1", "2.1.x":
		return Version21, nil
	case "2.2", "2.2.x":
		return Version22, nil
	case "3", "3.0", "3.0.x":
		return Version3, nil
	case "4", "4.0", "4.0.x":
		return Version4, nil
	}
	return DefaultVersion, fmt.Errorf("unsupported host version %q", s)
}

// Capabilities returns the quirks the classifier must account for.
func (v Version) Capabilities() classifier.Capabilities {
	switch v {
	case Version21, Version22:
		return classifier.Capabilities{UnreliableDoubleClick: true}
	case Version4:
		return classifier.Capabilities{SynthesizeButtonState: true, AlwaysPropagate: true}
	default:
		return classifier.Capabilities{UnreliableDoubleClick: true, AlwaysPropagate: true}
	}
}

// DoubleClickStyle is how the host reports the second press of a double
// click.
func (v Version) DoubleClickStyle() DoubleClickStyle {
	if v == Version4 {
		return DoubleClickWithPress
	}
	return DoubleClickFlagOnly
}
