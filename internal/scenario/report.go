package scenario

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/pauseclick/internal/host"
	"github.com/dshills/pauseclick/internal/playback"
)

// Failure is one expectation that did not hold.
type Failure struct {
	// Where is the script position, "name:line:".
	Where   string
	Message string
}

// String renders the failure as "name:line: message".
func (f Failure) String() string {
	return strings.TrimSpace(f.Where + " " + f.Message)
}

// Report is the outcome of one scenario run.
type Report struct {
	Name    string
	Version host.Version

	Passed   int
	Failed   int
	Failures []Failure
	Logs     []string

	// Elapsed is the virtual time the script waited.
	Elapsed time.Duration

	// Final host state.
	Toggles     int
	Paused      bool
	Fullscreen  bool
	ContextMenu bool
	Icons       []playback.Icon
	Stats       host.Stats

	// Err is the script error, if the script did not run to completion.
	Err error
}

// OK reports whether the script completed and every expectation held.
func (r *Report) OK() bool {
	return r.Err == nil && r.Failed == 0
}

// String renders a multi-line summary.
func (r *Report) String() string {
	var b strings.Builder

	status := "PASS"
	if !r.OK() {
		status = "FAIL"
	}
	fmt.Fprintf(&b, "%s %s (host %s): %d passed, %d failed, %s virtual\n",
		status, r.Name, r.Version, r.Passed, r.Failed, r.Elapsed)
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "  %s\n", f)
	}
	if r.Err != nil {
		fmt.Fprintf(&b, "  error: %v\n", r.Err)
	}
	fmt.Fprintf(&b, "  toggles=%d paused=%t fullscreen=%t menu=%t icons=%s events=%d fires=%d",
		r.Toggles, r.Paused, r.Fullscreen, r.ContextMenu, iconNames(r.Icons), r.Stats.Events, r.Stats.Fires)
	return b.String()
}

func iconNames(icons []playback.Icon) string {
	names := make([]string, len(icons))
	for i, ic := range icons {
		names[i] = ic.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}
