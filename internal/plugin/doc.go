// Package plugin exposes the pause-click logic to a media player host as two
// sub-modules sharing one Context.
//
// The video filter sub-module owns the click classifier and its deferred
// timer. The host calls Mouse for every mouse event on the video output and
// Video for every picture; pictures pass through untouched.
//
// The interface sub-module exists only to learn the player handle. Opening
// it publishes the handle to the shared playback control, closing it clears
// the handle, and every toggle attempted in between reaches the player.
//
// # Lifecycle
//
//	ctx, err := plugin.NewContext(plugin.ContextOptions{Source: store, Scheduler: timer.RealScheduler{}})
//	iface := plugin.NewInterface(ctx)
//	_ = iface.Open(&playback.Handle{Player: p, OSD: osd})
//
//	f := plugin.NewVideoFilter(ctx)
//	if err := f.Open(plugin.FormatPair{In: format, Out: format}); err != nil {
//	    // activation refused, nothing allocated
//	}
//	out, propagate := f.Mouse(old, cur)
//
//	f.Close()
//	iface.Close()
//
// Either sub-module may be opened first. A filter opened before the
// interface logs a warning and its toggles report playback.NoHandle until
// the handle arrives.
package plugin
