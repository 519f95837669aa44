// Package classifier turns pairs of mouse snapshots into pause/play
// decisions and rewrites the outgoing snapshot the host's own fullscreen and
// context-menu handlers see.
//
// # Arbitration
//
// Hosts flag double clicks themselves. When the custom double-click delay or
// ignore-double-click is enabled for the left button, the classifier strips
// that flag and decides on its own, using the deferred-decision timer:
//
//	first click   arm timer for the delay
//	second click  timer pending: disarm it and set the double-click flag
//	timer fires   the first click was a single click
//
// With ignore-double-click on, pause/play waits for the timer. With it off,
// every click toggles at once without an icon and the icon is shown when the
// timer confirms a single click, so a double click nets to no change and no
// icon flashes.
//
// Other primary buttons are never arbitrated. They toggle at once, except
// with ignore-double-click on, where they do nothing.
//
// # Filters
//
// After the pause/play decision four independent filters run in order:
// suppress the native fullscreen toggle, remap fullscreen to a button,
// suppress the native context menu, remap the context menu to a button.
// Filters apply even when no player handle is published or the player is
// in an interactive menu.
package classifier
