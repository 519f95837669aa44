// Package config provides the configuration store the click classifier reads
// on every mouse event.
//
// # Settings
//
// Every option is registered in a Registry with its type, default, range,
// and the preference section it belongs to. Keys carry the "pause-click-"
// prefix, for example "pause-click-double-click-delay".
//
// # Layers
//
// A Store resolves each key through four layers, highest precedence first:
//
//	override  runtime Set calls (scripts, interactive hosts)
//	env       PAUSECLICK_* environment variables
//	file      TOML, YAML or JSON config file
//	default   registry defaults
//
// A layer value of the wrong type is skipped and the next layer is consulted.
// Integers outside a setting's range are clamped. Nothing read through a Store
// ever fails; misconfiguration degrades to defaults.
//
// # Snapshots
//
// Resolve builds a Settings value from any Source. The classifier calls it
// once per event, so edits made between two clicks take effect on the second
// one without a restart:
//
//	s := config.Resolve(store)
//	if s.Arbitrates() {
//	    // the classifier owns double-click detection for the left button
//	}
//
// # Live reload
//
// The watcher subpackage reloads the file layer when the file changes on
// disk.
package config
