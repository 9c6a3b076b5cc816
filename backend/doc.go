// Package backend describes the drawing device the lcd package manages
// resources for.
//
// A backend is a capability table: factory calls that hand out opaque
// handles (or a null handle plus an optional message), pixel queries,
// draw dispatch and a push/pop pair that redirects drawing into an
// offscreen bitmap. The lcd package owns the lifetime rules around those
// handles; backends only implement the calls.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The simulator registers itself on import:
//
//	import _ "github.com/gogpu/lcd/backend/software"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	b, err := backend.InitDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
// # Available Backends
//
//   - "software": pure Go 1-bit simulator (backend/software)
//   - "device": reserved for hardware bindings
package backend
