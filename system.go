package lcd

import (
	"fmt"

	"github.com/gogpu/lcd/backend"
)

// System exposes the backend's system services.
type System struct {
	dev *Device
	raw backend.System
}

// Realloc forwards to the backend allocator: a zero ptr allocates, a zero
// size frees and returns zero.
func (s *System) Realloc(ptr uintptr, size int) uintptr {
	return s.raw.Realloc(ptr, size)
}

// LogToConsole writes a formatted line to the device console.
func (s *System) LogToConsole(format string, args ...any) {
	s.raw.LogToConsole(fmt.Sprintf(format, args...))
}
