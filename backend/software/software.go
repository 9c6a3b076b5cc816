package software

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/lcd/backend"
)

func init() {
	backend.Register(backend.BackendSoftware, func() backend.Backend {
		return New()
	})
}

// Option configures a software backend.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	assetRoot string
	cacheSize int
}

// WithLogger routes backend diagnostics and LogToConsole output to l.
// Without it the backend is silent.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithAssetRoot resolves relative asset paths against dir.
func WithAssetRoot(dir string) Option {
	return func(o *options) {
		o.assetRoot = dir
	}
}

// WithDecodeCacheSize sets how many decoded images are kept in memory.
// Zero disables the cache.
func WithDecodeCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = max(n, 0)
	}
}

// Stats reports resource and call counters.
type Stats struct {
	BitmapsAllocated int
	BitmapsFreed     int
	TablesAllocated  int
	TablesFreed      int
	FontsLoaded      int
	FontsFreed       int
	AllocsLive       int

	LiveBitmaps int
	LiveTables  int

	ContextDepth    int
	Flushes         int
	CollisionChecks int
	DrawCalls       int

	DecodeCacheHits   uint64
	DecodeCacheMisses uint64
}

// Backend is a pure Go implementation of the 1-bit drawing device.
// It is not safe for concurrent use.
type Backend struct {
	d *device

	graphics *graphics
	display  *display
	system   *system
}

var _ backend.Backend = (*Backend)(nil)

// New creates an uninitialized software backend.
func New(opts ...Option) *Backend {
	o := options{cacheSize: DefaultDecodeCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	d := newDevice(o)
	return &Backend{
		d:        d,
		graphics: &graphics{d},
		display:  &display{d},
		system:   &system{d},
	}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendSoftware
}

// Init prepares the device. It is idempotent.
func (b *Backend) Init() error {
	if b.d.closed {
		return fmt.Errorf("software: %w: backend was closed", backend.ErrNotInitialized)
	}
	if b.d.initialized {
		return nil
	}
	b.d.initialized = true
	b.d.log.Debug("software: initialized", "cache", b.d.opts.cacheSize, "assets", b.d.opts.assetRoot)
	return nil
}

// Close releases every handle. The backend cannot be used afterwards.
func (b *Backend) Close() {
	if b.d.closed {
		return
	}
	b.d.log.Debug("software: closing",
		"bitmaps", b.d.handles.count(kindBitmap),
		"tables", b.d.handles.count(kindTable),
		"allocs", b.d.handles.count(kindAlloc))
	b.d.handles.close()
	b.d.cache.clear()
	b.d.stack = nil
	b.d.closed = true
	b.d.initialized = false
}

// Graphics returns the drawing capability table.
func (b *Backend) Graphics() backend.Graphics { return b.graphics }

// Display returns the display capability table.
func (b *Backend) Display() backend.Display { return b.display }

// System returns the system capability table.
func (b *Backend) System() backend.System { return b.system }

// Stats returns a snapshot of the backend counters.
func (b *Backend) Stats() Stats {
	s := b.d.stats
	s.LiveBitmaps = b.d.handles.count(kindBitmap)
	s.LiveTables = b.d.handles.count(kindTable)
	s.AllocsLive = b.d.handles.count(kindAlloc)
	s.ContextDepth = len(b.d.stack)
	cs := b.d.cache.stats()
	s.DecodeCacheHits = cs.Hits
	s.DecodeCacheMisses = cs.Misses
	return s
}

// DisplayState returns the current display settings.
func (b *Backend) DisplayState() DisplayState {
	return b.d.disp
}

// BackgroundColor returns the color last set with SetBackgroundColor.
func (b *Backend) BackgroundColor() backend.SolidColor {
	return b.d.bg
}

// Snapshot returns the display buffer as shown after the last Display call.
func (b *Backend) Snapshot() *image.Gray {
	return b.d.shown.toGray()
}

// FrameImage returns the working frame buffer.
func (b *Backend) FrameImage() *image.Gray {
	return b.d.frame.toGray()
}

// BitmapImage returns the pixels of a live bitmap. Transparent pixels are
// mid gray.
func (b *Backend) BitmapImage(h backend.Bitmap) (*image.Gray, bool) {
	p, err := b.d.bitmap(h)
	if err != nil {
		return nil, false
	}
	return p.toGray(), true
}

// device holds all simulator state shared by the capability tables.
type device struct {
	opts        options
	log         *slog.Logger
	initialized bool
	closed      bool

	handles *handleTable
	cache   *decodeCache

	frame *plane // working frame buffer
	shown *plane // display buffer
	debug *plane
	dirty rowSpan

	debugHandle   backend.Bitmap
	displayHandle backend.Bitmap

	state drawState
	stack []drawState
	bg    backend.SolidColor

	systemFont *fontFace
	disp       DisplayState

	stats Stats
}

func newDevice(o options) *device {
	log := o.logger
	if log == nil {
		log = slog.New(nopHandler{})
	}
	debug := newPlane(backend.Columns, backend.Rows)
	debug.ensureMask()
	for i := range debug.mask {
		debug.mask[i] = 0
	}
	return &device{
		opts:       o,
		log:        log,
		handles:    newHandleTable(),
		cache:      newDecodeCache(o.cacheSize),
		frame:      newPlane(backend.Columns, backend.Rows),
		shown:      newPlane(backend.Columns, backend.Rows),
		debug:      debug,
		state:      defaultDrawState(),
		bg:         backend.ColorWhite,
		systemFont: newSystemFont(),
		disp:       defaultDisplayState(),
	}
}

// ready reports whether the device accepts calls.
func (d *device) ready() error {
	if !d.initialized {
		return backend.ErrNotInitialized
	}
	return nil
}

// bitmap resolves a bitmap handle to its plane.
func (d *device) bitmap(h backend.Bitmap) (*plane, error) {
	e, ok := d.handles.get(uintptr(h), kindBitmap)
	if !ok {
		return nil, fmt.Errorf("software: %w: bitmap %d", backend.ErrInvalidHandle, h)
	}
	return e.value.(*plane), nil
}

// newBitmap registers p under a fresh caller-owned handle.
func (d *device) newBitmap(p *plane) (backend.Bitmap, error) {
	h, err := d.handles.create(kindBitmap, p, false)
	if err != nil {
		return 0, err
	}
	d.stats.BitmapsAllocated++
	d.log.Debug("software: bitmap allocated", "handle", h, "width", p.width, "height", p.height)
	return backend.Bitmap(h), nil
}

// pinBitmap registers a device-owned plane.
func (d *device) pinBitmap(p *plane) (backend.Bitmap, error) {
	h, err := d.handles.create(kindBitmap, p, true)
	return backend.Bitmap(h), err
}

// inUse reports whether p is the active or a saved drawing target.
func (d *device) inUse(p *plane) bool {
	if d.state.target == p {
		return true
	}
	for _, s := range d.stack {
		if s.target == p {
			return true
		}
	}
	return false
}

// nopHandler discards every record.
type nopHandler struct{}

func (nopHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (nopHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (h nopHandler) WithAttrs(_ []slog.Attr) slog.Handler        { return h }
func (h nopHandler) WithGroup(_ string) slog.Handler             { return h }
