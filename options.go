package lcd

import "log/slog"

// Option configures a Device during Open.
//
// Example:
//
//	dev, err := lcd.Open(nil,
//	    lcd.WithLogger(logger),
//	    lcd.WithDuplicatePolicy(lcd.DuplicateAlwaysOwned))
type Option func(*options)

type options struct {
	logger      *slog.Logger
	duplicate   DuplicatePolicy
	tableReload TableReloadPolicy
}

func defaultOptions() options {
	return options{
		duplicate:   DuplicateMirrorsSource,
		tableReload: TableReloadInvalidates,
	}
}

// DuplicatePolicy decides who owns the result of Bitmap.Duplicate.
type DuplicatePolicy uint8

const (
	// DuplicateMirrorsSource gives the copy the source's ownership, so
	// duplicating a borrowed bitmap yields a copy that is never freed.
	DuplicateMirrorsSource DuplicatePolicy = iota
	// DuplicateAlwaysOwned frees every copy on its last release.
	DuplicateAlwaysOwned
)

// TableReloadPolicy decides what BitmapTable.Load does with bitmaps
// already resolved from the table.
type TableReloadPolicy uint8

const (
	// TableReloadInvalidates drops the cached bitmaps so later lookups
	// see the reloaded cells.
	TableReloadInvalidates TableReloadPolicy = iota
	// TableReloadKeepsCache keeps returning the bitmaps resolved before
	// the reload.
	TableReloadKeepsCache
)

// WithLogger sets the logger used by the device instead of the package
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithDuplicatePolicy selects the ownership of duplicated bitmaps.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(o *options) {
		o.duplicate = p
	}
}

// WithTableReloadPolicy selects how table reloads treat cached bitmaps.
func WithTableReloadPolicy(p TableReloadPolicy) Option {
	return func(o *options) {
		o.tableReload = p
	}
}
