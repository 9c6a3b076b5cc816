package lcd

import (
	"log/slog"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.duplicate != DuplicateMirrorsSource {
		t.Errorf("duplicate = %v, want DuplicateMirrorsSource", o.duplicate)
	}
	if o.tableReload != TableReloadInvalidates {
		t.Errorf("tableReload = %v, want TableReloadInvalidates", o.tableReload)
	}
	if o.logger != nil {
		t.Error("default logger should be nil so the package logger is used")
	}
}

func TestOptionsApplied(t *testing.T) {
	l := slog.New(nopHandler{})
	dev, _ := openTest(t,
		WithLogger(l),
		WithDuplicatePolicy(DuplicateAlwaysOwned),
		WithTableReloadPolicy(TableReloadKeepsCache))

	if dev.logger() != l {
		t.Error("WithLogger() not applied")
	}
	if dev.opts.duplicate != DuplicateAlwaysOwned || dev.opts.tableReload != TableReloadKeepsCache {
		t.Errorf("options = %+v", dev.opts)
	}
}

func TestDeviceLoggerFallsBackToPackageLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	dev, _ := openTest(t)

	l := slog.New(nopHandler{})
	SetLogger(l)
	if dev.logger() != l {
		t.Error("device without WithLogger should follow SetLogger")
	}
}
