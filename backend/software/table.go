package software

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/lcd/backend"
)

// table is an ordered set of equally sized cells.
type table struct {
	cells     []*plane
	cellsWide int
}

// gridName matches sprite sheets named name-table-W-H.ext.
var gridName = regexp.MustCompile(`-table-(\d+)-(\d+)\.[A-Za-z]+$`)

func (d *device) table(h backend.BitmapTable) (*table, error) {
	e, ok := d.handles.get(uintptr(h), kindTable)
	if !ok {
		return nil, fmt.Errorf("software: %w: bitmap table %d", backend.ErrInvalidHandle, h)
	}
	return e.value.(*table), nil
}

func (d *device) newTable(t *table) (backend.BitmapTable, error) {
	h, err := d.handles.create(kindTable, t, false)
	if err != nil {
		return 0, err
	}
	d.stats.TablesAllocated++
	d.log.Debug("software: table allocated", "handle", h, "cells", len(t.cells))
	return backend.BitmapTable(h), nil
}

// loadTable reads a table asset. A file named name-table-W-H.ext is cut
// into a grid of W x H cells, row by row; otherwise the files
// name-table-1.ext, name-table-2.ext, ... are read as a sequence.
func (d *device) loadTable(path string) (*table, string) {
	full := d.resolve(path)
	if m := gridName.FindStringSubmatch(full); m != nil {
		return d.loadGrid(full, m)
	}
	base := strings.TrimSuffix(full, filepath.Ext(full))
	if file, m, ok := findGrid(base); ok {
		return d.loadGrid(file, m)
	}
	if t, ok, msg := d.loadSequence(base); ok || msg != "" {
		return t, msg
	}
	return nil, fmt.Sprintf("file not found: %s", path)
}

// findGrid looks for a grid sheet next to base.
func findGrid(base string) (string, []string, bool) {
	entries, err := os.ReadDir(filepath.Dir(base))
	if err != nil {
		return "", nil, false
	}
	prefix := filepath.Base(base) + "-table-"
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if m := gridName.FindStringSubmatch(name); m != nil && strings.Count(name[len(prefix):], "-") == 1 {
			return filepath.Join(filepath.Dir(base), name), m, true
		}
	}
	return "", nil, false
}

func (d *device) loadGrid(file string, m []string) (*table, string) {
	if _, err := os.Stat(file); err != nil {
		return nil, fmt.Sprintf("file not found: %s", filepath.Base(file))
	}
	cw, _ := strconv.Atoi(m[1])
	ch, _ := strconv.Atoi(m[2])
	sheet, err := d.decodeFile(file)
	if err != nil {
		return nil, err.Error()
	}
	if cw <= 0 || ch <= 0 || cw > sheet.width || ch > sheet.height {
		return nil, fmt.Sprintf("bad cell size %dx%d for %dx%d sheet", cw, ch, sheet.width, sheet.height)
	}
	t := &table{cellsWide: sheet.width / cw}
	for y := 0; y+ch <= sheet.height; y += ch {
		for x := 0; x+cw <= sheet.width; x += cw {
			t.cells = append(t.cells, sheet.sub(x, y, cw, ch))
		}
	}
	return t, ""
}

// loadSequence reads numbered cell files starting at 1. ok is false when
// not even the first cell exists.
func (d *device) loadSequence(base string) (*table, bool, string) {
	first, found := findImage(base + "-table-1")
	if !found {
		return nil, false, ""
	}
	ext := filepath.Ext(first)
	t := &table{}
	for i := 1; ; i++ {
		file := fmt.Sprintf("%s-table-%d%s", base, i, ext)
		if _, err := os.Stat(file); err != nil {
			break
		}
		p, err := d.decodeFile(file)
		if err != nil {
			return nil, true, err.Error()
		}
		t.cells = append(t.cells, p)
	}
	t.cellsWide = len(t.cells)
	return t, true, ""
}
