package gdev

import (
	"cmp"
	"slices"
)

// BatchReportEntry counts the submissions of one material during a
// reported frame.
type BatchReportEntry struct {
	Material string

	DrawCalls  int
	Primitives int
	Vertices   int

	InstancedDrawCalls  int
	InstancingBatches   int
	InstancedPrimitives int
	InstancedVertices   int

	EmptyOperations          int
	EmptyInstancedOperations int
}

// Sorter is the weight used to order report entries: total native draws.
func (e BatchReportEntry) Sorter() int { return e.DrawCalls + e.InstancingBatches }

// batchReport accumulates entries while a report is requested.
type batchReport struct {
	requested bool
	entries   map[*Material]*BatchReportEntry
	last      []BatchReportEntry
}

// entry returns the accumulator of m, or nil when no report is requested.
func (r *batchReport) entry(m *Material) *BatchReportEntry {
	if !r.requested {
		return nil
	}
	if r.entries == nil {
		r.entries = make(map[*Material]*BatchReportEntry)
	}
	e, ok := r.entries[m]
	if !ok {
		e = &BatchReportEntry{Material: m.Name}
		r.entries[m] = e
	}
	return e
}

// RequestBatchReport collects per-material submission counts until the
// next EndFrame, which logs and stores them.
func (d *Device) RequestBatchReport() {
	d.report.requested = true
}

// LastBatchReport returns the entries of the most recent report, ordered
// by descending Sorter.
func (d *Device) LastBatchReport() []BatchReportEntry {
	return slices.Clone(d.report.last)
}

func (d *Device) finishBatchReport() {
	r := &d.report
	if !r.requested {
		return
	}
	entries := make([]BatchReportEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, *e)
	}
	slices.SortStableFunc(entries, func(a, b BatchReportEntry) int {
		if c := cmp.Compare(b.Sorter(), a.Sorter()); c != 0 {
			return c
		}
		return cmp.Compare(a.Material, b.Material)
	})

	d.log.Info("gdev: batch report", "frame", d.stats.Frame, "materials", len(entries),
		"batches", d.stats.Batches, "primitives", d.stats.Primitives, "vertices", d.stats.Vertices)
	for _, e := range entries {
		d.log.Info("gdev: batch",
			"material", e.Material,
			"dp", e.DrawCalls,
			"primitives", e.Primitives,
			"vertices", e.Vertices,
			"dpInstanced", e.InstancedDrawCalls,
			"instancingBatches", e.InstancingBatches,
			"primitivesInstanced", e.InstancedPrimitives,
			"verticesInstanced", e.InstancedVertices,
			"emptyOps", e.EmptyOperations,
			"emptyInstancedOps", e.EmptyInstancedOperations)
	}

	r.last = entries
	r.entries = nil
	r.requested = false
}
