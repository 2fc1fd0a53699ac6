package metrics

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/svdgoor/Tools/internal/models"
)

// Entry is one named count in reporting order.
type Entry struct {
	Name  string
	Count int64
}

// Found counts discovered files per category.
// It has a single writer (the batch coordinator) and is not safe for
// concurrent mutation.
type Found struct {
	counts map[models.Category]int64
}

// NewFound creates an empty found table.
func NewFound() *Found {
	return &Found{counts: make(map[models.Category]int64)}
}

// Add increments the count for category c.
func (f *Found) Add(c models.Category) {
	f.counts[c]++
}

// Get returns the count for category c.
func (f *Found) Get(c models.Category) int64 {
	return f.counts[c]
}

// Total returns the sum over all categories.
func (f *Found) Total() int64 {
	var n int64
	for _, v := range f.counts {
		n += v
	}
	return n
}

// Entries returns every category in reporting order, including zeros.
func (f *Found) Entries() []Entry {
	cats := models.Categories()
	entries := make([]Entry, 0, len(cats))
	for _, c := range cats {
		entries = append(entries, Entry{Name: string(c), Count: f.counts[c]})
	}
	return entries
}

// LogValue implements slog.LogValuer.
func (f *Found) LogValue() slog.Value {
	return entriesValue(f.Entries())
}

func (f *Found) String() string {
	return formatEntries(f.Entries())
}

// Created counts newly written sibling files per target format.
// Increments are atomic; workers call Inc concurrently.
type Created struct {
	counts map[models.Format]*atomic.Int64 // read-only after NewCreated
}

// NewCreated creates a zeroed table with one counter per supported format.
func NewCreated() *Created {
	c := &Created{counts: make(map[models.Format]*atomic.Int64, len(models.SupportedFormats))}
	for _, f := range models.SupportedFormats {
		c.counts[f] = new(atomic.Int64)
	}
	return c
}

// Inc records one created file of format f.
func (c *Created) Inc(f models.Format) {
	if n, ok := c.counts[f]; ok {
		n.Add(1)
	}
}

// Get returns the number of files created for format f.
func (c *Created) Get(f models.Format) int64 {
	if n, ok := c.counts[f]; ok {
		return n.Load()
	}
	return 0
}

// Total returns the number of files created across all formats.
func (c *Created) Total() int64 {
	var n int64
	for _, f := range models.SupportedFormats {
		n += c.Get(f)
	}
	return n
}

// Entries returns every supported format in order, including zeros.
func (c *Created) Entries() []Entry {
	entries := make([]Entry, 0, len(models.SupportedFormats))
	for _, f := range models.SupportedFormats {
		entries = append(entries, Entry{Name: f.Suffix(), Count: c.Get(f)})
	}
	return entries
}

// LogValue implements slog.LogValuer.
func (c *Created) LogValue() slog.Value {
	return entriesValue(c.Entries())
}

func (c *Created) String() string {
	return formatEntries(c.Entries())
}

func entriesValue(entries []Entry) slog.Value {
	attrs := make([]slog.Attr, 0, len(entries))
	for _, e := range entries {
		attrs = append(attrs, slog.Int64(e.Name, e.Count))
	}
	return slog.GroupValue(attrs...)
}

func formatEntries(entries []Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s: %d", e.Name, e.Count))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
