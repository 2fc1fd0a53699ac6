package models

import (
	"path/filepath"
	"strings"
)

// Category classifies a discovered file in the found counters.
// Supported formats use their suffix as category name.
type Category string

const (
	CategoryUnsupported Category = "unsupported"
	CategoryMissing     Category = "missing"
	CategoryError       Category = "error"
)

// Categories lists every category in reporting order.
func Categories() []Category {
	cats := make([]Category, 0, len(SupportedFormats)+3)
	for _, f := range SupportedFormats {
		cats = append(cats, f.Category())
	}
	return append(cats, CategoryUnsupported, CategoryMissing, CategoryError)
}

// Job is a discovered source file awaiting conversion.
// Jobs are immutable once created and owned by the worker processing them.
type Job struct {
	Path   string // Source file path as discovered
	Base   string // Path without its extension
	Format Format // Source format inferred from the extension
}

// NewJob builds a Job for path. It reports false when the extension is not a
// supported format.
func NewJob(path string) (Job, bool) {
	f, ok := FormatFromPath(path)
	if !ok {
		return Job{}, false
	}
	return Job{
		Path:   path,
		Base:   strings.TrimSuffix(path, filepath.Ext(path)),
		Format: f,
	}, true
}

// Targets returns the formats this job should have siblings for, in
// SupportedFormats order.
func (j Job) Targets() []Format {
	targets := make([]Format, 0, len(SupportedFormats)-1)
	for _, f := range SupportedFormats {
		if f != j.Format {
			targets = append(targets, f)
		}
	}
	return targets
}
