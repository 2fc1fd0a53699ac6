// Package models defines the data structures shared by the conversion pipeline.
package models

import (
	"path/filepath"
	"strings"
)

// Format is one of the image formats siblings are generated for.
type Format int

const (
	FormatPNG Format = iota
	FormatJPG
	FormatWebP
)

// SupportedFormats is the fixed, ordered set of formats. Do not mutate.
var SupportedFormats = []Format{FormatPNG, FormatJPG, FormatWebP}

// Suffix returns the canonical file extension without the leading dot.
func (f Format) Suffix() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPG:
		return "jpg"
	case FormatWebP:
		return "webp"
	default:
		return ""
	}
}

// Encoder returns the encoder name used when saving this format.
// JPG files are written by the "jpeg" encoder.
func (f Format) Encoder() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPG:
		return "jpeg"
	case FormatWebP:
		return "webp"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (f Format) String() string {
	if s := f.Suffix(); s != "" {
		return s
	}
	return "unknown"
}

// Category returns the found-counter category for files of this format.
func (f Format) Category() Category {
	return Category(f.Suffix())
}

// ParseFormat maps an extension (with or without the leading dot) to a Format.
// Only the exact lowercase suffixes match; "PNG" or "jpeg" are unsupported.
func ParseFormat(ext string) (Format, bool) {
	switch strings.TrimPrefix(ext, ".") {
	case "png":
		return FormatPNG, true
	case "jpg":
		return FormatJPG, true
	case "webp":
		return FormatWebP, true
	default:
		return 0, false
	}
}

// FormatFromPath infers the format of path from its extension.
func FormatFromPath(path string) (Format, bool) {
	return ParseFormat(filepath.Ext(path))
}

// SiblingPath returns base with the target format's suffix appended.
func SiblingPath(base string, f Format) string {
	return base + "." + f.Suffix()
}
