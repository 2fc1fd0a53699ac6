package service

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/svdgoor/Tools/internal/metrics"
	"github.com/svdgoor/Tools/internal/models"
)

// ValidatePath checks the input path before any work starts. In single-file
// mode path must be an existing regular file; in directory mode it only has
// to exist.
func ValidatePath(path string, directoryMode bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPath, path, err)
	}
	if directoryMode {
		return nil
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %w: %s", ErrInvalidPath, ErrIsDirectory, path)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: not a regular file: %s", ErrInvalidPath, path)
	}
	return nil
}

// CollectFiles returns the candidate paths under root in lexical order.
//
// Recursive mode walks the whole tree and yields every non-directory entry;
// unreadable subdirectories are logged and skipped. Flat mode lists root's
// direct entries, subdirectories included, so they classify as missing.
// A root that is not a directory is its own only candidate.
func CollectFiles(logger *slog.Logger, root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan directory: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("scan directory: %w", err)
		}
		files := make([]string, 0, len(entries))
		for _, e := range entries {
			files = append(files, filepath.Join(root, e.Name()))
		}
		return files, nil
	}

	var files []string
	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path != root && d != nil && d.IsDir() {
				logger.Warn("skipping unreadable directory", "dir", path, "error", err)
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, fmt.Errorf("scan directory: %w", err)
	}
	return files, nil
}

// Classify decides what a candidate path is. It returns a Job and true for a
// supported regular file, otherwise the category the path is counted under.
func Classify(path string) (models.Job, models.Category, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return models.Job{}, models.CategoryMissing, false
	}
	job, ok := models.NewJob(path)
	if !ok {
		return models.Job{}, models.CategoryUnsupported, false
	}
	return job, job.Format.Category(), true
}

// Discover classifies every candidate, counting excluded ones in found, and
// returns the jobs to dispatch in candidate order. It runs sequentially and
// must complete before the batch total is fixed.
func Discover(logger *slog.Logger, paths []string, found *metrics.Found) []models.Job {
	jobs := make([]models.Job, 0, len(paths))
	for _, path := range paths {
		job, category, ok := Classify(path)
		if !ok {
			logger.Debug("skipping file", "file", path, "category", category)
			found.Add(category)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}
