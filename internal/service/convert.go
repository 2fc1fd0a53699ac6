package service

import (
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/svdgoor/Tools/internal/codec"
	"github.com/svdgoor/Tools/internal/metrics"
	"github.com/svdgoor/Tools/internal/models"
)

// Outcome is the result of converting one job.
type Outcome struct {
	Created []models.Format // Siblings written by this job
	Skipped []models.Format // Siblings that already existed
	Err     error           // Non-nil when the job failed
}

// Failed reports whether the job ended with an error.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Converter writes the missing sibling files of a job.
// It is safe for concurrent use by pool workers.
type Converter struct {
	codec   codec.Codec
	created *metrics.Created
	timings *metrics.Collector
	logger  *slog.Logger
}

// NewConverter creates a converter that counts written siblings in created
// and codec call timings in timings.
func NewConverter(c codec.Codec, created *metrics.Created, timings *metrics.Collector, logger *slog.Logger) *Converter {
	return &Converter{
		codec:   c,
		created: created,
		timings: timings,
		logger:  logger,
	}
}

// Convert produces every missing sibling of job. The source is decoded at
// most once, and only if some sibling is missing.
//
// Existence is checked with a plain stat before writing. Another process
// converting the same tree at the same time may write the same sibling.
func (c *Converter) Convert(job models.Job) Outcome {
	var (
		out  Outcome
		conv image.Image
	)

	for _, target := range job.Targets() {
		dst := models.SiblingPath(job.Base, target)
		if fileExists(dst) {
			out.Skipped = append(out.Skipped, target)
			continue
		}

		if conv == nil {
			img, err := c.open(job)
			if err != nil {
				return c.fail(job, out, err)
			}
			if conv, err = c.convert(img); err != nil {
				return c.fail(job, out, fmt.Errorf("convert %s: %w", job.Path, err))
			}
			c.logger.Debug("converting", "file", job.Path)
		}

		c.logger.Debug("creating", "file", dst)
		err := c.timings.Time(metrics.SaveOp(target), func() error {
			return c.codec.Save(conv, dst, target)
		})
		if err != nil {
			return c.fail(job, out, err)
		}
		c.created.Inc(target)
		out.Created = append(out.Created, target)
	}

	return out
}

func (c *Converter) open(job models.Job) (image.Image, error) {
	var img image.Image
	err := c.timings.Time(metrics.OpOpen, func() error {
		var err error
		img, err = c.codec.Open(job.Path)
		return err
	})
	return img, err
}

func (c *Converter) convert(img image.Image) (image.Image, error) {
	var conv image.Image
	err := c.timings.Time(metrics.OpConvert, func() error {
		var err error
		conv, err = c.codec.Convert(img)
		return err
	})
	return conv, err
}

func (c *Converter) fail(job models.Job, out Outcome, err error) Outcome {
	c.logger.Error("error converting file", "file", job.Path, "error", err)
	out.Err = err
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
