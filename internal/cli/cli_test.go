package cli

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svdgoor/Tools/internal/config"
	"github.com/svdgoor/Tools/internal/metrics"
	"github.com/svdgoor/Tools/internal/models"
	"github.com/svdgoor/Tools/internal/service"
)

// newTestCmd builds a fresh command so flag state does not leak between tests.
func newTestCmd(args ...string) (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{
		Use:           "imgconv <path>",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runConvert,
	}
	registerFlags(cmd)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	return cmd, &out
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "imgconv.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("workers: 8\nprogress: bar\njpeg_quality: 70\n"), 0o644))

	cmd, _ := newTestCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath, "--workers", "2"}))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers, "explicit flag wins")
	assert.Equal(t, config.ProgressBar, cfg.Progress, "file value kept when flag unset")
	assert.Equal(t, 70, cfg.JPEGQuality)
}

func TestLoadConfigDefaults(t *testing.T) {
	cmd, _ := newTestCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestRunRejectsUsageErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"zero workers", []string{dir, "--directory", "--workers", "0"}},
		{"negative workers", []string{dir, "-d", "-w", "-3"}},
		{"bad progress mode", []string{dir, "-d", "--progress", "spinner"}},
		{"missing path", []string{"-d"}},
		{"too many paths", []string{dir, dir}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := newTestCmd(tt.args...)
			assert.Error(t, cmd.Execute())
		})
	}
}

func TestRunInvalidPathIsNotAnError(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{filepath.Join(dir, "nope.png")}},
		{"directory without flag", []string{dir}},
		{"missing directory", []string{filepath.Join(dir, "nope"), "--directory"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, out := newTestCmd(tt.args...)
			require.NoError(t, cmd.Execute())
			assert.Empty(t, out.String(), "no summary for an invalid path")
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunPrintsSummary(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"notes.txt", "anim.gif"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	cmd, out := newTestCmd(dir, "--directory")
	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.Contains(t, text, "Found")
	assert.Contains(t, text, "Created")
	assert.Regexp(t, `unsupported:\s+2`, text)
	assert.Regexp(t, `missing:\s+1`, text)
}

func TestRenderSummary(t *testing.T) {
	found := metrics.NewFound()
	found.Add(models.FormatPNG.Category())
	found.Add(models.FormatPNG.Category())
	found.Add(models.CategoryError)

	created := metrics.NewCreated()
	created.Inc(models.FormatJPG)
	created.Inc(models.FormatWebP)

	s := &service.Summary{
		RunID:     "abcd1234",
		Found:     found,
		Created:   created,
		Total:     3,
		Processed: 3,
		Elapsed:   1500 * time.Millisecond,
	}

	text := renderSummary(defaultTheme, s)
	assert.Contains(t, text, "abcd1234")
	assert.Regexp(t, `png:\s+2`, text)
	assert.Regexp(t, `error:\s+\S*1`, text)
	assert.Regexp(t, `webp:\s+1`, text)
	assert.Regexp(t, `total:\s+3`, text)
	assert.Regexp(t, `total:\s+2`, text)
}

func TestRenderSummaryNil(t *testing.T) {
	assert.Empty(t, renderSummary(defaultTheme, nil))
}

func TestProgressModelTracksSamples(t *testing.T) {
	m := newProgressModel()
	assert.Contains(t, m.renderContent(), "scanning")

	next, _ := m.Update(sampleMsg(service.Estimate(10, 4, 4*time.Second)))
	m = next.(progressModel)
	assert.Contains(t, m.renderContent(), "4/10 files")

	next, cmd := m.Update(batchDoneMsg{summary: &service.Summary{Elapsed: time.Second}})
	m = next.(progressModel)
	require.NotNil(t, cmd)
	assert.True(t, m.done)
	assert.Contains(t, m.renderContent(), "Completed")
}

func TestReportRunError(t *testing.T) {
	invalid := fmt.Errorf("%w: %w: %s", service.ErrInvalidPath, service.ErrIsDirectory, "/pictures")

	tests := []struct {
		name     string
		err      error
		dirMode  bool
		want     []string
		wantNone []string
	}{
		{"single-file mode adds hint", invalid, false,
			[]string{`msg="invalid path provided"`, `msg="if you want to specify a folder, use --directory"`}, nil},
		{"directory mode has no hint", invalid, true,
			[]string{`msg="invalid path provided"`}, []string{"--directory"}},
		{"other errors", errors.New("disk on fire"), false,
			[]string{`msg="conversion failed"`}, []string{"invalid path"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportRunError(slog.New(slog.NewTextHandler(&buf, nil)), tt.err, tt.dirMode)

			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.wantNone {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}
