package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/svdgoor/Tools/internal/codec"
	"github.com/svdgoor/Tools/internal/service"
)

// Theme holds the color scheme for the progress display and summary.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// sampleMsg carries a progress sample from the batch monitor.
type sampleMsg service.Sample

// batchDoneMsg is sent once the batch has finished.
type batchDoneMsg struct {
	summary *service.Summary
	err     error
}

// progressModel is the bubbletea model for batch progress.
type progressModel struct {
	sample   service.Sample
	seen     bool
	progress progress.Model
	theme    Theme
	done     bool
	detached bool
	err      error
	summary  *service.Summary
}

func newProgressModel() progressModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return progressModel{
		progress: prog,
		theme:    defaultTheme,
	}
}

func (m progressModel) Init() tea.Cmd {
	return m.progress.Init()
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			// Conversions cannot be cancelled; only the display stops.
			m.detached = true
			return m, tea.Quit
		}

	case sampleMsg:
		m.sample = service.Sample(msg)
		m.seen = true
		return m, nil

	case batchDoneMsg:
		m.done = true
		m.summary = msg.summary
		m.err = msg.err
		return m, tea.Quit

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m progressModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m progressModel) renderContent() string {
	if m.done || m.detached {
		return m.finalView()
	}

	if !m.seen {
		return m.theme.statusStyle().Render("[scanning]") + "\n"
	}

	s := m.sample
	status := m.theme.statusStyle().Render("[converting]")
	bar := m.progress.ViewAs(s.Percent / 100)
	counts := fmt.Sprintf("%d/%d files", s.Processed, s.Total)
	eta := fmt.Sprintf("eta %s", s.ETA.Round(time.Second))
	hint := m.theme.hintStyle().Render("Press Ctrl+C to hide progress")

	return fmt.Sprintf("%s %s %s %s\n%s\n", status, bar, counts, eta, hint)
}

func (m progressModel) finalView() string {
	if m.detached {
		return m.theme.hintStyle().Render("\nProgress hidden, waiting for running conversions to finish...") + "\n"
	}
	if m.err != nil {
		return m.theme.errorStyle().Render(fmt.Sprintf("✗ %s", m.err)) + "\n"
	}
	elapsed := ""
	if m.summary != nil {
		elapsed = fmt.Sprintf(" in %s", m.summary.Elapsed.Round(10*time.Millisecond))
	}
	return m.theme.completedStyle().Render("✓ Completed"+elapsed) + "\n"
}

// runWithProgressBar runs the batch while rendering monitor samples as a
// progress bar. The batch always runs to completion, even when the user
// hides the display.
func runWithProgressBar(ctx context.Context, c codec.Codec, logger *slog.Logger, opts service.BatchOptions, path string) (*service.Summary, error) {
	p := tea.NewProgram(newProgressModel())

	opts.OnSample = func(s service.Sample) {
		p.Send(sampleMsg(s))
	}
	batch := service.NewBatch(c, logger, opts)

	type result struct {
		summary *service.Summary
		err     error
	}
	finished := make(chan result, 1)
	go func() {
		summary, err := batch.Run(ctx, path)
		finished <- result{summary, err}
		p.Send(batchDoneMsg{summary: summary, err: err})
	}()

	if _, err := p.Run(); err != nil {
		logger.Warn("progress UI error", "error", err)
	}

	res := <-finished
	return res.summary, res.err
}
