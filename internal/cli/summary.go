package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/svdgoor/Tools/internal/metrics"
	"github.com/svdgoor/Tools/internal/models"
	"github.com/svdgoor/Tools/internal/service"
)

// renderSummary formats the end-of-run found and created tables.
func renderSummary(theme Theme, s *service.Summary) string {
	if s == nil {
		return ""
	}

	header := theme.completedStyle()
	label := lipgloss.NewStyle().Width(14)
	dim := theme.hintStyle()

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %s\n",
		header.Render("Run "+s.RunID),
		dim.Render(fmt.Sprintf("(%d files in %s)", s.Processed, s.Elapsed.Round(10*time.Millisecond))),
	)

	writeSection(&b, header.Render("Found"), label, theme, s.Found.Entries(), s.Found.Total())
	writeSection(&b, header.Render("Created"), label, theme, s.Created.Entries(), s.Created.Total())
	return b.String()
}

func writeSection(b *strings.Builder, title string, label lipgloss.Style, theme Theme, entries []metrics.Entry, total int64) {
	fmt.Fprintf(b, "\n%s\n", title)
	for _, e := range entries {
		count := fmt.Sprintf("%d", e.Count)
		if e.Name == string(models.CategoryError) && e.Count > 0 {
			count = theme.errorStyle().Render(count)
		}
		fmt.Fprintf(b, "  %s %s\n", label.Render(e.Name+":"), count)
	}
	fmt.Fprintf(b, "  %s %d\n", label.Render("total:"), total)
}
