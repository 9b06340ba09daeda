package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vmunix/filmlib/internal/production"
	"github.com/vmunix/filmlib/internal/snapshot"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
)

const maxTitleWidth = 40

// renderTable lays out rows under headers with columns sized to fit.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	// Padding adds one column on each side.
	for i := range widths {
		widths[i] += 2
	}

	var sb strings.Builder
	for i, h := range headers {
		sb.WriteString(headerStyle.Width(widths[i]).Render(h))
	}
	sb.WriteString("\n")

	total := 0
	for _, w := range widths {
		total += w
	}
	sb.WriteString(mutedStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				sb.WriteString(cellStyle.Width(widths[i]).Render(cell))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func productionRow(p *production.Production) []string {
	title := p.Title()
	if len([]rune(title)) > maxTitleWidth {
		title = string([]rune(title)[:maxTitleWidth-3]) + "..."
	}
	return []string{
		p.ID()[:8],
		string(p.Kind().Name()),
		title,
		p.Genre().String(),
		p.ReleaseDate().Format(time.DateOnly),
		watchedMark(p.Watched()),
		formatRate(p),
		p.Kind().String(),
	}
}

func watchedMark(watched bool) string {
	if watched {
		return "✓"
	}
	return "-"
}

func formatRate(p *production.Production) string {
	if !p.Rated() {
		return "-"
	}
	return strconv.Itoa(p.Rate()) + "/" + strconv.Itoa(production.MaxRate)
}

func printProductionList(w io.Writer, list []*production.Production, total int) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Library (%d of %d):", len(list), total)))
	fmt.Fprintln(w)

	rows := make([][]string, len(list))
	for i, p := range list {
		rows[i] = productionRow(p)
	}
	fmt.Fprint(w, renderTable(
		[]string{"ID", "KIND", "TITLE", "GENRE", "RELEASED", "WATCHED", "RATE", "LENGTH"},
		rows,
	))
}

func printProduction(w io.Writer, p *production.Production) {
	fmt.Fprintln(w, p.String())
	if img := p.Image(); !img.IsZero() {
		if img.URI != "" {
			fmt.Fprintf(w, "image: %s\n", img.URI)
		} else {
			fmt.Fprintf(w, "image: %d bytes\n", len(img.Data))
		}
	}
}

func printOK(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, okStyle.Render(fmt.Sprintf(format, args...)))
}

// printJSON writes productions as snapshot records.
func printJSON(w io.Writer, v any) error {
	var out any
	switch x := v.(type) {
	case *production.Production:
		out = snapshot.FromProduction(x)
	case []*production.Production:
		records := make([]snapshot.Record, len(x))
		for i, p := range x {
			records[i] = snapshot.FromProduction(p)
		}
		out = records
	default:
		out = v
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
