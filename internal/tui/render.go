package tui

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/shelfcount/internal/classify"
	"github.com/blackwell-systems/shelfcount/internal/report"
	"github.com/blackwell-systems/shelfcount/internal/session"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func marker(t classify.Tone) string {
	switch t {
	case classify.ToneSuccess:
		return "✓"
	case classify.ToneMulti:
		return "‼"
	default:
		return "!"
	}
}

// EventLine renders one scan event on a single line no wider than width.
func EventLine(ev session.Event, width int) string {
	tone := ev.Tone()
	head := ToneStyle(tone).Render(marker(tone)) + " " + StyleCode.Render(ev.Barcode)

	var detail string
	switch {
	case !ev.Clean():
		detail = classify.Join(ev.Warnings)
	case ev.Record != nil:
		detail = ev.Record.Title
	}
	if detail == "" {
		return head
	}
	room := width - xansi.StringWidth(head) - 2
	if width <= 0 || room <= 0 {
		return head + "  " + detail
	}
	return head + "  " + xansi.Truncate(detail, room, "…")
}

// CoverageBar draws valid, warned and missing shares as one bar of width
// cells.
func CoverageBar(c report.Coverage, width int) string {
	if width <= 0 || c.Total == 0 {
		return ""
	}
	valid := c.Valid * width / c.Total
	warned := c.Warned * width / c.Total
	missing := width - valid - warned
	return StyleClean.Render(strings.Repeat("█", valid)) +
		StyleWarn.Render(strings.Repeat("█", warned)) +
		StyleHelp.Render(strings.Repeat("░", missing))
}

// SummaryBox renders the status overview inside a rounded border.
func SummaryBox(s report.Summary, width int) string {
	barWidth := max(width-6, 10)
	lines := []string{
		StyleHeader.Render(fmt.Sprintf("%s · %s", s.Session, s.Library)),
	}
	if s.Location != "" {
		lines = append(lines, StyleHelp.Render("location "+s.Location))
	}
	lines = append(lines,
		"",
		CoverageBar(s.Coverage, barWidth),
		fmt.Sprintf("%s %d   %s %d   %s %d   of %d (%.1f%%)",
			StyleClean.Render("valid"), s.Coverage.Valid,
			StyleWarn.Render("warned"), s.Coverage.Warned,
			StyleHelp.Render("missing"), s.Coverage.Missing,
			s.Coverage.Total, s.Coverage.Percent()),
		fmt.Sprintf("%d events · %s scans/min", s.Events, s.Throughput),
	)

	var warned []string
	for _, kc := range s.Kinds {
		if kc.Count > 0 {
			warned = append(warned, fmt.Sprintf("%-28s %d", kc.Label, kc.Count))
		}
	}
	if len(warned) > 0 {
		lines = append(lines, "", StyleHeader.Render("Warnings"))
		lines = append(lines, warned...)
	}
	return StyleBorder.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
