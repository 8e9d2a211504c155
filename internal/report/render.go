// Package report renders and persists diagnosis reports.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/richardbrown-dev/dht-doctor/internal/core"
)

// Renderer produces the human-readable text report.
type Renderer struct {
	title   lipgloss.Style
	section lipgloss.Style
	ok      lipgloss.Style
	bad     lipgloss.Style
	warn    lipgloss.Style
	dim     lipgloss.Style
}

// NewRenderer creates a renderer. With noColor all styles are plain.
func NewRenderer(noColor bool) *Renderer {
	if noColor {
		plain := lipgloss.NewStyle()
		return &Renderer{title: plain, section: plain, ok: plain, bad: plain, warn: plain, dim: plain}
	}
	return &Renderer{
		title:   lipgloss.NewStyle().Bold(true),
		section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Render produces the full text report.
func (r *Renderer) Render(rep *core.Report) string {
	var b strings.Builder

	b.WriteString(r.title.Render("DHT Crawler Diagnostic") + "\n")
	b.WriteString(r.dim.Render(fmt.Sprintf("session %s · %s · %s",
		rep.SessionID, rep.Duration().Round(10*time.Millisecond), rep.Environment.OS)) + "\n")
	if rep.Environment.MemTotalMB > 0 {
		b.WriteString(r.dim.Render(fmt.Sprintf("host %s · load %.2f · mem %.1f%% · %d usable interfaces",
			rep.Environment.Hostname, rep.Environment.LoadAvg1,
			rep.Environment.MemUsedPct, rep.Environment.NetInterfaces)) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(r.section.Render("DIAGNOSTIC RESULTS") + "\n")
	for _, kind := range core.AllSignals() {
		if rep.Signals.Has(kind) {
			b.WriteString(fmt.Sprintf("  %s %-18s %s\n", r.ok.Render("✓"), kind.Label(), r.ok.Render("Working")))
		} else {
			b.WriteString(fmt.Sprintf("  %s %-18s %s\n", r.bad.Render("✗"), kind.Label(), r.bad.Render("Failed")))
		}
	}
	if rep.ExitCode != nil {
		b.WriteString(r.dim.Render(fmt.Sprintf("  crawler exit code %d, %d lines observed", *rep.ExitCode, rep.LineCount)) + "\n")
	} else {
		b.WriteString(r.dim.Render(fmt.Sprintf("  crawler did not exit cleanly, %d lines observed", rep.LineCount)) + "\n")
	}
	b.WriteString("\n")

	if len(rep.AnomalyLines) > 0 {
		b.WriteString(r.section.Render(fmt.Sprintf("ANOMALIES (%d)", len(rep.AnomalyLines))) + "\n")
		for _, line := range rep.AnomalyLines {
			b.WriteString("  " + r.warn.Render("!") + " " + line + "\n")
		}
		if rep.AnomaliesTruncated {
			b.WriteString("  " + r.dim.Render("(further anomaly lines truncated)") + "\n")
		}
		b.WriteString("\n")
	}

	if len(rep.Advice) > 0 {
		b.WriteString(r.section.Render("RECOMMENDED FIXES") + "\n")
		for _, block := range rep.Advice {
			b.WriteString("  " + r.bad.Render(block.Title) + "\n")
			for _, s := range block.Suggestions {
				b.WriteString("    - " + s + "\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(r.section.Render("NETWORK CONNECTIVITY") + "\n")
	for _, ep := range rep.Endpoints {
		b.WriteString("  " + r.renderEndpoint(ep) + "\n")
	}

	return b.String()
}

// RenderEndpoints renders only the connectivity battery (probe command).
func (r *Renderer) RenderEndpoints(endpoints []core.EndpointResult) string {
	var b strings.Builder
	b.WriteString(r.section.Render("NETWORK CONNECTIVITY") + "\n")
	for _, ep := range endpoints {
		b.WriteString("  " + r.renderEndpoint(ep) + "\n")
	}
	return b.String()
}

func (r *Renderer) renderEndpoint(ep core.EndpointResult) string {
	switch ep.Outcome {
	case core.OutcomeReachable:
		return fmt.Sprintf("%s %-24s %s", r.ok.Render("✓"), ep.Host,
			r.ok.Render(fmt.Sprintf("reachable (%s)", ep.Elapsed.Round(time.Millisecond))))
	case core.OutcomeUnreachable:
		return fmt.Sprintf("%s %-24s %s", r.bad.Render("✗"), ep.Host, r.bad.Render("unreachable"))
	default:
		return fmt.Sprintf("%s %-24s %s", r.warn.Render("?"), ep.Host, r.warn.Render("inconclusive (probe failed to run)"))
	}
}
