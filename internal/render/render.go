// Package render formats comparison results for terminals.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/gcbaptista/go-winnow/model"
)

// Theme defines the color scheme for console output
type Theme struct {
	Percent  lipgloss.Style
	MatchID  lipgloss.Style
	Location lipgloss.Style
	LineNum  lipgloss.Style
	Summary  lipgloss.Style
	Error    lipgloss.Style
	Dim      lipgloss.Style
}

// DefaultTheme is the default color scheme
var DefaultTheme = Theme{
	Percent:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
	MatchID:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Location: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	LineNum:  lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
	Summary:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82")),
	Error:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// Printer writes styled comparison reports.
type Printer struct {
	Out   io.Writer
	Theme Theme
}

// NewPrinter creates a printer using DefaultTheme.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{Out: out, Theme: DefaultTheme}
}

// PrintComparison prints both sides of a comparison with their matched ranges.
func (p *Printer) PrintComparison(result *model.ComparisonResult) {
	fmt.Fprintf(p.Out, "%s %s\n",
		p.Theme.Summary.Render("Comparison"),
		p.Theme.MatchID.Render(result.ID.String()))
	p.printSide(result.SourceFile)
	p.printSide(result.TargetFile)
}

func (p *Printer) printSide(side model.MatchResult) {
	fmt.Fprintf(p.Out, "\n%s %s %s\n",
		p.Theme.Location.Render(displayName(side)),
		p.Theme.Percent.Render(fmt.Sprintf("%.1f%%", side.MatchPercentage*100)),
		p.Theme.Dim.Render(fmt.Sprintf("[%d lines matched]", side.TotalLinesMatched)))
	for _, m := range side.LinesMatched {
		fmt.Fprintf(p.Out, "  %s%s%s %s\n",
			p.Theme.LineNum.Render(fmt.Sprintf("%d", m.StartLine)),
			p.Theme.Dim.Render("-"),
			p.Theme.LineNum.Render(fmt.Sprintf("%d", m.EndLine)),
			p.Theme.MatchID.Render(shortID(m.MatchID.String())))
	}
}

// PrintOutcomes prints one line per batch outcome followed by a summary.
func (p *Printer) PrintOutcomes(outcomes []model.PairOutcome) {
	failed := 0
	for _, outcome := range outcomes {
		pair := fmt.Sprintf("%s -> %s", outcome.SourceID, outcome.TargetID)
		if outcome.Error != "" {
			failed++
			fmt.Fprintf(p.Out, "%s %s %s\n",
				p.Theme.Error.Render("FAIL"),
				p.Theme.Location.Render(pair),
				p.Theme.Dim.Render(outcome.Error))
			continue
		}
		fmt.Fprintf(p.Out, "%s %s %s %s\n",
			p.Theme.Summary.Render("OK  "),
			p.Theme.Location.Render(pair),
			p.Theme.Percent.Render(fmt.Sprintf("%.1f%%", outcome.Result.SourceFile.MatchPercentage*100)),
			p.Theme.Percent.Render(fmt.Sprintf("%.1f%%", outcome.Result.TargetFile.MatchPercentage*100)))
	}
	fmt.Fprintf(p.Out, "\nCompared %s pairs, %s failed\n",
		p.Theme.Summary.Render(fmt.Sprintf("%d", len(outcomes))),
		p.Theme.Error.Render(fmt.Sprintf("%d", failed)))
}

// Markdown builds a markdown report of a comparison.
func Markdown(result *model.ComparisonResult) string {
	var sb strings.Builder
	sb.WriteString("# Comparison " + result.ID.String() + "\n\n")
	sb.WriteString("| Document | Path | Matched lines | Match |\n")
	sb.WriteString("|---|---|---:|---:|\n")
	for _, side := range []model.MatchResult{result.SourceFile, result.TargetFile} {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %.1f%% |\n",
			escapeCell(side.DocumentID), escapeCell(side.Path), side.TotalLinesMatched, side.MatchPercentage*100))
	}

	for _, side := range []model.MatchResult{result.SourceFile, result.TargetFile} {
		sb.WriteString("\n## " + displayName(side) + "\n\n")
		if len(side.LinesMatched) == 0 {
			sb.WriteString("No matched lines.\n")
			continue
		}
		for _, m := range side.LinesMatched {
			sb.WriteString(fmt.Sprintf("- lines %d-%d `%s`\n", m.StartLine, m.EndLine, shortID(m.MatchID.String())))
		}
	}
	return sb.String()
}

// RenderMarkdown renders markdown for a terminal. An empty style picks one
// from the terminal background.
func RenderMarkdown(markdown, style string, wordWrap int) (string, error) {
	options := []glamour.TermRendererOption{glamour.WithWordWrap(wordWrap)}
	if style == "" {
		options = append(options, glamour.WithAutoStyle())
	} else {
		options = append(options, glamour.WithStandardStyle(style))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

func displayName(side model.MatchResult) string {
	switch {
	case side.Path != "":
		return side.Path
	case side.Name != "":
		return side.Name
	default:
		return side.DocumentID
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
