package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"notesplit/internal/adapters/filesystem"
	"notesplit/internal/adapters/patch"
	"notesplit/internal/adapters/tui/styles"
	"notesplit/internal/application/commands"
	"notesplit/internal/domain"
)

// Outcome messages printed when a run ends without rewriting the note
const (
	MsgNoSegments       = "No segments found. Exiting."
	MsgNothingSelected  = "No segments recommended for extraction."
	MsgNothingExtracted = "No segments were successfully processed."
	MsgNoteUpdated      = "Original note updated successfully"
	MsgDryRun           = "Dry run: nothing was written"
)

const ruleWidth = 50

// Printer renders run progress and results for the operator
type Printer struct {
	w io.Writer

	// Streamed means the raw segmentation table was already echoed while
	// the oracle produced it
	Streamed bool
}

// NewPrinter creates a Printer writing to w
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Section prints a ruled section header
func (p *Printer) Section(title string) {
	rule := styles.MutedText.Render(strings.Repeat("=", ruleWidth))
	fmt.Fprintf(p.w, "\n%s\n%s\n%s\n", rule, styles.Title.UnsetMarginBottom().Render(title), rule)
}

// Segmentation prints the raw table followed by the parsed descriptors
func (p *Printer) Segmentation(seg *commands.SegmentResult) {
	if !p.Streamed {
		p.Section("SEGMENTATION CSV:")
		fmt.Fprintln(p.w, seg.Table)
	}

	if len(seg.Parsed.Segments) > 0 {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, SegmentTable(seg.Parsed.Segments))
	}
	for _, row := range seg.Parsed.Malformed {
		fmt.Fprintln(p.w, styles.WarningMsg.Render(
			fmt.Sprintf("WARNING: Skipping malformed row %d: %s", row.Line, strings.Join(row.Fields, ","))))
	}
}

// SegmentTable renders segments as a bordered table
func SegmentTable(segments []domain.Segment) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
		Headers("#", "Lines", "Description").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return style.Bold(true).Foreground(styles.Primary)
			case col == 0:
				return style.Foreground(styles.Primary)
			case col == 1:
				return style.Foreground(styles.Link)
			}
			return style
		})

	for _, s := range segments {
		t.Row(s.ID.String(), s.Lines(), s.Description)
	}
	return t.String()
}

// Decision prints the oracle's answer and the resolved selection
func (p *Printer) Decision(d *commands.DecideResult) {
	p.Section("EXTRACTION DECISION:")
	fmt.Fprintln(p.w, d.Decision)
	if len(d.Selection) > 0 {
		fmt.Fprintf(p.w, "Segments recommended for extraction: %s\n", FormatSelection(d.Selection))
	}
}

// FormatSelection renders a selection as "[2, 5]"
func FormatSelection(sel domain.Selection) string {
	parts := make([]string, len(sel))
	for i, id := range sel {
		parts[i] = strconv.Itoa(id)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Summary prints one block per extraction
func (p *Printer) Summary(records []domain.ExtractionRecord) {
	p.Section("PROCESSING SUMMARY:")
	for _, r := range records {
		fmt.Fprintf(p.w, "\n📝 MOVED Segment %d: %s\n", r.SegmentID, r.Description)
		fmt.Fprintf(p.w, "   Lines %s\n", styles.SegmentLines.Render(r.Lines))
		fmt.Fprintf(p.w, "   Created note: %s\n", styles.NoteName.Render(r.NoteName+".md"))
	}
}

// Skipped prints the selected segments that were not extracted
func (p *Printer) Skipped(result *commands.ExtractResult) {
	if result == nil {
		return
	}
	for _, s := range result.Skipped {
		fmt.Fprintln(p.w, styles.WarningMsg.Render("WARNING: "+s.Error()))
	}
}

// Outcome prints the closing lines of a run
func (p *Printer) Outcome(result *commands.RunResult, dryRun bool) {
	switch result.Outcome {
	case commands.OutcomeNoSegments:
		fmt.Fprintln(p.w, MsgNoSegments)
		return
	case commands.OutcomeNothingSelected:
		fmt.Fprintln(p.w, MsgNothingSelected)
		return
	case commands.OutcomeNothingExtracted:
		p.Skipped(result.Extracted)
		fmt.Fprintln(p.w, styles.ErrorMsg.Render("\n❌ "+MsgNothingExtracted))
		return
	}

	p.Skipped(result.Extracted)
	switch {
	case dryRun:
		fmt.Fprintln(p.w, styles.WarningMsg.Render("\n"+MsgDryRun))
	case result.Persisted:
		fmt.Fprintln(p.w, styles.Success.Render("\n✅ "+MsgNoteUpdated))
	}
	p.Summary(result.Records())
}

// Run prints everything a completed run produced
func (p *Printer) Run(result *commands.RunResult, dryRun bool) {
	if result.Segments != nil {
		p.Segmentation(result.Segments)
	}
	if result.Decision != nil {
		p.Decision(result.Decision)
	}
	p.Outcome(result, dryRun)
}

// Diff prints a unified diff with added and removed lines colored
func (p *Printer) Diff(unified string) {
	if unified == "" {
		return
	}
	p.Section("PENDING CHANGES:")
	for _, line := range strings.Split(strings.TrimSuffix(unified, "\n"), "\n") {
		fmt.Fprintln(p.w, colorDiffLine(line))
	}
}

// Pending prints what a dry run held back: the notes it would create and a
// diff of every rewritten note
func (p *Printer) Pending(writes []filesystem.Write) error {
	for _, w := range writes {
		if w.Created {
			fmt.Fprintf(p.w, "Would create %s\n", styles.NoteName.Render(w.Path))
		}
	}
	for _, w := range writes {
		if w.Created {
			continue
		}
		preview, err := patch.Preview(w.Path, w.Before, w.Content)
		if err != nil {
			return fmt.Errorf("failed to render diff: %w", err)
		}
		p.Diff(preview)
	}
	return nil
}

func colorDiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return styles.Subtitle.Render(line)
	case strings.HasPrefix(line, "@@"):
		return styles.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+"):
		return styles.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		return styles.DiffDelete.Render(line)
	}
	return line
}

// Done prints the closing banner
func (p *Printer) Done() {
	fmt.Fprintln(p.w, "\n🎉 Analysis complete!")
}
