package output

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"prwatch/internal/model"
)

// ansiRegex matches ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// TableFormatter formats output as a terminal table
type TableFormatter struct{}

// hyperlink creates a clickable terminal hyperlink using OSC 8
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func hyperlink(text, url string) string {
	// Only use hyperlinks if stdout is a terminal
	if url == "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// displayWidth returns the visible width of a string in terminal columns,
// accounting for wide characters and stripping ANSI escape sequences.
func displayWidth(s string) int {
	return runewidth.StringWidth(stripAnsi(s))
}

// truncateToWidth truncates a string to fit within maxWidth display columns.
// Strings with ANSI codes are reduced to their plain form before cutting.
func truncateToWidth(s string, maxWidth int) (string, int) {
	plain := stripAnsi(s)
	width := runewidth.StringWidth(plain)

	if width <= maxWidth {
		return s, width
	}

	cutWidth := 0
	cutIndex := 0
	for i, r := range plain {
		rw := runewidth.RuneWidth(r)
		if cutWidth+rw > maxWidth-3 { // Leave room for "..."
			cutIndex = i
			break
		}
		cutWidth += rw
	}

	if cutIndex > 0 && cutIndex < len(plain) {
		return plain[:cutIndex] + "...", maxWidth
	}
	return plain[:maxWidth-3] + "...", maxWidth
}

// padRight pads a string with spaces to reach the target visible width
func padRight(s string, visibleWidth, targetWidth int) string {
	if visibleWidth >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-visibleWidth)
}

// Format outputs processed pull requests as a table
func (f *TableFormatter) Format(prs []model.ProcessedPR, w io.Writer) error {
	if len(prs) == 0 {
		fmt.Fprintln(w, "No open pull requests found.")
		return nil
	}

	// Column widths
	const (
		colStatus = 10
		colRepo   = 26
		colNumber = 6
		colTitle  = 44
		colAuthor = 16
		colAge    = 8
	)

	// Header
	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %-*s  %-*s  %s\n",
		colStatus, "Status",
		colRepo, "Repository",
		colNumber, "PR",
		colTitle, "Title",
		colAuthor, "Author",
		"Updated")
	fmt.Fprintln(w, strings.Repeat("-", colStatus+colRepo+colNumber+colTitle+colAuthor+colAge+10))

	for _, pr := range prs {
		statusPlain := string(pr.Status)
		statusStr := padRight(colorStatus(pr.Status), len(statusPlain), colStatus)

		repo, _ := truncateToWidth(pr.Repository.String(), colRepo)

		title := pr.Title
		if pr.Draft {
			title = title + " [draft]"
		}
		title, visibleTitleLen := truncateToWidth(title, colTitle)

		linkedTitle := hyperlink(title, pr.HTMLURL)
		linkedTitle = padRight(linkedTitle, visibleTitleLen, colTitle)

		author, _ := truncateToWidth(pr.Author, colAuthor)

		fmt.Fprintf(w, "%s  %s  %-*s  %s  %s  %s\n",
			statusStr,
			padRight(repo, displayWidth(repo), colRepo),
			colNumber, fmt.Sprintf("#%d", pr.Number),
			linkedTitle,
			padRight(author, displayWidth(author), colAuthor),
			pr.UpdatedAt,
		)
	}

	printFooterSummary(prs, w)

	return nil
}

// printFooterSummary prints per-status counts below the table
func printFooterSummary(prs []model.ProcessedPR, w io.Writer) {
	counts := map[model.Status]int{}
	for _, pr := range prs {
		counts[pr.Status]++
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("━", 60))

	if n := counts[model.StatusPending]; n > 0 {
		fmt.Fprintf(w, "  %s %d awaiting your first review\n", color.CyanString("○"), n)
	}
	if n := counts[model.StatusReReview]; n > 0 {
		fmt.Fprintf(w, "  %s %d updated since you last reviewed\n", color.YellowString("△"), n)
	}
	if n := counts[model.StatusStagnant]; n > 0 {
		fmt.Fprintf(w, "  %s %d stagnant with no recent activity\n", color.RedString("●"), n)
	}
	if n := counts[model.StatusReviewed]; n > 0 {
		fmt.Fprintf(w, "  %s %d approved and up to date\n", color.GreenString("✓"), n)
	}
	fmt.Fprintf(w, "  %d open pull requests total\n", len(prs))
}

func colorStatus(s model.Status) string {
	switch s {
	case model.StatusPending:
		return color.CyanString(string(s))
	case model.StatusReReview:
		return color.YellowString(string(s))
	case model.StatusStagnant:
		return color.RedString(string(s))
	case model.StatusReviewed:
		return color.GreenString(string(s))
	default:
		return color.WhiteString(string(s))
	}
}
