package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"bookshelf/internal/notify"
	"bookshelf/internal/pagination"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4FC3F7"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
)

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, headingStyle.Render(title))
}

func muted(s string) string { return mutedStyle.Render(s) }

// table writes aligned rows; the first row is the header.
func table(w io.Writer, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, row := range rows {
		line := strings.Join(row, "\t")
		if i == 0 {
			line = mutedStyle.Render(strings.ToUpper(line))
		}
		fmt.Fprintln(tw, line)
	}
	_ = tw.Flush()
}

func pageFooter(w io.Writer, m pagination.Meta) {
	fmt.Fprintln(w, muted(fmt.Sprintf("page %d of %d, %d total", m.Page, m.TotalPages, m.Total)))
}

// emit prints v as JSON when --json is set and reports whether it did.
func (c *cli) emit(cmd *cobra.Command, v any) bool {
	if !c.jsonOut {
		return false
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
	return true
}

func (c *cli) success(cmd *cobra.Command, title, message string) {
	if c.jsonOut {
		return
	}
	notify.Print(cmd.OutOrStdout(), notify.Success(title, message))
}

func stars(rating float64) string {
	n := int(rating + 0.5)
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
