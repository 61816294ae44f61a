package stats

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/verte-zerg/wordblitz/internal/classify"
	"github.com/verte-zerg/wordblitz/internal/model"
)

// TerminalWidth returns the stdout width, or fallback when the size is
// unavailable (pipes, tests).
func TerminalWidth(fallback int) int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallback
}

// RenderSummary prints a summary block for the sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalAcc float64
	bestScore := 0
	totalScore := 0
	for _, s := range sessions {
		wpm, acc := SessionMetrics(s.CorrectWords, s.TotalWords, s.DurationMs)
		totalWPM += wpm
		totalAcc += acc
		totalScore += s.Score
		if s.Score > bestScore {
			bestScore = s.Score
		}
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Avg Score: %.0f", float64(totalScore)/count),
		fmt.Sprintf("Best Score: %d", bestScore),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Avg Accuracy: %.2f%%", totalAcc/count),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderWPMSparkline prints a WPM-over-sessions sparkline, smoothed by
// a moving average and truncated to width.
func RenderWPMSparkline(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	for i, s := range sessions {
		wpm, _ := SessionMetrics(s.CorrectWords, s.TotalWords, s.DurationMs)
		wpms[i] = wpm
	}
	wpms = MovingAverage(wpms, window)
	if width > 0 && len(wpms) > width {
		wpms = wpms[len(wpms)-width:]
	}
	if _, err := fmt.Fprintf(w, "WPM trend: %s\n\n", Sparkline(wpms)); err != nil {
		return err
	}
	return nil
}

// RenderPatterns prints the error-pattern breakdown with remediation.
func RenderPatterns(w io.Writer, patterns []model.PatternCount) error {
	if len(patterns) == 0 {
		_, err := fmt.Fprintln(w, "No error events recorded yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Error Patterns"); err != nil {
		return err
	}
	headers := []string{"Pattern", "Count", "Severity", "Remediation"}
	rows := make([][]string, 0, len(patterns))
	for _, pc := range patterns {
		info := classify.Pattern(pc.Pattern).Info()
		rows = append(rows, []string{
			pc.Pattern,
			fmt.Sprintf("%d", pc.Count),
			info.Severity.String(),
			info.Remediation,
		})
	}
	rightAlign := map[int]bool{1: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderHotKeys prints the keys with the most recorded mismatches.
func RenderHotKeys(w io.Writer, keys []model.KeyErrorCount) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Hot Keys"); err != nil {
		return err
	}
	headers := []string{"Key", "Misses"}
	rows := make([][]string, 0, len(keys))
	for _, kc := range keys {
		label := kc.Key
		if label == " " {
			label = "<space>"
		}
		rows = append(rows, []string{label, fmt.Sprintf("%d", kc.Count)})
	}
	rightAlign := map[int]bool{1: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return utf8.RuneCountInString(value)
}
