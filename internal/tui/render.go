package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/wordblitz/internal/model"
)

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = pendingStyle.Copy().Underline(true)
	wordBoxStyle   = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.engine.Snapshot()
	switch snap.Phase {
	case model.PhasePaused:
		return m.place(overlayStyle.Render("Paused\n\nesc resume · ctrl+c quit"))
	case model.PhaseOver:
		return m.place(m.renderGameOver(snap))
	default:
		return m.renderPlaying(snap)
	}
}

func (m *Model) renderPlaying(snap model.Snapshot) string {
	header := m.renderHeader(snap)
	word := wordBoxStyle.Render(renderWord(snap.CurrentWord, snap.Input))
	// The border costs six cells; drop it when the terminal is too narrow.
	if m.width > 0 && wordDisplayWidth(snap.CurrentWord, snap.Input)+6 > m.width {
		word = renderWord(snap.CurrentWord, snap.Input)
	}
	entry := m.input.View()
	footer := m.renderFooter(snap)

	content := lipgloss.JoinVertical(lipgloss.Center, word, "", entry)
	if m.width == 0 || m.height == 0 {
		return header + "\n\n" + content + "\n\n" + footer
	}
	bodyHeight := m.height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	headerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, header)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return headerLine + "\n" + body + "\n" + footerLine
}

func (m *Model) renderHeader(snap model.Snapshot) string {
	segments := []string{
		scoreStyle.Render(fmt.Sprintf("Score %d", snap.Score)),
		fmt.Sprintf("Streak %d", snap.Streak),
		fmt.Sprintf("x%.1f", snap.Multiplier),
	}
	switch m.settings.Mode {
	case model.ModeTimed:
		segments = append(segments, fmt.Sprintf("Time %s", formatClock(snap.TimeRemaining)))
	case model.ModeLives:
		segments = append(segments, fmt.Sprintf("Lives %s", strings.Repeat("♥", snap.Lives)))
	default:
		segments = append(segments, fmt.Sprintf("Elapsed %s", formatClock(snap.ElapsedSeconds)))
	}
	return headerStyle.Render(strings.Join(segments, "  ·  "))
}

func (m *Model) renderFooter(snap model.Snapshot) string {
	segments := []string{
		fmt.Sprintf("%d WPM", snap.WPM),
		fmt.Sprintf("%d%% accuracy", snap.Accuracy),
		fmt.Sprintf("%d words", snap.TotalWords),
	}
	if m.lastResult != nil && m.lastResult.Correct {
		segments = append(segments, fmt.Sprintf("+%d", m.lastResult.WordScore))
	}
	segments = append(segments, "esc pause · tab skip")
	return footerStyle.Render(strings.Join(segments, "  ·  "))
}

func (m *Model) renderGameOver(snap model.Snapshot) string {
	lines := []string{
		scoreStyle.Render(fmt.Sprintf("Final Score %d", snap.Score)),
		"",
		fmt.Sprintf("%d WPM  ·  %d%% accuracy", snap.WPM, snap.Accuracy),
		fmt.Sprintf("%d/%d words  ·  best streak %d", snap.CorrectWords, snap.TotalWords, snap.BestStreak),
	}
	if m.saveErr != "" {
		lines = append(lines, "", incorrectStyle.Render("save failed: "+m.saveErr))
	}
	lines = append(lines, "", footerStyle.Render("r restart · q quit"))
	return overlayStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// renderWord styles the target word against the entry so far: typed
// positions show correct or incorrect, the next position carries the
// cursor, the rest stay pending.
func renderWord(word, input string) string {
	target := []rune(word)
	typed := []rune(input)
	var b strings.Builder
	for i, r := range target {
		ch := string(r)
		switch {
		case i < len(typed) && typed[i] == r:
			b.WriteString(correctStyle.Render(ch))
		case i < len(typed):
			b.WriteString(incorrectStyle.Render(ch))
		case i == len(typed):
			b.WriteString(cursorStyle.Render(ch))
		default:
			b.WriteString(pendingStyle.Render(ch))
		}
	}
	// Overflow shows as trailing markers so a too-long entry is visible.
	for i := len(target); i < len(typed); i++ {
		b.WriteString(incorrectStyle.Render("•"))
	}
	return b.String()
}

// wordDisplayWidth measures the rendered word in terminal cells.
func wordDisplayWidth(word, input string) int {
	width := runewidth.StringWidth(word)
	if extra := len([]rune(input)) - len([]rune(word)); extra > 0 {
		width += extra
	}
	return width
}
