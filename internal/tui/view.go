package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/catvocab/internal/model"
	"github.com/verte-zerg/catvocab/internal/table"
)

var (
	wordStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	phoneticStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7EC87E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	navStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Padding(0, 1)
	navActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1E1E1E")).Background(lipgloss.Color("#C89A3A")).Padding(0, 1)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	modalStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#C89A3A")).Padding(1, 2)
)

const listRows = 12

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderBody()
	if m.modal != nil {
		content = m.renderModal(*m.modal)
	}
	nav := m.renderNav()
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return nav + "\n\n" + content + "\n\n" + footer
	}
	if m.height < 5 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 2
	header := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Top, nav)
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return header + "\n" + body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(int(float64(m.width)*0.70), 1)
}

func (m *Model) renderNav() string {
	parts := make([]string, 0, len(viewNames))
	for i, name := range viewNames {
		if view(i) == m.view {
			parts = append(parts, navActiveStyle.Render(name))
			continue
		}
		parts = append(parts, navStyle.Render(name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFooter() string {
	var help string
	switch {
	case m.modal != nil:
		help = "p: speak  s: save  esc: close"
	case m.view == viewTyping:
		help = "esc: back"
		if m.result != nil {
			help = "enter: new round  esc: back"
		}
	case m.view == viewLibrary:
		help = "type to search  up/down: move  enter: details  esc: back"
	case m.view == viewNotebook:
		help = "up/down: move  enter: details  p: speak  t/l: views  esc: back  q: quit"
	default:
		help = "space: reveal  n: next  p: speak  s: save  t: typing  l: library  b: notebook  q: quit"
	}
	line := footerStyle.Render(help)
	if m.status != "" {
		line = statusStyle.Render(m.status) + "  " + line
	}
	return line
}

func (m *Model) renderBody() string {
	if m.loadErr != nil && m.view != viewNotebook {
		return m.renderUnavailable()
	}
	switch m.view {
	case viewTyping:
		return m.renderTyping()
	case viewLibrary:
		return m.renderLibrary()
	case viewNotebook:
		return m.renderNotebook()
	default:
		return m.renderCard()
	}
}

func (m *Model) renderUnavailable() string {
	lines := []string{
		errorStyle.Render("Word data is unavailable."),
		mutedStyle.Render(fmt.Sprintf("Check that %s exists and holds a JSON word list.", m.cfg.WordsFile)),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderCard() string {
	rec, ok := m.currentCard()
	if !ok {
		return mutedStyle.Render("No words to show.")
	}
	width := m.contentWidth()
	lines := []string{wordStyle.Render(rec.Word)}
	if rec.Phonetic != "" {
		lines = append(lines, phoneticStyle.Render(rec.Phonetic))
	}
	lines = append(lines, "")
	if !m.revealed {
		lines = append(lines, mutedStyle.Render("press space to reveal"))
	} else {
		lines = append(lines, lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(rec.Definition))
		if rec.Example != "" {
			lines = append(lines, "", mutedStyle.Width(width).Align(lipgloss.Center).Render(rec.Example))
		}
	}
	lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("%d/%d", m.cardIdx+1, len(m.deck))))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderTyping() string {
	if m.result != nil {
		res := m.result
		lines := []string{
			statusStyle.Render("Round complete! Great job!"),
			"",
			fmt.Sprintf("%d words  %d WPM  %d rejected keys", res.Words, res.WPM, res.RejectedKeys),
		}
		return lipgloss.JoinVertical(lipgloss.Center, lines...)
	}
	if !m.hasFrame {
		return mutedStyle.Render("No words to practice.")
	}
	width := m.contentWidth()
	runes := buildStyledRunes(m.frame, m.flash, m.cfg.ShowMistype)
	word := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(wrapStyledRunes(runes, width))
	lines := []string{word}
	if m.frame.Word.Phonetic != "" {
		lines = append(lines, phoneticStyle.Render(m.frame.Word.Phonetic))
	}
	lines = append(lines, "", lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(m.frame.Word.Definition))
	if m.cfg.ProxyInput {
		lines = append(lines, "", m.proxy.View())
	}
	progress := fmt.Sprintf("Word %d/%d  %d WPM", m.frame.Position+1, m.frame.Total, m.frame.WPM)
	lines = append(lines, "", mutedStyle.Render(progress))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderLibrary() string {
	width := m.contentWidth()
	lines := []string{
		m.search.View(),
		mutedStyle.Render(fmt.Sprintf("(%d / %d)", len(m.libHits), len(m.records))),
		"",
	}
	if len(m.libHits) == 0 {
		lines = append(lines, mutedStyle.Render("No matching words"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	lines = append(lines, m.renderList(m.libHits, m.libCursor, width)...)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderNotebook() string {
	if len(m.saved) == 0 {
		return mutedStyle.Render("Your notebook is empty. Press s on a card to save a word.")
	}
	lines := []string{mutedStyle.Render(fmt.Sprintf("%d saved words", len(m.saved))), ""}
	lines = append(lines, m.renderList(m.saved, m.nbCursor, m.contentWidth())...)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderList shows a window of records around the cursor.
func (m *Model) renderList(recs []model.WordRecord, cursor, width int) []string {
	start := 0
	if cursor >= listRows {
		start = cursor - listRows + 1
	}
	end := min(start+listRows, len(recs))
	wordWidth := 0
	for _, rec := range recs[start:end] {
		wordWidth = max(wordWidth, lipgloss.Width(rec.Word))
	}
	defWidth := max(width-wordWidth-4, 10)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rec := recs[i]
		pad := strings.Repeat(" ", wordWidth-lipgloss.Width(rec.Word))
		line := rec.Word + pad + "  " + table.Truncate(rec.Definition, defWidth)
		if i == cursor {
			lines = append(lines, selectedStyle.Render("> "+line))
			continue
		}
		lines = append(lines, "  "+line)
	}
	return lines
}

func (m *Model) renderModal(rec model.WordRecord) string {
	width := min(m.contentWidth(), 60)
	title := wordStyle.Render(rec.Word)
	if m.modalSaved {
		title += "  " + statusStyle.Render("saved")
	}
	lines := []string{title}
	if rec.Phonetic != "" {
		lines = append(lines, phoneticStyle.Render(rec.Phonetic))
	}
	lines = append(lines, "", lipgloss.NewStyle().Width(width).Render(rec.Definition))
	if rec.Example != "" {
		lines = append(lines, "", mutedStyle.Width(width).Render(rec.Example))
	}
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
