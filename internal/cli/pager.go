package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/coursesmith/internal/cli/formatter"
)

type pagerKeyMap struct {
	Quit   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

var pagerKeys = pagerKeyMap{
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
}

// pagerModel scrolls a rendered course in a viewport. Header and footer
// take one line each.
type pagerModel struct {
	title   string
	content string
	vp      viewport.Model
	ready   bool
}

func newPagerModel(title, content string) pagerModel {
	return pagerModel{title: title, content: content}
}

func (m pagerModel) Init() tea.Cmd { return nil }

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-2, 1)
		if !m.ready {
			m.vp = viewport.New(msg.Width, height)
			m.vp.SetContent(m.content)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = height
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, pagerKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, pagerKeys.Top):
			m.vp.GotoTop()
			return m, nil
		case key.Matches(msg, pagerKeys.Bottom):
			m.vp.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m pagerModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := formatter.StyleHeader.Render(m.title)
	footer := formatter.Dim("q quit · ↑/↓ scroll · g/G top/bottom  ") + scrollIndicator(m.vp)
	return strings.Join([]string{header, m.vp.View(), footer}, "\n")
}

func scrollIndicator(vp viewport.Model) string {
	if vp.AtTop() {
		return formatter.Dim("[TOP]")
	}
	if vp.AtBottom() {
		return formatter.Dim("[END]")
	}
	return formatter.Dim(fmt.Sprintf("[%d%%]", int(vp.ScrollPercent()*100)))
}

func runPager(title, content string) error {
	_, err := tea.NewProgram(newPagerModel(title, content), tea.WithAltScreen()).Run()
	return err
}
