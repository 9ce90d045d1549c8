package teatest

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type echoMsg string

// recorder echoes "e" as a follow-up message and quits on "q".
type recorder struct {
	seen []string
	w    int
}

func (r *recorder) Init() tea.Cmd { return func() tea.Msg { return echoMsg("init") } }

func (r *recorder) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.w = msg.Width
	case echoMsg:
		r.seen = append(r.seen, string(msg))
	case tea.KeyMsg:
		r.seen = append(r.seen, msg.String())
		switch msg.String() {
		case "e":
			return r, tea.Batch(func() tea.Msg { return echoMsg("a") }, func() tea.Msg { return echoMsg("b") })
		case "q":
			return r, tea.Quit
		}
	}
	return r, nil
}

func (r *recorder) View() string { return "" }

func TestDriver_DrainsInitBatchAndQuit(t *testing.T) {
	rec := &recorder{}
	d := New(t, rec, WithSize(80, 24))

	d.Type("eq")
	d.Press(tea.KeyEsc)

	assert.Equal(t, 80, rec.w)
	assert.Equal(t, []string{"init", "e", "a", "b", "q"}, rec.seen)
	assert.True(t, d.Quitting)
}
