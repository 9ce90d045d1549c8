package cli

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/coursesmith/internal/teatest"
	"github.com/alexanderramin/coursesmith/internal/video"
)

func longContent(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return strings.Join(lines, "\n")
}

func TestPagerModel_SizesAndScrolls(t *testing.T) {
	assert.Equal(t, "Loading...", newPagerModel("My Course", "x").View())

	d := teatest.New(t, newPagerModel("My Course", longContent(100)), teatest.WithSize(80, 12))
	assert.Contains(t, d.View(), "My Course")
	assert.Contains(t, d.View(), "line 0")
	assert.Contains(t, d.View(), "[TOP]")

	d.Type("G")
	assert.Contains(t, d.View(), "line 99")
	assert.Contains(t, d.View(), "[END]")

	d.Type("g")
	assert.Contains(t, d.View(), "line 0")

	d.Press(tea.KeyPgDown)
	assert.Contains(t, d.View(), "line 10")
	assert.False(t, d.Quitting)
}

func TestPagerModel_QuitKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		d := teatest.New(t, newPagerModel("t", "body"), teatest.WithSize(40, 10))
		d.Press(k)
		assert.True(t, d.Quitting, "key %v", k)
	}

	d := teatest.New(t, newPagerModel("t", "body"), teatest.WithSize(40, 10))
	d.Type("q")
	assert.True(t, d.Quitting)
}

func TestAutoPick(t *testing.T) {
	v := video.Candidate{ID: "abc", URL: video.WatchURL("abc"), Title: "Real"}

	assert.Equal(t, "abc", autoPick([]video.Candidate{video.Placeholder(), v}).ID)
	assert.True(t, autoPick([]video.Candidate{video.Placeholder()}).IsPlaceholder())
	assert.True(t, autoPick(nil).IsPlaceholder())
}

func TestVideoPickForm_BuildsOneOptionPerCandidate(t *testing.T) {
	choice := 1
	form := videoPickForm(0, "Goroutines", []video.Candidate{video.Placeholder(), {ID: "x", Title: "X", DurationMinutes: 5}}, &choice)

	require.NotNil(t, form)
	assert.Equal(t, 1, choice)
}
