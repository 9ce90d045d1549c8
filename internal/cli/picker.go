package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/coursesmith/internal/cli/formatter"
	"github.com/alexanderramin/coursesmith/internal/video"
)

func coursesmithHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// videoPickForm offers every candidate; result starts on the auto choice.
func videoPickForm(moduleIndex int, moduleTitle string, candidates []video.Candidate, result *int) *huh.Form {
	options := make([]huh.Option[int], 0, len(candidates))
	for i, c := range candidates {
		options = append(options, huh.NewOption(formatter.CandidateLabel(c), i))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(fmt.Sprintf("Module %d: %s", moduleIndex+1, moduleTitle)).
				Description("Pick the video for this module").
				Options(options...).
				Value(result),
		),
	).WithTheme(coursesmithHuhTheme()).WithShowHelp(false)
}

func askPick(moduleIndex int, moduleTitle string, candidates []video.Candidate) (video.Candidate, error) {
	choice := 0
	for i, c := range candidates {
		if !c.IsPlaceholder() {
			choice = i
			break
		}
	}
	if err := videoPickForm(moduleIndex, moduleTitle, candidates, &choice).Run(); err != nil {
		return video.Candidate{}, err
	}
	return candidates[choice], nil
}
