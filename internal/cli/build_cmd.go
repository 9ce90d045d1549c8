package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/coursesmith/internal/cli/formatter"
	"github.com/alexanderramin/coursesmith/internal/transcript"
	"github.com/alexanderramin/coursesmith/internal/video"
)

const (
	pickAuto = "auto"
	pickAsk  = "ask"
)

func newBuildCmd(st *rootState) *cobra.Command {
	var (
		pick          string
		transcriptDir string
	)
	cmd := &cobra.Command{
		Use:   "build OBJECTIVE",
		Short: "Generate, assemble and save a complete course",
		Long: `Generates an outline, searches videos for every module, picks one per
module and assembles the course. With --pick ask each module's candidates
are offered in a selector; otherwise the best-ranked real video is used.
Transcripts are read from --transcripts DIR as <video id>.txt, .vtt or .srt.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pick != pickAuto && pick != pickAsk {
				return fmt.Errorf("--pick must be %q or %q, got %q", pickAuto, pickAsk, pick)
			}
			var src transcript.Source = transcript.None{}
			if transcriptDir != "" {
				src = transcript.NewDirSource(transcriptDir)
			}
			return runBuild(cmd, st, strings.Join(args, " "), pick == pickAsk && st.interactive(), src)
		},
	}
	cmd.Flags().StringVar(&pick, "pick", pickAuto, "how to choose each module's video: auto or ask")
	cmd.Flags().StringVar(&transcriptDir, "transcripts", "", "directory of transcript files named by video id")
	return cmd
}

func runBuild(cmd *cobra.Command, st *rootState, objective string, ask bool, src transcript.Source) error {
	ctx := cmd.Context()
	prog := &progress{out: cmd.ErrOrStderr(), enabled: st.interactive()}
	defer prog.done()

	prog.step("Generating outline")
	outline, err := st.app.Courses.GenerateOutline(ctx, objective)
	if err != nil {
		return err
	}

	used := video.NewUsedIDs()
	selected := make([]video.Candidate, outline.ModuleCount())
	ids := make([]string, len(selected))
	for i, title := range outline.ModuleTitles {
		prog.step(fmt.Sprintf("Searching videos for module %d/%d: %s", i+1, len(selected), title))
		candidates := st.app.Courses.SearchVideos(ctx, outline.SearchPrompts[i], title, i, used)

		choice := autoPick(candidates)
		if ask && !video.AllPlaceholders(candidates) {
			prog.done()
			choice, err = st.picker()(i, title, candidates)
			if err != nil {
				return fmt.Errorf("picking video for module %d: %w", i+1, err)
			}
		}
		selected[i] = choice
		ids[i] = choice.ID
	}

	prog.step("Reading transcripts")
	transcripts, err := transcript.Collect(ctx, src, ids)
	if err != nil {
		return err
	}

	prog.step("Assembling course")
	res, err := st.app.Courses.Build(ctx, outline, selected, transcripts)
	prog.done()
	if err != nil {
		return err
	}

	if st.opts.JSON {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"id":        res.ID,
			"run_id":    res.RunID,
			"quiz_gaps": res.Document.QuizGaps(),
			"course":    res.Document,
		})
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBuildSummary(res.ID, res.Document))
	return nil
}

// autoPick takes the best-ranked real video, or the first entry when every
// candidate is a placeholder.
func autoPick(candidates []video.Candidate) video.Candidate {
	for _, c := range candidates {
		if !c.IsPlaceholder() {
			return c
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return video.Placeholder()
}

// progress drives a spinner on interactive terminals and does nothing
// otherwise.
type progress struct {
	out     io.Writer
	enabled bool
	spinner *formatter.Spinner
}

func (p *progress) step(msg string) {
	if !p.enabled {
		return
	}
	if p.spinner == nil {
		p.spinner = formatter.NewSpinner(p.out, msg)
		p.spinner.Start()
		return
	}
	p.spinner.SetMessage(msg)
}

func (p *progress) done() {
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
}
