package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/coursesmith/internal/cli/formatter"
	"github.com/alexanderramin/coursesmith/internal/video"
)

func newOutlineCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "outline OBJECTIVE",
		Short: "Generate a course outline without searching or saving",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outline, err := st.app.Courses.GenerateOutline(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if st.opts.JSON {
				return printJSON(cmd.OutOrStdout(), outline)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatOutline(outline))
			return nil
		},
	}
}

func newSearchCmd(st *rootState) *cobra.Command {
	var (
		title   string
		index   int
		exclude []string
	)
	cmd := &cobra.Command{
		Use:   "search KEYWORD",
		Short: "Search and rank videos for one module",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			used := video.NewUsedIDs()
			for _, id := range exclude {
				used.Add(strings.TrimSpace(id))
			}
			results := st.app.Courses.SearchVideos(cmd.Context(), strings.Join(args, " "), title, index, used)
			if st.opts.JSON {
				return printJSON(cmd.OutOrStdout(), results)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCandidates(results))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "module title used for relevance ranking")
	cmd.Flags().IntVar(&index, "index", 0, "zero-based module position, for difficulty scoring")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "video ids already used by the course")
	return cmd
}

func newShowCmd(st *rootState) *cobra.Command {
	var noPager bool
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a stored course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := st.app.Courses.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if st.opts.JSON {
				return printJSON(cmd.OutOrStdout(), doc)
			}
			content := formatter.FormatCourse(doc)
			if noPager || !st.interactive() {
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}
			return runPager(doc.Title, content)
		},
	}
	cmd.Flags().BoolVar(&noPager, "no-pager", false, "print instead of opening the pager")
	return cmd
}

func newListCmd(st *rootState) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored courses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			courses, err := st.app.Courses.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if st.opts.JSON {
				return printJSON(cmd.OutOrStdout(), courses)
			}
			if len(courses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No courses yet. Run `coursesmith build` to create one.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCourseList(courses, time.Now()))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of courses (0 for all)")
	return cmd
}

func newDeleteCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a stored course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.app.Courses.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted course %s\n", args[0])
			return nil
		},
	}
}
