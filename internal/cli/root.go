package cli

import (
	"context"
	"errors"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/coursesmith/internal/service"
	"github.com/alexanderramin/coursesmith/internal/video"
)

// Options are the root flags, resolved before any subcommand runs.
type Options struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	JSON       bool
}

// Picker chooses one video for a module from its ranked candidates.
type Picker func(moduleIndex int, moduleTitle string, candidates []video.Candidate) (video.Candidate, error)

// App holds what CLI commands need. Nil hooks fall back to defaults.
type App struct {
	Courses       service.CourseService
	IsInteractive func() bool
	Pick          Picker
	Close         func() error
}

// AppFactory builds the App once the root flags are parsed.
type AppFactory func(ctx context.Context, opts Options) (*App, error)

type rootState struct {
	factory AppFactory
	opts    Options
	app     *App
}

// NewRootCmd creates the top-level "coursesmith" command. The App is built
// lazily so --config, --db and --log-level take effect.
func NewRootCmd(factory AppFactory) *cobra.Command {
	st := &rootState{factory: factory}

	root := &cobra.Command{
		Use:           "coursesmith",
		Short:         "Assemble video courses from a learning objective",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if st.app != nil {
				return nil
			}
			app, err := st.factory(cmd.Context(), st.opts)
			if err != nil {
				return err
			}
			if app == nil {
				return errors.New("no application configured")
			}
			st.app = app
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if st.app == nil || st.app.Close == nil {
				return nil
			}
			return st.app.Close()
		},
	}
	bindRootFlags(root.PersistentFlags(), &st.opts)

	root.AddCommand(
		newOutlineCmd(st),
		newSearchCmd(st),
		newBuildCmd(st),
		newShowCmd(st),
		newListCmd(st),
		newDeleteCmd(st),
	)
	return root
}

func bindRootFlags(fs *pflag.FlagSet, opts *Options) {
	fs.StringVar(&opts.ConfigPath, "config", "", "path to a coursesmith.yaml file")
	fs.StringVar(&opts.DBPath, "db", "", "SQLite database path (overrides config)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	fs.BoolVar(&opts.JSON, "json", false, "print machine-readable JSON")
}

func (st *rootState) interactive() bool {
	return !st.opts.JSON && st.app.IsInteractive != nil && st.app.IsInteractive()
}

func (st *rootState) picker() Picker {
	if st.app.Pick != nil {
		return st.app.Pick
	}
	return askPick
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
