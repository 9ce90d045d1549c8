package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/coursesmith/internal/cli"
	"github.com/alexanderramin/coursesmith/internal/config"
	"github.com/alexanderramin/coursesmith/internal/course"
	"github.com/alexanderramin/coursesmith/internal/db"
	"github.com/alexanderramin/coursesmith/internal/llm"
	"github.com/alexanderramin/coursesmith/internal/logging"
	"github.com/alexanderramin/coursesmith/internal/repository"
	"github.com/alexanderramin/coursesmith/internal/service"
	"github.com/alexanderramin/coursesmith/internal/video"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(newApp).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// newApp wires the application once the root flags are known.
func newApp(_ context.Context, opts cli.Options) (*cli.App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.DBPath != "" {
		cfg.DBPath = opts.DBPath
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	log := logging.New(cfg.Log, os.Stderr)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// LLM gate: one per process so every stage shares its limits.
	gate := llm.NewGate(llm.NewOpenAIClient(cfg.LLM), cfg.LLM, llm.NewLogObserver(log), log)

	engine := video.NewEngine(cfg.Video, video.NewPlatformClient(cfg.Video), nil, log)
	pipeline := course.NewPipeline(
		course.NewOutlineGenerator(gate, cfg.Course, log),
		engine,
		course.NewAssembler(gate, cfg.Course, log),
		log,
	)

	courses := service.NewCourseService(
		pipeline,
		repository.NewSQLiteCourseRepo(database),
		db.NewSQLiteUnitOfWork(database),
		log,
		service.NewLogUseCaseObserver(log),
	)

	return &cli.App{
		Courses: courses,
		IsInteractive: func() bool {
			fd := os.Stdout.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
		Close: database.Close,
	}, nil
}
