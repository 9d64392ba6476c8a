package main

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stefanpenner/pulse/pkg/config"
	"github.com/stefanpenner/pulse/pkg/dates"
	"github.com/stefanpenner/pulse/pkg/grid"
	"github.com/stefanpenner/pulse/pkg/logging"
	"github.com/stefanpenner/pulse/pkg/state"
	"github.com/stefanpenner/pulse/pkg/store"
	"github.com/stefanpenner/pulse/pkg/tui"
)

// app carries what every subcommand needs once the workspace is loaded.
type app struct {
	// flags
	dir     string
	today   string
	verbose bool
	jsonOut bool

	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error
	store    *store.Store
	state    *state.State
}

// launchTUIFunc is swapped out in tests.
var launchTUIFunc = launchTUI

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pulse",
		Short: "Project health and team workload dashboard",
		Long: `pulse loads tasks and users from a data directory and shows
per-user workload, per-board health and workspace KPIs.

Run without a subcommand to open the dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return launchTUIFunc(a)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.dir, "dir", "", "data directory (default $PULSE_DIR or the platform data dir)")
	flags.StringVar(&a.today, "today", "", "reference date YYYY-MM-DD (default: the current date)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&a.jsonOut, "json", false, "print JSON")

	root.AddCommand(
		newAllocationsCommand(a),
		newBoardsCommand(a),
		newKPICommand(a),
		newTasksCommand(a),
		newReassignCommand(a),
	)
	return root
}

// setup resolves the data dir, reads config, opens the log and loads the
// workspace.
func (a *app) setup() error {
	dir := store.ResolveDataDir(a.dir)

	cfg, err := config.NewLoader(dir).Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	if a.today != "" && !dates.Valid(a.today) {
		return fmt.Errorf("--today %q is not a YYYY-MM-DD date", a.today)
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if a.verbose {
		level = slog.LevelDebug
	}
	logger, closeLog, err := logging.Open(dir, level)
	if err != nil {
		return err
	}
	a.log, a.closeLog = logger, closeLog

	s, err := store.NewStore(dir, logger)
	if err != nil {
		return err
	}
	a.store = s

	snap, err := s.Load()
	if err != nil {
		return fmt.Errorf("loading workspace: %w", err)
	}

	today := a.today
	if today == "" {
		today = cfg.Today
	}
	a.state = state.New(snap, state.WithLogger(logger), state.WithToday(today))
	return nil
}

func (a *app) teardown() error {
	if a.closeLog == nil {
		return nil
	}
	return a.closeLog()
}

func launchTUI(a *app) error {
	if a.cfg.Board != "" {
		a.state.SelectBoard(a.cfg.Board)
	}
	m := tui.NewModel(a.store, a.state, grid.Criteria{UserID: a.cfg.User}, a.log)
	p := tea.NewProgram(m, tea.WithAltScreen())

	cleanup, err := tui.StartWatcher(a.store.Root, p, a.log)
	if err != nil {
		a.log.Warn("file watcher failed", "err", err)
	} else {
		defer cleanup()
	}

	_, err = p.Run()
	return err
}
