package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aymane70/taskman/internal/api"
	"github.com/aymane70/taskman/internal/collection"
	"github.com/aymane70/taskman/internal/config"
	"github.com/aymane70/taskman/internal/credentials"
	"github.com/aymane70/taskman/internal/logger"
	"github.com/aymane70/taskman/internal/session"
	"github.com/aymane70/taskman/internal/tui"
)

var (
	appConfig  *config.Config
	logLevel   string
	logFile    string
	logConsole bool
)

var rootCmd = &cobra.Command{
	Use:   "taskman",
	Short: "Taskman - terminal client for your task server",
	Long: `Taskman is a terminal client for a remote task-management server:
log in once, then browse, filter, and edit your tasks from an interactive UI
or one-shot commands.

Run 'taskman' without arguments to launch the interactive TUI.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
		}
		appConfig = cfg

		logConfig := logger.DefaultConfig()
		logConfig.Level = logger.ParseLevel(cfg.LogLevel)
		logConfig.FilePath = cfg.LogFile
		logConfig.Console = cfg.LogConsole

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("Taskman started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		controller := collection.NewController(app.client)
		controller.SetPageSize(app.cfg.PageSize)

		logger.Info("Launching TUI")
		m := tui.NewModel(app.cfg, app.guard, controller, app.client)
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("Taskman exiting", logger.F("command", cmd.Name()))
		_ = logger.Close()
	},
}

// app bundles the wired client-side components for one command invocation
type app struct {
	cfg    *config.Config
	client *api.Client
	guard  *session.Guard
}

// newApp wires the store, API client, and session guard, and restores the
// session. The guard's unauthorized handler is installed on the client so
// an expired token anywhere forces a logout.
func newApp() (*app, error) {
	cfg := appConfig
	if cfg == nil {
		var err error
		cfg, err = config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}
	}

	store, err := credentials.OpenDefault()
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.ServerURL)
	guard := session.NewGuard(store, client)
	client.SetTokenSource(guard.Token)
	client.SetUnauthorizedHandler(guard.HandleUnauthorized)
	guard.Restore()

	return &app{cfg: cfg, client: client, guard: guard}, nil
}

// requireAuth rejects commands that need a session
func (a *app) requireAuth() error {
	if a.guard.Current().Status != session.StatusAuthenticated {
		return fmt.Errorf("not logged in - run 'taskman auth login' first")
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}
