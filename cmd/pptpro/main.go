package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/M00N7682/pptpro/cmd/pptpro/wizard"
	"github.com/M00N7682/pptpro/internal/api"
	"github.com/M00N7682/pptpro/internal/config"
	"github.com/M00N7682/pptpro/internal/draft"
	"github.com/M00N7682/pptpro/internal/logging"
	"github.com/M00N7682/pptpro/internal/session"
	"github.com/M00N7682/pptpro/internal/workflow"
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiURL     string

	cfg      *config.Config
	logger   *zap.Logger
	sessions *session.Store
	guard    *session.Guard
	client   *api.Client
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pptpro",
	Short: "pptpro - AI-assisted presentation authoring",
	Long: `pptpro builds consulting-grade slide decks through a four-step flow:
storyline, templates, content, export.

The storyline step turns your topic, audience, and goal into a slide outline.
Each slide then gets one of six layout templates, content is drafted with AI
assistance where possible, and the finished deck is rendered to .pptx.

Run without arguments to start the interactive wizard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return bootstrap()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the interactive wizard
		return runWizard("")
	},
}

// resumeCmd reopens an existing project inside the wizard
var resumeCmd = &cobra.Command{
	Use:   "resume [project-id]",
	Short: "Resume authoring an existing project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWizard(args[0])
	},
}

// statusCmd prints the local client state
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session and configuration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Backend:   %s\n", cfg.API.BaseURL)
		fmt.Printf("State dir: %s\n", cfg.State.Dir)
		if user := sessions.User(); sessions.IsAuthenticated() && user != nil {
			fmt.Printf("Logged in: %s <%s>\n", user.Name, user.Email)
		} else {
			fmt.Println("Logged in: no")
		}
		return nil
	},
}

// bootstrap loads config, builds the logger, and wires the shared session
// store and API client used by every command.
func bootstrap() error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err = logging.New(cfg, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	sessions = session.NewStore(cfg.SessionPath(), logger)
	if err := sessions.Load(); err != nil {
		return err
	}
	guard = session.NewGuard(sessions)

	client = api.NewClient(api.Config{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.GetAPITimeout(),
		GenerateTimeout: cfg.GetGenerateTimeout(),
	}, sessions, func() {
		// 401 anywhere means the stored tokens are dead
		_ = sessions.ClearAuth()
	}, logger)
	return nil
}

// runWizard starts the interactive flow, optionally resuming a project.
func runWizard(projectID string) error {
	if err := guard.Require("wizard"); err != nil {
		return err
	}

	drafts, err := draft.NewStore(cfg.DraftDBPath(), logger)
	if err != nil {
		logger.Warn("Draft cache unavailable", zap.Error(err))
		drafts = nil
	} else {
		defer drafts.Close()
	}

	flow := workflow.New(client, drafts, logger)
	if projectID != "" {
		// the signal handler is released before bubbletea installs its own
		ctx, stop := cmdContext()
		err := flow.LoadProject(ctx, projectID)
		stop()
		if err != nil {
			return fmt.Errorf("failed to resume project: %w", err)
		}
	}

	model := wizard.New(cfg, flow, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "Config file path")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (overrides config)")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsShowCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)

	contentCmd.AddCommand(contentBatchCmd)

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
