// Package main provides the CLI entrypoint for coderacer.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/coderacer/internal/api"
	"github.com/verte-zerg/coderacer/internal/apiclient"
	"github.com/verte-zerg/coderacer/internal/boardui"
	"github.com/verte-zerg/coderacer/internal/config"
	"github.com/verte-zerg/coderacer/internal/insights"
	"github.com/verte-zerg/coderacer/internal/notify"
	"github.com/verte-zerg/coderacer/internal/report"
	"github.com/verte-zerg/coderacer/internal/store"
	"github.com/verte-zerg/coderacer/internal/tui"
)

const (
	defaultServerURL         = "http://localhost:3001"
	defaultAddr              = ":3001"
	defaultStatisticsAddr    = ":3002"
	defaultNotificationsAddr = ":3003"
	defaultStatisticsURL     = "http://localhost:3002"
	defaultNotificationsURL  = "http://localhost:3003"
	shutdownTimeout          = 5 * time.Second
)

var (
	raceServerURL string
	raceLanguage  string
	raceUserID    string

	serveAddr             string
	serveDBPath           string
	serveStatisticsURL    string
	serveNotificationsURL string

	statsAddr   string
	statsDBPath string

	notifyAddr   string
	notifyDBPath string

	seedDBPath string
	seedForce  bool

	boardLanguage string
	boardLimit    int
	boardPlain    bool

	profileUser string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "coderacer",
		Short:         "Terminal code typing races",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runRaceCmd,
	}

	rootCmd.Flags().StringVar(&raceServerURL, "server", defaultServerURL, "race server base URL")
	rootCmd.Flags().StringVar(&raceLanguage, "language", "", "snippet language filter")
	rootCmd.Flags().StringVar(&raceUserID, "user", "", "user id (default: persisted anonymous id)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newStatsServiceCmd())
	rootCmd.AddCommand(newNotifyServiceCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runRaceCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "server", &raceServerURL, fileCfg.Client.ServerURL)
	applyStringConfig(cmd, "language", &raceLanguage, fileCfg.Client.Language)
	applyStringConfig(cmd, "user", &raceUserID, fileCfg.Client.UserID)

	userID, err := resolveUserID(raceUserID)
	if err != nil {
		return err
	}

	client := apiclient.New(raceServerURL)
	model := tui.NewModel(client, userID, raceLanguage)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the main race API server",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&serveDBPath, "db", "", "SQLite database path")
	cmd.Flags().StringVar(&serveStatisticsURL, "statistics", defaultStatisticsURL, "statistics service base URL")
	cmd.Flags().StringVar(&serveNotificationsURL, "notifications", defaultNotificationsURL, "notification service base URL")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyStringConfig(cmd, "db", &serveDBPath, fileCfg.Server.DBPath)
	applyStringConfig(cmd, "statistics", &serveStatisticsURL, fileCfg.Server.StatisticsURL)
	applyStringConfig(cmd, "notifications", &serveNotificationsURL, fileCfg.Server.NotificationsURL)

	st, err := openStore(serveDBPath)
	if err != nil {
		return err
	}
	defer closeStore(st)

	server := api.NewServer(st, serveStatisticsURL, serveNotificationsURL)
	return runHTTPServer(serveAddr, server.Handler())
}

func newStatsServiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats-service",
		Short: "Run the statistics analysis service",
		Args:  cobra.NoArgs,
		RunE:  runStatsServiceCmd,
	}
	cmd.Flags().StringVar(&statsAddr, "addr", defaultStatisticsAddr, "listen address")
	cmd.Flags().StringVar(&statsDBPath, "db", "", "SQLite database path")
	return cmd
}

func runStatsServiceCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "addr", &statsAddr, fileCfg.Server.StatisticsAddr)
	applyStringConfig(cmd, "db", &statsDBPath, fileCfg.Server.DBPath)

	st, err := openStore(statsDBPath)
	if err != nil {
		return err
	}
	defer closeStore(st)

	service := insights.NewService(st)
	return runHTTPServer(statsAddr, service.Handler())
}

func newNotifyServiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify-service",
		Short: "Run the notification service",
		Args:  cobra.NoArgs,
		RunE:  runNotifyServiceCmd,
	}
	cmd.Flags().StringVar(&notifyAddr, "addr", defaultNotificationsAddr, "listen address")
	cmd.Flags().StringVar(&notifyDBPath, "db", "", "SQLite database path")
	return cmd
}

func runNotifyServiceCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "addr", &notifyAddr, fileCfg.Server.NotificationsAddr)
	applyStringConfig(cmd, "db", &notifyDBPath, fileCfg.Server.DBPath)

	st, err := openStore(notifyDBPath)
	if err != nil {
		return err
	}
	defer closeStore(st)

	service := notify.NewService(notify.NewMemoryStore(), st)
	return runHTTPServer(notifyAddr, service.Handler())
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the snippet database",
		Args:  cobra.NoArgs,
		RunE:  runSeedCmd,
	}
	cmd.Flags().StringVar(&seedDBPath, "db", "", "SQLite database path")
	cmd.Flags().BoolVar(&seedForce, "force", false, "seed even when snippets already exist")
	return cmd
}

func runSeedCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &seedDBPath, fileCfg.Server.DBPath)

	st, err := openStore(seedDBPath)
	if err != nil {
		return err
	}
	defer closeStore(st)

	inserted, err := st.Seed(context.Background(), seedForce)
	if err != nil {
		return fmt.Errorf("failed to seed snippets: %w", err)
	}
	if inserted == 0 {
		logErrln("snippets already present; use --force to seed anyway")
		return nil
	}
	logErrf("seeded %d snippets\n", inserted)
	return nil
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the leaderboard",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().StringVar(&raceServerURL, "server", defaultServerURL, "race server base URL")
	cmd.Flags().StringVar(&boardLanguage, "language", "", "snippet language filter")
	cmd.Flags().IntVar(&boardLimit, "limit", 10, "number of entries")
	cmd.Flags().BoolVar(&boardPlain, "plain", false, "print a plain table instead of the TUI")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "server", &raceServerURL, fileCfg.Client.ServerURL)
	applyStringConfig(cmd, "language", &boardLanguage, fileCfg.Client.Language)

	userID, err := resolveUserID("")
	if err != nil {
		return err
	}
	client := apiclient.New(raceServerURL)

	if boardPlain {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		entries, err := client.Leaderboard(ctx, boardLanguage, boardLimit)
		if err != nil {
			return fmt.Errorf("failed to fetch leaderboard: %w", err)
		}
		return report.RenderLeaderboard(cmd.OutOrStdout(), entries, userID)
	}

	model := boardui.NewModel(client, userID, boardLanguage, boardLimit)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run leaderboard TUI: %w", err)
	}
	return nil
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show a user profile",
		Args:  cobra.NoArgs,
		RunE:  runProfileCmd,
	}
	cmd.Flags().StringVar(&raceServerURL, "server", defaultServerURL, "race server base URL")
	cmd.Flags().StringVar(&profileUser, "user", "", "user id (default: persisted anonymous id)")
	return cmd
}

func runProfileCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "server", &raceServerURL, fileCfg.Client.ServerURL)
	applyStringConfig(cmd, "user", &profileUser, fileCfg.Client.UserID)

	userID, err := resolveUserID(profileUser)
	if err != nil {
		return err
	}

	client := apiclient.New(raceServerURL)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	profile, err := client.Profile(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}
	return report.RenderProfile(cmd.OutOrStdout(), profile)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// runHTTPServer serves until SIGINT or SIGTERM, then drains in-flight
// requests within the shutdown timeout.
func runHTTPServer(addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logErrf("listening on %s\n", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logErrf("received %s, shutting down\n", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return <-errCh
}

func openStore(path string) (*store.Store, error) {
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func resolveUserID(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	userID, err := config.LoadUserID(config.DefaultUserIDPath())
	if err != nil {
		return "", fmt.Errorf("failed to load user id: %w", err)
	}
	return userID, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# coderacer configuration
# Uncomment a value to enable it. CLI flags override config values.

[client]
# server-url = %q   # Race server base URL
# language = "go"                     # Snippet language filter
# user-id = ""                        # Explicit user id

[server]
# addr = %q                       # Main API listen address
# statistics-addr = %q            # Statistics service listen address
# notifications-addr = %q        # Notification service listen address
# statistics-url = %q    # Statistics service base URL
# notifications-url = %q # Notification service base URL
# db-path = ""                        # SQLite database path
`,
		defaultServerURL,
		defaultAddr,
		defaultStatisticsAddr,
		defaultNotificationsAddr,
		defaultStatisticsURL,
		defaultNotificationsURL,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
