// Package main provides the CLI entrypoint for wordblitz.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/wordblitz/internal/classify"
	"github.com/verte-zerg/wordblitz/internal/config"
	"github.com/verte-zerg/wordblitz/internal/heatmap"
	"github.com/verte-zerg/wordblitz/internal/model"
	"github.com/verte-zerg/wordblitz/internal/session"
	"github.com/verte-zerg/wordblitz/internal/stats"
	"github.com/verte-zerg/wordblitz/internal/store"
	"github.com/verte-zerg/wordblitz/internal/tui"
	"github.com/verte-zerg/wordblitz/internal/words"
)

const (
	defaultMode       = "timed"
	defaultDifficulty = "medium"
	defaultCategory   = "common"
	defaultDuration   = 60
	defaultLives      = 3
	defaultStatsWidth = 80
	defaultWindow     = 10
)

var (
	playMode       string
	playDifficulty string
	playCategory   string
	playDuration   int
	playLives      int
	playTextPath   string

	statsMode   string
	statsSince  string
	statsLast   int
	statsWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordblitz",
		Short:         "Terminal word-blitz typing game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playMode, "mode", defaultMode, "game mode (timed, endless, lives, custom)")
	rootCmd.Flags().StringVar(&playDifficulty, "difficulty", defaultDifficulty, "difficulty (easy, medium, hard)")
	rootCmd.Flags().StringVar(&playCategory, "category", defaultCategory, "word category")
	rootCmd.Flags().IntVar(&playDuration, "duration", defaultDuration, "session length in seconds (timed mode)")
	rootCmd.Flags().IntVar(&playLives, "lives", defaultLives, "starting lives (lives mode)")
	rootCmd.Flags().StringVar(&playTextPath, "text", "", "custom text file to practice (implies custom mode)")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCategoriesCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "mode", &playMode, fileCfg.Game.Mode)
	applyStringConfig(cmd, "difficulty", &playDifficulty, fileCfg.Game.Difficulty)
	applyStringConfig(cmd, "category", &playCategory, fileCfg.Game.Category)
	applyIntConfig(cmd, "duration", &playDuration, fileCfg.Game.Duration)
	applyIntConfig(cmd, "lives", &playLives, fileCfg.Game.Lives)

	if playTextPath != "" {
		playMode = string(model.ModeCustom)
	}
	mode, err := model.ParseMode(playMode)
	if err != nil {
		return err
	}
	difficulty, err := model.ParseDifficulty(playDifficulty)
	if err != nil {
		return err
	}
	settings := model.Settings{
		Mode:       mode,
		Difficulty: difficulty,
		Category:   playCategory,
		Duration:   playDuration,
		Lives:      playLives,
	}
	if err := validateSettings(settings, playTextPath); err != nil {
		return err
	}

	source, err := buildSource(settings, playTextPath)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	engine := session.New(settings, source,
		session.WithErrorLog(classify.NewLog(classify.DefaultLogCap)),
		session.WithHeatmap(heatmap.New()),
	)
	if err := engine.Start(); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	uiModel := tui.NewModel(engine, st, settings)
	program := tea.NewProgram(uiModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	engine.End()
	return nil
}

func buildSource(settings model.Settings, textPath string) (words.Source, error) {
	if settings.Mode == model.ModeCustom {
		data, err := os.ReadFile(textPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read custom text: %w", err)
		}
		source, err := words.NewCustomTextSource(string(data))
		if err != nil {
			return nil, err
		}
		return source, nil
	}
	return words.NewGeneratorSource(settings.Category, settings.Difficulty)
}

func validateSettings(settings model.Settings, textPath string) error {
	if settings.Mode == model.ModeTimed && settings.Duration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	if settings.Mode == model.ModeLives && settings.Lives <= 0 {
		return fmt.Errorf("--lives must be > 0")
	}
	if settings.Mode == model.ModeCustom && textPath == "" {
		return fmt.Errorf("custom mode requires --text <file>")
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsWindow, "window", defaultWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsMode != "" {
		if _, err := model.ParseMode(statsMode); err != nil {
			return err
		}
	}
	cfg := model.StatsConfig{
		Mode:  statsMode,
		Since: sinceTime,
		Last:  statsLast,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	out := cmd.OutOrStdout()
	width := stats.TerminalWidth(defaultStatsWidth)
	if err := stats.RenderSummary(out, report.Sessions); err != nil {
		return err
	}
	if err := stats.RenderWPMSparkline(out, report.Sessions, statsWindow, width); err != nil {
		return err
	}
	if err := stats.RenderPatterns(out, report.Patterns); err != nil {
		return err
	}
	if err := stats.RenderHotKeys(out, report.HotKeys); err != nil {
		return err
	}
	return nil
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

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List word categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range words.Categories() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
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

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wordblitz configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# mode = %q          # Game mode (timed, endless, lives, custom)
# difficulty = %q    # Difficulty (easy, medium, hard)
# category = %q      # Word category (see: wordblitz categories)
# duration = %d      # Session length in seconds (timed mode)
# lives = %d         # Starting lives (lives mode)
`,
		defaultMode,
		defaultDifficulty,
		defaultCategory,
		defaultDuration,
		defaultLives,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
