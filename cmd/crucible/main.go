// Package main provides the crucible binary: an autonomous agent that plays
// an element-combination game in a real browser, chasing a configured set of
// goal elements.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/crucible/pkg/browser"
	"github.com/entrhq/crucible/pkg/config"
	"github.com/entrhq/crucible/pkg/engine"
	"github.com/entrhq/crucible/pkg/logging"
	"github.com/entrhq/crucible/pkg/session"
	"github.com/entrhq/crucible/pkg/tui"
)

const version = "0.1.0"

// cliFlags holds command-line configuration.
type cliFlags struct {
	ConfigFile  string
	URL         string
	Headless    bool
	Goals       string
	Recipes     string
	Timeout     time.Duration
	OutputDir   string
	TUI         bool
	ShowVersion bool
}

func main() {
	flags, visited := parseFlags()

	if flags.ShowVersion {
		fmt.Printf("crucible v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nshutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, flags, visited); err != nil {
		cancel()
		log.Printf("session failed: %v", err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags and records which were set
// explicitly, so defaults never clobber config file values.
func parseFlags() (*cliFlags, map[string]bool) {
	flags := &cliFlags{}

	flag.StringVar(&flags.ConfigFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&flags.URL, "url", "", "Game URL (overrides config)")
	flag.BoolVar(&flags.Headless, "headless", true, "Run the browser headless")
	flag.StringVar(&flags.Goals, "goals", "", "Comma-separated goal element names (overrides config)")
	flag.StringVar(&flags.Recipes, "recipes", "", "Path to recipe library JSON (overrides config)")
	flag.DurationVar(&flags.Timeout, "timeout", 0, "Overall session timeout (0 means none)")
	flag.StringVar(&flags.OutputDir, "output", "", "Artifact output directory (overrides config)")
	flag.BoolVar(&flags.TUI, "tui", false, "Show a live terminal dashboard")
	flag.BoolVar(&flags.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Crucible - Combination Game Automation Agent\n\n")
		fmt.Fprintf(os.Stderr, "Usage: crucible [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Run with a config file\n")
		fmt.Fprintf(os.Stderr, "  crucible -config session.yaml\n\n")
		fmt.Fprintf(os.Stderr, "  # Chase two goals with a recipe library, watching live\n")
		fmt.Fprintf(os.Stderr, "  crucible -goals \"Steam,Mud\" -recipes recipes.json -tui\n\n")
	}

	flag.Parse()

	visited := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { visited[f.Name] = true })
	return flags, visited
}

// loadConfig builds the session configuration from file and flag overrides.
func loadConfig(flags *cliFlags, visited map[string]bool) (*config.Config, error) {
	cfg := config.Default()
	if flags.ConfigFile != "" {
		loaded, err := config.Load(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.URL != "" {
		cfg.Game.URL = flags.URL
	}
	if visited["headless"] {
		cfg.Game.Headless = flags.Headless
	}
	if flags.Recipes != "" {
		cfg.RecipeLibrary = flags.Recipes
	}
	if flags.OutputDir != "" {
		cfg.Artifacts.OutputDir = flags.OutputDir
	}
	if flags.Goals != "" {
		cfg.Goals = nil
		for _, name := range strings.Split(flags.Goals, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				cfg.Goals = append(cfg.Goals, config.GoalConfig{Name: name})
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, flags *cliFlags, visited map[string]bool) error {
	cfg, err := loadConfig(flags, visited)
	if err != nil {
		return err
	}

	if flags.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.Timeout)
		defer cancel()
	}

	level := logging.LevelFromVerbosity(cfg.Logging.Verbosity)
	mainLog, logErr := logging.New("main", level)
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging unavailable: %v\n", logErr)
	}
	defer mainLog.Close()
	mainLog.Infof("crucible v%s starting, session %s", version, mainLog.SessionID())

	var library *engine.Library
	if cfg.RecipeLibrary != "" {
		library, err = config.LoadRecipeLibrary(cfg.RecipeLibrary)
		if err != nil {
			return err
		}
		mainLog.Infof("loaded %d recipes from %s", library.Len(), cfg.RecipeLibrary)
	}

	filter, err := session.NewFilter(cfg.Elements)
	if err != nil {
		return err
	}

	// Browser setup
	manager := browser.NewManager()
	if err := manager.Initialize(); err != nil {
		return err
	}
	defer func() {
		if shutdownErr := manager.Shutdown(); shutdownErr != nil {
			mainLog.Warnf("browser shutdown: %v", shutdownErr)
		}
	}()

	page, err := manager.Launch(browser.Options{
		Headless: cfg.Game.Headless,
		Viewport: &browser.Viewport{
			Width:  cfg.Game.ViewportWidth,
			Height: cfg.Game.ViewportHeight,
		},
		PageTimeout:   cfg.Game.PageTimeout,
		SettleTimeout: cfg.Game.SettleTimeout,
	})
	if err != nil {
		return err
	}

	browserLog, _ := logging.New("browser", level)
	defer browserLog.Close()
	game, err := browser.NewGame(page, cfg.Game, browserLog)
	if err != nil {
		return err
	}
	if err := game.Open(ctx); err != nil {
		return err
	}

	driverLog, _ := logging.New("driver", level)
	defer driverLog.Close()

	var events chan session.Event
	if flags.TUI {
		events = make(chan session.Event, 256)
	}

	driver, err := session.New(game, library, cfg.GoalsFor(), session.Options{
		Retry:   cfg.Retry,
		Rewards: cfg.Rewards,
		Filter:  filter,
		Logger:  driverLog,
		Events:  events,
	})
	if err != nil {
		return err
	}

	summary, runErr := runSession(ctx, driver, events, flags.TUI)

	if summary != nil {
		writer := session.NewArtifactWriter(cfg.Artifacts)
		if writeErr := writer.WriteAll(summary); writeErr != nil {
			mainLog.Warnf("artifact write failed: %v", writeErr)
		}
		printOutcome(summary)
	}

	// An external stop or timeout is a clean shutdown, not a failure.
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return runErr
	}
	return nil
}

// runSession runs the driver, optionally behind a live TUI.
func runSession(ctx context.Context, driver *session.Driver, events chan session.Event, withTUI bool) (*session.Summary, error) {
	if !withTUI {
		return driver.Run(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		summary *session.Summary
		err     error
	}
	done := make(chan result, 1)
	go func() {
		summary, err := driver.Run(ctx)
		close(events)
		done <- result{summary, err}
	}()

	program := tea.NewProgram(tui.New(events))
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: dashboard failed: %v\n", err)
	}
	// The user may have quit the dashboard before the session ended.
	cancel()

	r := <-done
	return r.summary, r.err
}

// printOutcome writes the final session result to the terminal.
func printOutcome(summary *session.Summary) {
	fmt.Printf("\nSession %s: %s\n", summary.SessionID, summary.Reason)
	fmt.Printf("  attempts:    %d\n", len(summary.Attempts))
	fmt.Printf("  discoveries: %d\n", len(summary.Discoveries))
	achieved := 0
	for _, g := range summary.Goals {
		if g.Achieved {
			achieved++
		}
	}
	fmt.Printf("  goals:       %d/%d\n", achieved, len(summary.Goals))
	fmt.Printf("  reward:      %d\n", summary.Reward)
	for _, name := range summary.Unreached {
		fmt.Printf("  unreached:   %s\n", name)
	}
}
