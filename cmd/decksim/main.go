// decksim runs the navigation engine against a simulated button-grid
// controller rendered in the terminal. It ships a small demo app with
// toggles, a press counter, a CPU gauge, and a settings screen.
//
// Usage:
//
//	decksim [flags]
//
// Flags:
//
//	-config string    Path to configuration file (default: ~/.config/decksim/config.yaml)
//	-theme string     Theme name override
//	-protocol string  Graphics protocol override (auto|halfblocks|kitty|iterm2|sixel|none)
//	-cols int         Grid columns override
//	-rows int         Grid rows override
//	-verbose          Enable verbose logging
//	-version          Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/deckflow/pkg/app"
	"gitlab.com/tinyland/lab/deckflow/pkg/deck/sim"
	"gitlab.com/tinyland/lab/deckflow/pkg/render"
	"gitlab.com/tinyland/lab/deckflow/pkg/theme"
	"gitlab.com/tinyland/lab/deckflow/pkg/view"
)

var version = "0.1.0"

// mainRefreshInterval paces the unforced background refresh of the main
// screen (picks up CPU samples and external switch changes).
const mainRefreshInterval = 2 * time.Second

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		themeName   = flag.String("theme", "", "Theme name override")
		protocol    = flag.String("protocol", "", "Graphics protocol override")
		cols        = flag.Int("cols", 0, "Grid columns override")
		rows        = flag.Int("rows", 0, "Grid rows override")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("decksim %s\n", version)
		return
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "decksim requires an interactive terminal")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *themeName != "" {
		cfg.Theme = *themeName
	}
	if *protocol != "" {
		cfg.Protocol = *protocol
	}
	if *cols > 0 {
		cfg.Cols = *cols
	}
	if *rows > 0 {
		cfg.Rows = *rows
	}
	if err := cfg.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns stdout, so logs go to a file only.
	logPath := cfg.LogFile
	if logPath == "" {
		home, _ := os.UserHomeDir()
		logPath = filepath.Join(home, ".cache", "decksim", "decksim.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
		os.Exit(1)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if err := run(cfg, logger); err != nil {
		logger.Error("decksim failed", "error", err)
		fmt.Fprintf(os.Stderr, "decksim: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg simConfig, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.ThemeDir != "" {
		if err := loadThemeDir(cfg.ThemeDir, logger); err != nil {
			return err
		}
	}
	th := theme.Get(cfg.Theme)

	proto, err := sim.ParseProtocol(cfg.Protocol)
	if err != nil {
		return err
	}

	if w, h, err := term.GetSize(os.Stdout.Fd()); err == nil {
		// +2 per cell for the border frame.
		needW := cfg.Cols * (cfg.CellWidth + 2)
		needH := cfg.Rows * (cfg.CellHeight + 2)
		if w < needW || h < needH {
			logger.Warn("terminal smaller than the simulated grid",
				"have_cols", w, "have_rows", h,
				"need_cols", needW, "need_rows", needH)
		}
	}

	dev := sim.New(sim.Config{Cols: cfg.Cols, Rows: cfg.Rows})
	defer dev.Close()
	logger.Info("simulated device ready",
		"serial", dev.Serial(), "grid", fmt.Sprintf("%dx%d", cfg.Cols, cfg.Rows),
		"protocol", proto)

	demo := newDemoApp(cfg.Cols, cfg.Rows)
	triggers := make(chan view.Trigger[*demoApp])

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := app.RunWithTriggers(ctx, dev, render.Config{FontScale: cfg.FontScale},
			th, demo, screenMain, triggers, app.Options{Logger: logger})
		cancel()
		return err
	})

	g.Go(func() error {
		ticker := time.NewTicker(mainRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
			select {
			case triggers <- view.Trigger[*demoApp]{Entry: screenMain}:
			case <-ctx.Done():
				return nil
			}
		}
	})

	zone.NewGlobal()
	defer zone.Close()
	m := newModel(dev, sim.NewFrameRenderer(proto), cfg, demo)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if err != nil && ctx.Err() != nil {
			// Quitting via signal surfaces as a program error; the
			// context tells us it was an orderly shutdown.
			return nil
		}
		return err
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// loadThemeDir registers every TOML theme found in dir. Files that fail
// to parse are logged and skipped.
func loadThemeDir(dir string, logger *slog.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read theme dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".toml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if _, err := theme.LoadFile(path); err != nil {
			logger.Warn("skipping unparsable theme", "path", path, "error", err)
			continue
		}
		logger.Debug("registered theme", "path", path)
	}
	return nil
}
