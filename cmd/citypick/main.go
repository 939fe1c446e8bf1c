package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"citypick/internal/config"
	"citypick/internal/domain"
	"citypick/internal/eventbus"
	"citypick/internal/geo"
	"citypick/internal/geo/sqlite"
	"citypick/internal/metrics"
	"citypick/internal/ui"
)

// errCancelled reports a picker closed without committing
var errCancelled = errors.New("cancelled")

type flags struct {
	config      string
	db          string
	dataset     string
	size        int
	title       string
	layout      string
	defaults    string
	metricsAddr string
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("citypick", flag.ContinueOnError)
	fs.StringVar(&f.config, "config", "", "Config file (default $CITYPICK_CONFIG or ~/.config/citypick/config.toml)")
	fs.StringVar(&f.db, "db", "", "SQLite database path")
	fs.StringVar(&f.dataset, "dataset", "", "TOML dataset used to seed an empty database")
	fs.IntVar(&f.size, "size", 0, "Maximum number of selections (1 is single-select)")
	fs.StringVar(&f.title, "title", "", "Picker heading")
	fs.StringVar(&f.layout, "layout", "", "popup or fullscreen")
	fs.StringVar(&f.defaults, "default", "", "Comma-separated initial selection")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	return f, nil
}

// apply overrides config values with the flags that were given
func (f flags) apply(cfg *config.Config) {
	if f.db != "" {
		cfg.Database.Path = f.db
	}
	if f.dataset != "" {
		cfg.Database.Dataset = f.dataset
	}
	if f.size > 0 {
		cfg.Picker.Size = f.size
	}
	if f.title != "" {
		cfg.Picker.Title = f.title
	}
	if f.layout != "" {
		cfg.Picker.Layout = f.layout
	}
	if f.metricsAddr != "" {
		cfg.Metrics.Addr = f.metricsAddr
	}
}

func parseCodes(s string) []domain.Code {
	var codes []domain.Code
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			codes = append(codes, domain.Code(part))
		}
	}
	return codes
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	configSvc := config.NewConfigService(f.config)
	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	f.apply(cfg)

	// Set up logging
	logger, closeLog := setupLogging(cfg.Log)
	defer closeLog()
	slog.SetDefault(logger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	codes, err := run(ctx, cfg, parseCodes(f.defaults), logger)
	switch {
	case errors.Is(err, errCancelled):
		os.Exit(1)
	case err != nil:
		logger.Error("citypick failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = c.String()
	}
	if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
		os.Exit(1)
	}
}

func setupLogging(lc config.LogConfig) (*slog.Logger, func()) {
	level, err := lc.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if lc.Path != "" {
		logFile, err := os.OpenFile(lc.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
		} else {
			w = logFile
			closeFn = func() { _ = logFile.Close() }
		}
	}
	return slog.New(slog.NewTextHandler(w, opts)), closeFn
}

func openStore(ctx context.Context, dc config.DatabaseConfig, logger *slog.Logger) (*sqlite.Store, error) {
	if err := os.MkdirAll(filepath.Dir(dc.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	if err := sqlite.Migrate(dc.Path); err != nil {
		return nil, err
	}
	store, err := sqlite.Open(dc.Path, logger)
	if err != nil {
		return nil, err
	}

	ds, err := sqlite.DefaultDataset()
	if dc.Dataset != "" {
		ds, err = sqlite.LoadDataset(dc.Dataset)
	}
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if _, err := store.Seed(ctx, ds); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func run(ctx context.Context, cfg *config.Config, initial []domain.Code, logger *slog.Logger) ([]domain.Code, error) {
	layout, err := ui.ParseLayout(cfg.Picker.Layout)
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	// Create event bus
	bus := eventbus.New(logger)
	defer bus.Close()
	defer eventbus.LogEvents(bus, logger)()

	m := metrics.New()
	defer m.Subscribe(bus)()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	api := geo.NewInstrumented(store, m, logger)

	// Create UI model
	model := ui.NewModel(api, bus, ui.Options{
		Title:          cfg.Picker.Title,
		Size:           cfg.Picker.Size,
		DefaultValue:   initial,
		Layout:         layout,
		ShowSelected:   cfg.Picker.ShowSelected,
		QuitOnDone:     true,
		Tabs:           cfg.Tabs,
		DebounceWindow: cfg.Picker.Debounce,
		Logger:         logger,
		Context:        ctx,
	})

	// The TUI draws on stderr so stdout carries only the result
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	model.SetProgram(p)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, fmt.Errorf("error running program: %w", err)
	}
	if !model.Committed() {
		return nil, errCancelled
	}
	return model.Result(), nil
}
