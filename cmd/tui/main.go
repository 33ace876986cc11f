package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"finderqr/internal/config"
	"finderqr/internal/export"
	"finderqr/internal/tui"
)

func main() {
	var (
		configFile = flag.String("config", os.Getenv("CONFIG_FILE"), "Path to form config YAML (optional)")
		logFile    = flag.String("log", "", "Write debug logs to this file")
		outDir     = flag.String("out", ".", "Directory for printed QR images")
	)
	flag.Parse()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Usage: tui [-config form.yaml] [-log tui.log] [-out dir]")
		fmt.Fprintln(os.Stderr, "tui needs an interactive terminal")
		os.Exit(1)
	}

	if err := run(*configFile, *logFile, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, logFile, outDir string) error {
	formCfg := config.DefaultFormConfig()
	if configFile != "" {
		var err error
		if formCfg, err = config.LoadFormConfigFile(configFile); err != nil {
			return err
		}
	}

	logger, err := newLogger(logFile)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	model := tui.New(tui.Options{
		Defaults: formCfg.DefaultRecord(),
		Renderer: formCfg.NewEncoder(),
		Printer:  export.NewFilePrinter(outDir),
		Sharer:   export.NewClipboardSharer(),
		Content:  formCfg.Content(),
		Size:     formCfg.ImageSize(),
		Logger:   logger,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// newLogger logs to a file, since the terminal belongs to the UI.
// Without a path, logging is discarded.
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
