package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rivo/tview"

	app "github.com/rocketscienceinc/tictactoe-history/internal"
	"github.com/rocketscienceinc/tictactoe-history/internal/config"
	"github.com/rocketscienceinc/tictactoe-history/internal/tui"
)

// main - runs the terminal client. Logs go to a file since tview owns the terminal.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	conf := config.MustLoad(filepath.Join(baseDir, "./config.yml"))

	logFile, err := os.OpenFile(conf.TUI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		panic(fmt.Errorf("failed to open log file: %w", err))
	}
	defer logFile.Close()

	logger := app.NewLogger(logFile, conf.LogLevel)

	if err = tui.New(logger, tview.NewApplication()).Run(); err != nil {
		panic(fmt.Errorf("tui run failed: %w", err))
	}
}
