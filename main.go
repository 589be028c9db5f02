package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/audiovis/internal/config"
	"github.com/olivier-w/audiovis/internal/media"
	"github.com/olivier-w/audiovis/internal/ui"
)

// logEnv names the file that receives debug logs. Logging is off otherwise
// since the TUI owns the terminal.
const logEnv = "AUDIOVIS_LOG"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("audiovis", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath, `config file, or "default" for the built-in settings`)
	generate := fs.Bool("generate-config", false, "write "+config.GeneratedName+" to the current directory and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: audiovis [-config path|default] [-generate-config] [audio file]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *generate {
		path, err := config.WriteDefault(".")
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	}

	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	var path string
	if fs.NArg() == 0 {
		selected, cancelled, err := browse()
		if err != nil || cancelled {
			return err
		}
		path = selected
	} else {
		path = fs.Arg(0)
		if err := checkInput(path); err != nil {
			return err
		}
	}

	return play(cfg, path)
}

func setupLogging() (func(), error) {
	name := os.Getenv(logEnv)
	if name == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(name, "audiovis")
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	slog.SetLogLoggerLevel(slog.LevelDebug)
	return func() { f.Close() }, nil
}

func browse() (string, bool, error) {
	browser := ui.NewBrowser()
	p := tea.NewProgram(browser, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return "", false, err
	}

	bm, ok := finalModel.(ui.BrowserModel)
	if !ok {
		return "", false, errors.New("unexpected model type from browser")
	}
	if err := bm.Error(); err != nil {
		return "", false, err
	}
	result := bm.Result()
	return result.Path, result.Cancelled, nil
}

func checkInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !media.IsSupportedExt(ext) {
		return fmt.Errorf("unsupported format %s (supported: %s)", ext, media.SupportedExtsList())
	}
	return nil
}
