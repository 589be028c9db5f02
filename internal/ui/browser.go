package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/audiovis/internal/media"
	"github.com/olivier-w/audiovis/internal/util"
)

// BrowserResult holds the outcome of the file browser.
type BrowserResult struct {
	Path      string
	Cancelled bool
}

type audioItem struct {
	name string
	ext  string
	size int64
}

func (i audioItem) Title() string { return i.name }
func (i audioItem) Description() string {
	format := strings.ToUpper(strings.TrimPrefix(i.ext, "."))
	if i.size < 0 {
		return format
	}
	return format + " · " + util.FormatSize(i.size)
}
func (i audioItem) FilterValue() string { return i.name }

// BrowserModel picks an audio file from the current directory.
type BrowserModel struct {
	list   list.Model
	result *BrowserResult
	err    error
}

// NewBrowser creates a file browser over the supported files in the current
// directory.
func NewBrowser() BrowserModel {
	entries, err := os.ReadDir(".")
	if err != nil {
		return BrowserModel{err: fmt.Errorf("cannot read directory: %w", err)}
	}

	var items []list.Item
	for _, e := range entries {
		if e.IsDir() || !media.IsSupportedPath(e.Name()) {
			continue
		}
		ext := filepath.Ext(e.Name())
		item := audioItem{name: strings.TrimSuffix(e.Name(), ext), ext: ext, size: -1}
		if info, err := e.Info(); err == nil {
			item.size = info.Size()
		}
		items = append(items, item)
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(accentLow).
		BorderLeftForeground(accentLow)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(dim).
		BorderLeftForeground(accentLow)

	l := list.New(items, delegate, 80, 20)
	l.Title = appName + " - pick a track"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	return BrowserModel{list: l}
}

// Error returns the initialization error, if any.
func (m BrowserModel) Error() error {
	return m.err
}

// Result returns the browser result after the program finishes.
func (m BrowserModel) Result() BrowserResult {
	if m.result != nil {
		return *m.result
	}
	return BrowserResult{Cancelled: true}
}

func (m BrowserModel) Init() tea.Cmd {
	if m.err != nil {
		return tea.Quit
	}
	return tea.SetWindowTitle(appName)
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// don't intercept keys while filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(audioItem); ok {
				m.result = &BrowserResult{Path: item.name + item.ext}
				return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
			}
		case "q", "esc", "ctrl+c":
			m.result = &BrowserResult{Cancelled: true}
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) View() string {
	if m.err != nil {
		return ""
	}
	return m.list.View()
}
