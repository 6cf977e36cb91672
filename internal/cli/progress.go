package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const progressBarWidth = 30

var (
	styleBarDone = lipgloss.NewStyle().Foreground(colorCyan)
	styleBarTodo = lipgloss.NewStyle().Foreground(colorDim)
)

type progressMsg struct{ done, total int }

type progressDoneMsg struct{}

// progressModel is the bubbletea model for the license lookup progress bar.
type progressModel struct {
	title       string
	done, total int
	finished    bool
	interrupted bool
}

func newProgressModel(title string) progressModel {
	return progressModel{title: title}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.done, m.total = msg.done, msg.total
	case progressDoneMsg:
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.interrupted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.finished || m.interrupted {
		return ""
	}
	filled := 0
	if m.total > 0 {
		filled = progressBarWidth * m.done / m.total
	}
	bar := styleBarDone.Render(strings.Repeat("█", filled)) +
		styleBarTodo.Render(strings.Repeat("░", progressBarWidth-filled))
	return fmt.Sprintf("%s %s %s\n", bar,
		StyleNumber.Render(fmt.Sprintf("%d/%d", m.done, m.total)),
		StyleDim.Render(m.title))
}

// withProgress runs fn while drawing a progress bar on w. fn reports
// progress through the callback it receives. When w is not a terminal, fn
// runs with a nil callback and nothing is drawn.
func withProgress(ctx context.Context, w io.Writer, title string, fn func(ctx context.Context, onProgress func(done, total int)) error) error {
	if !isTerminal(w) {
		return fn(ctx, nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(title), tea.WithOutput(w), tea.WithContext(ctx))
	errc := make(chan error, 1)
	go func() {
		errc <- fn(ctx, func(done, total int) { p.Send(progressMsg{done, total}) })
		p.Send(progressDoneMsg{})
	}()

	final, _ := p.Run()
	if m, ok := final.(progressModel); ok && m.interrupted {
		cancel()
	}
	return <-errc
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
