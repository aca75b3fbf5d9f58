package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user interrupts the progress display.
var ErrCancelled = errors.New("cancelled by user")

// ProgressFunc adapts a progress channel to the bulk ingestion callback.
// Updates are dropped while the channel is full; the final count is always
// implied by closing the channel.
func ProgressFunc(ch chan<- int) func(done, total int) {
	return func(done, _ int) {
		select {
		case ch <- done:
		default:
			// Channel full, skip this update
		}
	}
}

// progressMsg is sent when progress updates
type progressMsg int

// tickMsg is sent periodically to refresh the UI
type tickMsg time.Time

// progressModel is the Bubble Tea model for showing ingestion progress
type progressModel struct {
	progress   progress.Model
	total      int
	current    int
	label      string
	done       bool
	cancelled  bool
	progressCh <-chan int
	cancel     func()
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		waitForProgress(m.progressCh),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForProgress(ch <-chan int) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return progressMsg(-1)
		}
		return progressMsg(n)
	}
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "esc" {
			m.done = true
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tickMsg:
		if m.done {
			return m, tea.Quit
		}
		return m, tickCmd()

	case progressMsg:
		if int(msg) == -1 {
			m.done = true
			return m, tea.Quit
		}
		m.current = int(msg)
		return m, waitForProgress(m.progressCh)

	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-20, 80)
		return m, nil
	}

	return m, nil
}

func (m progressModel) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return float64(m.current) / float64(m.total)
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf(
		"%s\n%s\n%d / %d inputs (%.0f%%)\n%s\n",
		m.label,
		m.progress.ViewAs(m.percent()),
		m.current,
		m.total,
		m.percent()*100,
		StyleHelp.Render("esc to stop after the current chunk"),
	)
}

// ShowProgress displays a progress bar until progressCh is closed. Pressing
// ctrl+c or esc calls cancel and returns ErrCancelled; the caller's work
// then stops at its next chunk boundary.
func ShowProgress(label string, total int, progressCh <-chan int, cancel func()) error {
	m := progressModel{
		progress:   progress.New(progress.WithDefaultGradient()),
		total:      total,
		label:      label,
		progressCh: progressCh,
		cancel:     cancel,
	}

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	if fm, ok := finalModel.(progressModel); ok && fm.cancelled {
		return ErrCancelled
	}
	return nil
}
