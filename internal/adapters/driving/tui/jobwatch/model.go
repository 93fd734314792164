// Package jobwatch renders a live view of a batch job while it is polled.
package jobwatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xxiswajung/LitSummarizer/internal/adapters/driving/tui/keymap"
	"github.com/xxiswajung/LitSummarizer/internal/adapters/driving/tui/messages"
	"github.com/xxiswajung/LitSummarizer/internal/adapters/driving/tui/styles"
	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driving"
)

// ErrDetached is returned when the user stops watching before the job ends.
var ErrDetached = errors.New("detached from job")

// progressWidth is the number of cells in the request progress bar.
const progressWidth = 24

// WaitFunc blocks until the job ends, reporting each observed state.
type WaitFunc func(ctx context.Context, onUpdate driving.JobUpdateFunc) (*domain.Job, error)

// CancelFunc asks the service to cancel a job.
type CancelFunc func(ctx context.Context, jobID string) (*domain.Job, error)

// Model is the Bubbletea model for the job watch view.
type Model struct {
	ctx    context.Context
	stop   context.CancelFunc
	title  string
	wait   WaitFunc
	cancel CancelFunc

	styles  *styles.Styles
	keymap  *keymap.KeyMap
	spinner spinner.Model
	updates chan domain.Job

	job        *domain.Job
	polls      int
	err        error
	cancelErr  error
	finished   bool
	detached   bool
	cancelling bool
}

// New creates a job watch model. cancel may be nil, which disables the cancel key.
func New(ctx context.Context, title string, wait WaitFunc, cancel CancelFunc) *Model {
	ctx, stop := context.WithCancel(ctx)

	s := styles.DefaultStyles()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Spinner

	return &Model{
		ctx:     ctx,
		stop:    stop,
		title:   title,
		wait:    wait,
		cancel:  cancel,
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		spinner: sp,
		updates: make(chan domain.Job, 8),
	}
}

// Init starts the spinner, the wait and the update listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startWait(), m.listen())
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case messages.JobUpdated:
		job := msg.Job
		m.job = &job
		m.polls++
		return m, m.listen()

	case messages.CancelRequested:
		return m, m.requestCancel()

	case messages.CancelCompleted:
		m.cancelling = false
		m.cancelErr = msg.Err
		if msg.Job != nil {
			m.job = msg.Job
		}
		return m, nil

	case messages.WaitFinished:
		m.finished = true
		m.err = msg.Err
		if msg.Job != nil {
			m.job = msg.Job
		}
		m.stop()
		return m, tea.Quit

	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), m.keymap.Quit):
		m.detached = true
		m.stop()
		return m, tea.Quit
	case keymap.Matches(msg.String(), m.keymap.Cancel):
		if m.cancel == nil || m.cancelling || m.job == nil {
			return m, nil
		}
		return m, func() tea.Msg { return messages.CancelRequested{} }
	}
	return m, nil
}

// View renders the job state.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n")

	switch {
	case m.finished && m.err == nil:
		b.WriteString(m.styles.Success.Render("✓ ") + m.statusLine())
	case m.finished:
		b.WriteString(m.styles.Error.Render("✗ ") + m.statusLine())
		b.WriteString("\n" + m.styles.Error.Render(m.err.Error()))
	default:
		b.WriteString(m.spinner.View() + " " + m.statusLine())
	}

	if m.cancelling {
		b.WriteString("\n" + m.styles.Warning.Render("Cancelling..."))
	}
	if m.cancelErr != nil {
		b.WriteString("\n" + m.styles.Error.Render("Cancel failed: "+m.cancelErr.Error()))
	}

	if !m.finished {
		b.WriteString("\n" + m.helpLine())
	}
	b.WriteString("\n")

	return b.String()
}

// Job returns the last observed job state.
func (m *Model) Job() *domain.Job {
	return m.job
}

// Err returns the wait error, if the wait has finished.
func (m *Model) Err() error {
	return m.err
}

// Detached reports whether the user stopped watching.
func (m *Model) Detached() bool {
	return m.detached
}

func (m *Model) statusLine() string {
	if m.job == nil {
		return m.styles.Muted.Render("Waiting for first status...")
	}

	job := m.job
	line := m.styles.JobStatus(job.Status).Render(job.Status.String())
	line += m.styles.Muted.Render(fmt.Sprintf("  %s", job.ID))
	if job.RequestCounts.Total > 0 {
		line += "  " + m.styles.Progress(job.RequestCounts.Completed, job.RequestCounts.Total, progressWidth)
		line += m.styles.Normal.Render(fmt.Sprintf("  %d/%d requests done",
			job.RequestCounts.Completed, job.RequestCounts.Total))
		if job.RequestCounts.Failed > 0 {
			line += m.styles.Warning.Render(fmt.Sprintf(", %d failed", job.RequestCounts.Failed))
		}
	}
	line += m.styles.Muted.Render(fmt.Sprintf("  (polls: %d)", m.polls))
	return line
}

func (m *Model) helpLine() string {
	bindings := m.keymap.ShortHelp()
	if m.cancel == nil {
		bindings = bindings[:1]
	}
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return m.styles.Help.Render(strings.Join(hints, " | "))
}

// startWait runs the wait and closes the update channel when it returns.
func (m *Model) startWait() tea.Cmd {
	return func() tea.Msg {
		job, err := m.wait(m.ctx, func(j domain.Job) {
			select {
			case m.updates <- j:
			case <-m.ctx.Done():
			}
		})
		close(m.updates)
		return messages.WaitFinished{Job: job, Err: err}
	}
}

// listen delivers the next update, or nothing once the wait has returned.
func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		job, ok := <-m.updates
		if !ok {
			return nil
		}
		return messages.JobUpdated{Job: job}
	}
}

func (m *Model) requestCancel() tea.Cmd {
	if m.cancel == nil || m.job == nil {
		return nil
	}
	m.cancelling = true
	id := m.job.ID
	return func() tea.Msg {
		job, err := m.cancel(m.ctx, id)
		return messages.CancelCompleted{Job: job, Err: err}
	}
}

// Run shows the view until the wait returns or the user detaches.
// A detached watch returns the last observed job and ErrDetached.
func Run(ctx context.Context, title string, wait WaitFunc, cancel CancelFunc, opts ...tea.ProgramOption) (*domain.Job, error) {
	m := New(ctx, title, wait, cancel)

	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("job watch: %w", err)
	}

	fm, ok := final.(*Model)
	if !ok {
		return nil, fmt.Errorf("job watch: unexpected model %T", final)
	}
	if fm.Detached() {
		return fm.Job(), ErrDetached
	}
	return fm.Job(), fm.Err()
}
