package dashboard

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"midnightfront/pkg/holidays"
	"midnightfront/pkg/refresh"
	"midnightfront/pkg/render"
)

// HolidaysSource is the holidays collaborator the panel reads from.
type HolidaysSource interface {
	Upcoming(ctx context.Context) ([]holidays.Holiday, error)
}

type snapshotMsg refresh.Snapshot

type holidaysMsg struct {
	list []holidays.Holiday
	err  error
}

// Model is the live terminal view. It never computes anything itself; it
// only shows what the refresh driver publishes.
type Model struct {
	ctx       context.Context
	cancel    context.CancelFunc
	snapshots <-chan refresh.Snapshot

	source     HolidaysSource
	onHolidays func(error)

	report render.Report
	ready  bool
}

// New builds a model reading from snapshots. cancel is called on quit so the
// driver feeding snapshots stops too. A nil source hides the holidays panel.
func New(ctx context.Context, cancel context.CancelFunc, snapshots <-chan refresh.Snapshot, source HolidaysSource) Model {
	return Model{
		ctx:        ctx,
		cancel:     cancel,
		snapshots:  snapshots,
		source:     source,
		onHolidays: func(error) {},
		report:     render.Report{ShowHolidays: source != nil},
	}
}

// OnHolidays registers a hook run with the outcome of the holidays fetch.
func (m Model) OnHolidays(fn func(error)) Model {
	m.onHolidays = fn
	return m
}

func (m Model) Init() tea.Cmd {
	if m.source == nil {
		return m.waitForSnapshot()
	}
	return tea.Batch(m.waitForSnapshot(), m.fetchHolidays())
}

func (m Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case s := <-m.snapshots:
			return snapshotMsg(s)
		}
	}
}

func (m Model) fetchHolidays() tea.Cmd {
	return func() tea.Msg {
		list, err := m.source.Upcoming(m.ctx)
		return holidaysMsg{list: list, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.ready = true
		m.report.At = msg.At
		m.report.Longitude = msg.Longitude
		m.report.Countdowns = msg.Countdowns
		return m, m.waitForSnapshot()

	case holidaysMsg:
		m.onHolidays(msg.err)
		m.report.HolidaysErr = msg.err
		m.report.Holidays = msg.list
		if msg.err == nil && msg.list == nil {
			m.report.Holidays = []holidays.Holiday{}
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		case "h":
			if m.source != nil {
				m.report.ShowHolidays = !m.report.ShowHolidays
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "computing midnight front...\n"
	}

	var b strings.Builder
	_ = render.Text(&b, m.report)
	b.WriteString("\n")
	if m.source != nil {
		b.WriteString("h: toggle holidays  ")
	}
	b.WriteString("q: quit\n")
	return b.String()
}
