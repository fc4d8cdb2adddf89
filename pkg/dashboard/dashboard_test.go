package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midnightfront/pkg/countdown"
	"midnightfront/pkg/holidays"
	"midnightfront/pkg/refresh"
)

type stubSource struct {
	list []holidays.Holiday
	err  error
}

func (s stubSource) Upcoming(context.Context) ([]holidays.Holiday, error) {
	return s.list, s.err
}

func snap(seq uint64, local string) refresh.Snapshot {
	return refresh.Snapshot{
		Seq:       seq,
		At:        time.Date(2026, time.October, 15, 6, 0, 0, 0, time.UTC),
		Longitude: -90,
		Countdowns: []countdown.Entry{
			{Name: "Japan", Emblem: countdown.FlagEmoji("JP"), Timezone: "Asia/Tokyo", LocalTime: local, MillisUntilMidnight: 9 * 3600 * 1000},
		},
	}
}

func update(t *testing.T, m tea.Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestViewBeforeFirstSnapshot(t *testing.T) {
	m := New(context.Background(), func() {}, make(chan refresh.Snapshot), nil)

	assert.Equal(t, "computing midnight front...\n", m.View())
}

func TestSnapshotsFlowIntoView(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan refresh.Snapshot, 1)
	m := New(ctx, cancel, ch, nil)

	ch <- snap(1, "15:00")
	msg := m.Init()()
	require.IsType(t, snapshotMsg{}, msg)

	m, cmd := update(t, m, msg)
	require.NotNil(t, cmd)

	view := m.View()
	assert.Contains(t, view, "Midnight front: -90.00°")
	assert.Contains(t, view, "Japan (Tokyo)")
	assert.Contains(t, view, "Local Time:  15:00")
	assert.Contains(t, view, "T-minus:     9h 0m 0s")
	assert.NotContains(t, view, "h: toggle holidays")

	// The returned command waits for the next tick.
	ch <- snap(2, "15:01")
	m, _ = update(t, m, cmd())
	assert.Contains(t, m.View(), "Local Time:  15:01")
}

func TestWaitForSnapshotStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := New(ctx, cancel, make(chan refresh.Snapshot), nil)
	cancel()

	assert.Nil(t, m.waitForSnapshot()())
}

func TestHolidaysPanel(t *testing.T) {
	var outcomes []error
	source := stubSource{list: []holidays.Holiday{{Date: "2026-10-20", Name: "Revolution Day", CountryCode: "GT"}}}
	m := New(context.Background(), func() {}, make(chan refresh.Snapshot), source).
		OnHolidays(func(err error) { outcomes = append(outcomes, err) })

	m, _ = update(t, m, snapshotMsg(snap(1, "15:00")))
	assert.Contains(t, m.View(), "loading...")

	m, _ = update(t, m, m.fetchHolidays()())
	assert.Contains(t, m.View(), "Revolution Day")
	assert.Contains(t, m.View(), "h: toggle holidays")
	assert.Equal(t, []error{nil}, outcomes)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	assert.NotContains(t, m.View(), "Revolution Day")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	assert.Contains(t, m.View(), "Revolution Day")
}

func TestHolidaysFailureKeepsTicking(t *testing.T) {
	var outcomes []error
	fetchErr := errors.New("holidays unavailable: status 503")
	m := New(context.Background(), func() {}, make(chan refresh.Snapshot), stubSource{err: fetchErr}).
		OnHolidays(func(err error) { outcomes = append(outcomes, err) })

	m, _ = update(t, m, m.fetchHolidays()())
	m, _ = update(t, m, snapshotMsg(snap(1, "15:00")))

	view := m.View()
	assert.Contains(t, view, "Failed to load festivities")
	assert.Contains(t, view, "Japan (Tokyo)")
	assert.Equal(t, []error{fetchErr}, outcomes)
}

func TestQuitCancelsDriver(t *testing.T) {
	cancelled := false
	m := New(context.Background(), func() { cancelled = true }, make(chan refresh.Snapshot), nil)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	assert.True(t, cancelled)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
