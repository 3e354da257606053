// Package tui renders a live terminal view of a running session: progress
// counters, goal states, and a rolling event log.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/crucible/pkg/session"
)

const maxLogLines = 12

// Model is the bubbletea model for session monitoring.
type Model struct {
	events  <-chan session.Event
	spinner spinner.Model

	stats    session.Stats
	log      []string
	finished bool
	reason   string
	width    int
}

// New creates a model consuming the given driver event stream.
func New(events <-chan session.Event) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = headerStyle
	return Model{
		events:  events,
		spinner: sp,
	}
}

// eventMsg wraps a driver event for the bubbletea update loop.
type eventMsg session.Event

// channelClosedMsg signals the driver has stopped emitting.
type channelClosedMsg struct{}

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return channelClosedMsg{}
		}
		return eventMsg(ev)
	}
}

// Init starts the spinner and the event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

// Update handles events, key presses, and spinner ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case eventMsg:
		m.apply(session.Event(msg))
		if m.finished {
			return m, tea.Quit
		}
		return m, m.waitForEvent()

	case channelClosedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// apply folds one driver event into the view state.
func (m *Model) apply(ev session.Event) {
	m.stats = ev.Stats

	switch ev.Type {
	case session.EventAttempt:
		m.push(eventStyle.Render(fmt.Sprintf("trying %s", ev.Pair)))
	case session.EventOutcome:
		if ev.Result == "" {
			m.push(eventStyle.Render(fmt.Sprintf("%s had no effect", ev.Pair)))
		} else {
			m.push(statStyle.Render(fmt.Sprintf("%s → %s", ev.Pair, ev.Result)))
		}
	case session.EventDiscovery:
		m.push(discoveryStyle.Render(fmt.Sprintf("✨ discovered %s", ev.Result)))
	case session.EventGoal:
		m.push(goalStyle.Render(fmt.Sprintf("🎯 goal achieved: %s", ev.Result)))
	case session.EventWarning:
		m.push(warningStyle.Render(fmt.Sprintf("⚠ %s", ev.Message)))
	case session.EventFinished:
		m.finished = true
		m.reason = ev.Message
	}
}

func (m *Model) push(line string) {
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("crucible"))
	if m.finished {
		b.WriteString(labelStyle.Render("  session " + m.reason))
	} else {
		b.WriteString("  " + m.spinner.View())
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s\n",
		labelStyle.Render("elements"),
		statStyle.Render(fmt.Sprintf("%d", m.stats.Inventory)),
		labelStyle.Render("attempts"),
		statStyle.Render(fmt.Sprintf("%d", m.stats.Attempts)),
		labelStyle.Render("discoveries"),
		statStyle.Render(fmt.Sprintf("%d", m.stats.Discoveries)),
		labelStyle.Render("reward"),
		statStyle.Render(fmt.Sprintf("%d", m.stats.Reward)),
	))
	b.WriteString(fmt.Sprintf("%s %s\n\n",
		labelStyle.Render("goals"),
		goalStyle.Render(fmt.Sprintf("%d/%d", m.stats.GoalsAchieved, m.stats.GoalsTotal)),
	))

	for _, line := range m.log {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statusBarStyle.Render("q to quit"))
	return b.String()
}
