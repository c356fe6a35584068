package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/edwinhayes/zteleop/teleop"
)

var keyDirections = map[rune]teleop.Direction{
	'w': teleop.Forward,
	's': teleop.Backward,
	'a': teleop.Left,
	'd': teleop.Right,
	'x': teleop.Stop,
	' ': teleop.Stop,
}

// batteryMsg carries a charge level from the battery subscription.
type batteryMsg int

// keyModel maps key presses onto the session.
type keyModel struct {
	session   *teleop.Session
	namespace string
	logger    *logrus.Entry
	battery   int
	status    string
}

func newKeyModel(session *teleop.Session, namespace string, logger *logrus.Entry) keyModel {
	return keyModel{
		session:   session,
		namespace: namespace,
		logger:    logger,
		battery:   -1,
		status:    "stopped",
	}
}

func (m keyModel) Init() tea.Cmd {
	return nil
}

func (m keyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case batteryMsg:
		m.battery = int(msg)
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeySpace:
			m.press(' ')
		case tea.KeyRunes:
			// a fast typist or a pipe can deliver several keys at once
			for _, r := range msg.Runes {
				if r == 'q' {
					return m, tea.Quit
				}
				m.press(r)
			}
		}
	}
	return m, nil
}

func (m *keyModel) press(r rune) {
	if d, ok := keyDirections[r]; ok {
		m.session.Controller().Press(d)
		m.status = d.String()
		return
	}
	switch r {
	case 'b':
		if err := m.session.PlaySound(); err != nil {
			m.logger.WithError(err).Warn("sound failed")
			m.status = "sound failed"
			return
		}
		m.status = "beep"
	case 'k':
		id, err := m.session.Dock()
		if err != nil {
			m.logger.WithError(err).Warn("dock failed")
			m.status = "dock failed"
			return
		}
		m.status = "docking " + id.String()[:8]
	default:
		m.status = fmt.Sprintf("unknown key %q", r)
	}
}

func (m keyModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "zteleop %s\n", m.namespace)
	if m.battery < 0 {
		b.WriteString("battery  --\n")
	} else {
		fmt.Fprintf(&b, "battery  %d%%\n", m.battery)
	}
	cmd := m.session.Controller().Command()
	fmt.Fprintf(&b, "command  linear %+.2f  angular %+.2f  (%s)\n", cmd.Linear.X, cmd.Angular.Z, m.status)
	b.WriteString("\nw/s/a/d move, space stops, b beeps, k docks, q quits\n")
	return b.String()
}
