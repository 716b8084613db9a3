package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ckgxrg/dwsh/logger"
	"github.com/ckgxrg/dwsh/session"
	"github.com/ckgxrg/dwsh/status"
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the logout overlay: a status bar above one button per session
// action. It forwards every selection to the Selector and quits once an
// action has been executed.
type Model struct {
	selector     *session.Selector
	poller       *status.Poller
	capabilities map[session.Action]string
	th           Theme

	width  int
	height int
	layout layout

	quitting bool
}

// NewModel builds the overlay. poller and capabilities may be nil.
func NewModel(sel *session.Selector, p *status.Poller, capabilities map[session.Action]string) Model {
	return Model{
		selector:     sel,
		poller:       p,
		capabilities: capabilities,
		th:           defaultTheme(),
		layout:       newLayout(0, 0),
	}
}

// WithTheme returns a copy of m drawn with th.
func (m Model) WithTheme(th Theme) Model {
	m.th = th
	return m
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch t := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = t.Width
		m.height = t.Height
		m.layout = newLayout(t.Width, t.Height)
		return m, nil

	case tickMsg:
		return m, tickCmd()

	case tea.KeyMsg:
		if t.Type == tea.KeyCtrlC {
			logger.Info("[ui] interrupted, no action taken")
			m.quitting = true
			return m, tea.Quit
		}
		a, ok := session.IdentifyKey(keyName(t))
		if !ok {
			return m, nil
		}
		return m.selectAction(a)

	case tea.MouseMsg:
		if t.Action != tea.MouseActionRelease {
			return m, nil
		}
		// X10 mouse reporting does not say which button was released.
		if t.Button != tea.MouseButtonLeft && t.Button != tea.MouseButtonNone {
			return m, nil
		}
		return m.selectAction(m.layout.hitTest(t.X, t.Y))
	}

	return m, nil
}

func (m Model) selectAction(a session.Action) (tea.Model, tea.Cmd) {
	outcome := m.selector.Select(a)
	logger.Debug("[ui] %s -> %s", a.Name(), outcome)
	if outcome == session.OutcomeExecuted {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// keyName converts bubbletea key names to the X keysym spelling used by
// session.IdentifyKey.
func keyName(k tea.KeyMsg) string {
	if k.Type == tea.KeyEsc {
		return "Escape"
	}
	return k.String()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.th.Bar.Render(m.statusLine()))
	b.WriteString("\n")

	// label sits one row above the buttons, with a spacer in between
	for row := 1; row < m.layout.top-2; row++ {
		b.WriteString("\n")
	}
	b.WriteString(m.center(m.th.Label.Render(m.selector.Label())))
	b.WriteString("\n\n")

	pad := strings.Repeat(" ", m.layout.left)
	for _, line := range strings.Split(m.renderButtons(), "\n") {
		b.WriteString(pad + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.center(m.th.Hint.Render("press twice to confirm · esc to cancel")))
	return b.String()
}

func (m Model) statusLine() string {
	if m.poller == nil {
		return ""
	}
	s := m.poller.Snapshot()
	return fmt.Sprintf("%s  %s", status.FormatClock(s.Clock), status.FormatBattery(s.Battery))
}

func (m Model) renderButtons() string {
	parts := make([]string, 0, 2*len(session.Actions))
	gap := strings.Repeat(" ", buttonGap)
	for i, a := range session.Actions {
		if i > 0 {
			parts = append(parts, gap)
		}
		parts = append(parts, m.buttonStyle(a).Render(a.String()+"\n["+session.KeyFor(a)+"]"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) buttonStyle(a session.Action) lipgloss.Style {
	switch {
	case m.selector.IsArmed(a):
		return m.th.Armed
	case m.capabilities[a] == "no":
		return m.th.Disabled
	default:
		return m.th.Button
	}
}

func (m Model) center(s string) string {
	if m.width <= 0 {
		return s
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, s)
}
