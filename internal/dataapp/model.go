// Package dataapp implements the interactive phonebook data app: a sidebar
// of actions, a form per action, and a result area. Every submission makes
// exactly one stored-procedure call through a types.Caller.
package dataapp

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// Focus identifies which pane receives key presses.
type Focus int

const (
	FocusMenu Focus = iota
	FocusForm
)

// Model is the root Bubble Tea model for the data app.
type Model struct {
	ctx    context.Context
	caller types.Caller

	cursor int
	focus  Focus
	forms  []*form
	busy   bool

	statusKind int
	statusText string
	changes    string

	results     table.Model
	showResults bool

	width    int
	height   int
	help     help.Model
	menuKeys menuKeys
	formKeys formKeys
}

// NewModel creates a data app Model with the sidebar focused on the first
// action. Procedure calls made by the model use ctx.
func NewModel(ctx context.Context, caller types.Caller) Model {
	forms := make([]*form, len(actionTitles))
	for i := range actionTitles {
		forms[i] = newForm(Action(i))
	}
	return Model{
		ctx:      ctx,
		caller:   caller,
		focus:    FocusMenu,
		forms:    forms,
		results:  newResultsTable(),
		help:     help.New(),
		menuKeys: MenuKeyMap(),
		formKeys: FormKeyMap(),
	}
}

// Run starts the data app on the current terminal and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, caller types.Caller) error {
	p := tea.NewProgram(NewModel(ctx, caller), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Selected returns the action under the sidebar cursor.
func (m Model) Selected() Action {
	return Action(m.cursor)
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case resultMsg:
		return m.handleResult(msg), nil

	case tea.KeyMsg:
		if m.focus == FocusMenu {
			return m.handleMenuKey(msg)
		}
		return m.handleFormKey(msg)
	}

	return m, nil
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.menuKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.menuKeys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.clearOutput()
		}
	case key.Matches(msg, m.menuKeys.Down):
		if m.cursor < len(m.forms)-1 {
			m.cursor++
			m.clearOutput()
		}
	case key.Matches(msg, m.menuKeys.Select):
		m.focus = FocusForm
		return m, m.forms[m.cursor].focus(0)
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.forms[m.cursor]
	switch {
	case key.Matches(msg, m.formKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.formKeys.Back):
		f.blur()
		m.focus = FocusMenu
		return m, nil
	case key.Matches(msg, m.formKeys.Next):
		return m, f.focus((f.focused + 1) % len(f.fields))
	case key.Matches(msg, m.formKeys.Prev):
		return m, f.focus((f.focused - 1 + len(f.fields)) % len(f.fields))
	case key.Matches(msg, m.formKeys.Submit):
		if !f.last() {
			return m, f.focus(f.focused + 1)
		}
		return m.submit()
	}
	return m, f.update(msg)
}

// submit validates the focused form and issues its procedure call.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	f := m.forms[m.cursor]
	m.clearOutput()
	if !f.complete() {
		m.statusKind = statusError
		m.statusText = msgRequired
		return m, nil
	}
	m.busy = true
	return m, call(m.ctx, m.caller, f.action, f.values())
}

func (m Model) handleResult(msg resultMsg) Model {
	m.busy = false
	m.statusKind = msg.kind
	m.statusText = msg.text
	m.changes = msg.changes
	m.showResults = msg.rows != nil
	if m.showResults {
		m.results.SetRows(contactRows(msg.rows))
		m.results.SetHeight(min(len(msg.rows)+1, m.tableHeight()))
	}
	if msg.kind == statusSuccess {
		switch msg.action {
		case ActionAdd, ActionUpdate, ActionDelete:
			m.forms[msg.action].reset()
		}
	}
	return m
}

func (m *Model) clearOutput() {
	m.statusKind = statusNone
	m.statusText = ""
	m.changes = ""
	m.showResults = false
}

// contentHeight returns the usable height for pane content,
// accounting for border chrome and the help bar.
func (m Model) contentHeight() int {
	h := m.height - borderChrome - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// tableHeight bounds the results table to the space left under the form.
func (m Model) tableHeight() int {
	if m.height == 0 {
		return 10
	}
	return max(m.contentHeight()/2, 3)
}

// View renders the sidebar and the selected action's pane with a help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	leftStyle, rightStyle := FocusedBorder(), UnfocusedBorder()
	if m.focus == FocusForm {
		leftStyle, rightStyle = UnfocusedBorder(), FocusedBorder()
	}
	leftStyle = leftStyle.Width(max(leftWidth-borderChrome, 0)).Height(contentHeight)
	rightStyle = rightStyle.Width(max(rightWidth-borderChrome, 0)).Height(contentHeight)

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		leftStyle.Render(m.viewMenu()),
		rightStyle.Render(m.viewContent()),
	)

	var helpView string
	if m.focus == FocusMenu {
		helpView = m.help.View(m.menuKeys)
	} else {
		helpView = m.help.View(m.formKeys)
	}
	return lipgloss.JoinVertical(lipgloss.Left, panes, helpView)
}

func (m Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Phonebook"))
	b.WriteString("\n\n")
	for i, title := range actionTitles {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + title))
		} else {
			b.WriteString("  " + title)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) viewContent() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.Selected().String()))
	b.WriteString("\n\n")
	b.WriteString(m.forms[m.cursor].view())

	if m.busy {
		b.WriteString(labelStyle.Render("Working..."))
		b.WriteByte('\n')
	}
	if m.statusText != "" {
		b.WriteString(statusStyle(m.statusKind).Render(m.statusText))
		b.WriteByte('\n')
	}
	if m.changes != "" {
		b.WriteString(m.changes)
		b.WriteByte('\n')
	}
	if m.showResults {
		b.WriteByte('\n')
		b.WriteString(m.results.View())
	}
	return b.String()
}

func statusStyle(kind int) lipgloss.Style {
	switch kind {
	case statusSuccess:
		return successStyle
	case statusWarning:
		return warningStyle
	case statusError:
		return errorStyle
	default:
		return labelStyle
	}
}

// newResultsTable builds the read-only table used for search and view
// results, with columns in contacts-table order.
func newResultsTable() table.Model {
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "contact_id", Width: 10},
			{Title: "full_name", Width: 24},
			{Title: "phone_number", Width: 18},
			{Title: "note", Width: 24},
		}),
		table.WithHeight(10),
	)
}

func contactRows(contacts []types.Contact) []table.Row {
	rows := make([]table.Row, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, table.Row{fmt.Sprint(c.ID), c.FullName, c.PhoneNumber, c.Note})
	}
	return rows
}
