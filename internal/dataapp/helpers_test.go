package dataapp

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// fakeCall is one recorded procedure invocation.
type fakeCall struct {
	name string
	args []any
}

// fakeCaller records calls and answers from a per-procedure table.
type fakeCaller struct {
	mu      sync.Mutex
	calls   []fakeCall
	results map[string][]types.Record
	errs    map[string]error
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{
		results: map[string][]types.Record{},
		errs:    map[string]error{},
	}
}

func (f *fakeCaller) Call(_ context.Context, name string, args ...any) ([]types.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{name: name, args: args})
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	return f.results[name], nil
}

func (f *fakeCaller) recorded() []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fakeCall(nil), f.calls...)
}

func newSizedModel(caller types.Caller, w, h int) Model {
	m := NewModel(context.Background(), caller)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(Model)
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	updated, cmd := m.Update(tea.KeyMsg{Type: k})
	return updated.(Model), cmd
}

func typeText(m Model, s string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return updated.(Model)
}

// fillAndSubmit opens the selected action's form, types one value per field
// and presses enter after each. Returns the model and the submit command.
func fillAndSubmit(m Model, values ...string) (Model, tea.Cmd) {
	m, _ = press(m, tea.KeyEnter)
	var cmd tea.Cmd
	for _, v := range values {
		if v != "" {
			m = typeText(m, v)
		}
		m, cmd = press(m, tea.KeyEnter)
	}
	return m, cmd
}

// runResult executes a submit command and feeds its message back to the model.
func runResult(m Model, cmd tea.Cmd) Model {
	updated, _ := m.Update(cmd())
	return updated.(Model)
}
