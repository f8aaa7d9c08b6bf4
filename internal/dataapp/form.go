package dataapp

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// field is one labelled input of a form.
type field struct {
	label    string
	required bool
	input    textinput.Model
}

// form collects the arguments for one action's procedure call.
type form struct {
	action  Action
	fields  []field
	focused int
}

func newField(label string, required bool) field {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 256
	in.Width = 40
	return field{label: label, required: required, input: in}
}

// newForm builds the form for action. Field order matches the procedure's
// argument order.
func newForm(action Action) *form {
	f := &form{action: action}
	switch action {
	case ActionAdd:
		f.fields = []field{
			newField("Full name", true),
			newField("Phone number", true),
			newField("Note", false),
		}
	case ActionUpdate:
		f.fields = []field{
			newField("Phone number to update", true),
			newField("Full name", true),
			newField("New phone number", true),
			newField("Note", false),
		}
	case ActionDelete:
		f.fields = []field{
			newField("Phone number to delete", true),
		}
	case ActionSearch:
		f.fields = []field{
			newField("Full name or phone number", true),
		}
	case ActionView:
		table := newField("Table", true)
		table.input.SetValue(types.TableContacts)
		f.fields = []field{table}
	}
	return f
}

// values returns the trimmed field values in argument order.
func (f *form) values() []string {
	vals := make([]string, len(f.fields))
	for i, fl := range f.fields {
		vals[i] = strings.TrimSpace(fl.input.Value())
	}
	return vals
}

// complete reports whether every required field has a value.
func (f *form) complete() bool {
	for i, v := range f.values() {
		if f.fields[i].required && v == "" {
			return false
		}
	}
	return true
}

// last reports whether the focused field is the final one.
func (f *form) last() bool {
	return f.focused == len(f.fields)-1
}

// focus moves input focus to field i, clamped to the form.
func (f *form) focus(i int) tea.Cmd {
	if i < 0 {
		i = 0
	}
	if i >= len(f.fields) {
		i = len(f.fields) - 1
	}
	for j := range f.fields {
		f.fields[j].input.Blur()
	}
	f.focused = i
	return f.fields[i].input.Focus()
}

// blur removes focus from every field.
func (f *form) blur() {
	for j := range f.fields {
		f.fields[j].input.Blur()
	}
}

// reset clears the inputs after a successful write. The view form keeps its
// table name.
func (f *form) reset() {
	if f.action == ActionView {
		return
	}
	for j := range f.fields {
		f.fields[j].input.Reset()
	}
	f.focus(0)
}

// update forwards msg to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focused].input, cmd = f.fields[f.focused].input.Update(msg)
	return cmd
}

func (f *form) view() string {
	var b strings.Builder
	for _, fl := range f.fields {
		label := fl.label
		if fl.required {
			label += " *"
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteByte('\n')
		b.WriteString(fl.input.View())
		b.WriteString("\n\n")
	}
	return b.String()
}
