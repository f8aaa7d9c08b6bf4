package dataapp

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// describeChanges renders one line per changed field, marking removed text
// as [-old-] and inserted text as {+new+}. Returns "" when nothing changed.
func describeChanges(before, after types.Contact) string {
	fields := []struct {
		name     string
		old, new string
	}{
		{"full_name", before.FullName, after.FullName},
		{"phone_number", before.PhoneNumber, after.PhoneNumber},
		{"note", before.Note, after.Note},
	}

	dmp := diffmatchpatch.New()
	var lines []string
	for _, f := range fields {
		if f.old == f.new {
			continue
		}
		diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(f.old, f.new, false))
		var b strings.Builder
		for _, d := range diffs {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				b.WriteString(deleteStyle.Render("[-" + d.Text + "-]"))
			case diffmatchpatch.DiffInsert:
				b.WriteString(insertStyle.Render("{+" + d.Text + "+}"))
			default:
				b.WriteString(d.Text)
			}
		}
		lines = append(lines, f.name+": "+b.String())
	}
	return strings.Join(lines, "\n")
}
