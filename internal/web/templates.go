package web

import (
	"embed"
	"html/template"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// indexPage is the data rendered by index.html.
type indexPage struct {
	Contacts []types.Contact
	// Draft refills the add form after a failed submission.
	Draft types.Contact
	Error string
}
