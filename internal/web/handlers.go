package web

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

type handler struct {
	contacts types.ContactsTable
}

// NewHandler creates the HTTP handler for the phonebook routes.
func NewHandler(table types.ContactsTable) http.Handler {
	h := &handler{contacts: table}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("POST /add", h.add)
	mux.HandleFunc("POST /edit/{id}", h.edit)
	mux.HandleFunc("GET /delete/{id}", h.delete)
	mux.HandleFunc("POST /delete/{id}", h.delete)
	return mux
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.Fetch(r.Context(), nil)
	if err != nil {
		h.renderError(w, r, err, types.Contact{})
		return
	}
	h.render(w, http.StatusOK, indexPage{Contacts: contacts})
}

func (h *handler) add(w http.ResponseWriter, r *http.Request) {
	c := contactFromForm(r)
	if _, err := h.contacts.Set(r.Context(), 0, &c); err != nil {
		h.renderError(w, r, err, c)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handler) edit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	c := contactFromForm(r)
	if _, err := h.contacts.Set(r.Context(), id, &c); err != nil {
		h.renderError(w, r, err, types.Contact{})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.contacts.Delete(r.Context(), id); err != nil {
		h.renderError(w, r, err, types.Contact{})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// pathID parses the {id} path segment, writing a 400 page when it is not a
// positive integer.
func (h *handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderError(w, r, types.ErrInvalidID, types.Contact{})
		return 0, false
	}
	return id, true
}

func contactFromForm(r *http.Request) types.Contact {
	return types.Contact{
		FullName:    strings.TrimSpace(r.PostFormValue("full_name")),
		PhoneNumber: strings.TrimSpace(r.PostFormValue("phone_number")),
		Note:        strings.TrimSpace(r.PostFormValue("note")),
	}
}

// renderError re-renders the listing with err shown as a banner. The
// listing is best effort: if it fails too, only the message is shown.
func (h *handler) renderError(w http.ResponseWriter, r *http.Request, err error, draft types.Contact) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	page := indexPage{Draft: draft, Error: userMessage(err)}
	if contacts, listErr := h.contacts.Fetch(r.Context(), nil); listErr == nil {
		page.Contacts = contacts
	}
	h.render(w, status, page)
}

func (h *handler) render(w http.ResponseWriter, status int, page indexPage) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "index.html", page); err != nil {
		log.Printf("render index: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// statusFor maps store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidPhone),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrDuplicatePhone):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// userMessage turns an error into text for the banner. Unexpected errors
// are reported generically; their detail goes to the log.
func userMessage(err error) string {
	switch {
	case errors.Is(err, types.ErrInvalidID):
		return "Invalid contact id."
	case errors.Is(err, types.ErrNotFound):
		return "Contact not found."
	case errors.Is(err, types.ErrInvalidName):
		return "Full name is required."
	case errors.Is(err, types.ErrInvalidPhone):
		return "Phone number is required."
	case errors.Is(err, types.ErrDuplicatePhone):
		return "A contact with this phone number already exists."
	case errors.Is(err, types.ErrInvalidData):
		return "Invalid contact data."
	default:
		return "Database error: " + err.Error()
	}
}
