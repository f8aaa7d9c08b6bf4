package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/phonebook/internal/sqlite"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// setupHandler returns a handler backed by a fresh SQLite database and the
// table it writes to.
func setupHandler(t *testing.T) (http.Handler, types.ContactsTable) {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	tbl, err := b.Contacts()
	require.NoError(t, err)
	return NewHandler(tbl), tbl
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func contactForm(name, phone, note string) url.Values {
	return url.Values{"full_name": {name}, "phone_number": {phone}, "note": {note}}
}

func TestIndex_Empty(t *testing.T) {
	h, _ := setupHandler(t)

	rec := get(t, h, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "No contacts yet.")
}

func TestAdd_ThenListShowsOnce(t *testing.T) {
	h, tbl := setupHandler(t)

	rec := postForm(t, h, "/add", contactForm("Ivan Petrov", "+7 900", "<friend>"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	body := get(t, h, "/").Body.String()
	assert.Equal(t, 1, strings.Count(body, `value="Ivan Petrov"`))
	assert.Contains(t, body, "&lt;friend&gt;", "note must be escaped")

	all, err := tbl.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAdd_ValidationErrorShowsBanner(t *testing.T) {
	h, tbl := setupHandler(t)

	rec := postForm(t, h, "/add", contactForm("No Phone", "", "kept"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Phone number is required.")
	assert.Contains(t, rec.Body.String(), `value="No Phone"`, "draft should refill the add form")

	all, err := tbl.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAdd_DuplicatePhone(t *testing.T) {
	h, _ := setupHandler(t)
	postForm(t, h, "/add", contactForm("First", "100", ""))

	rec := postForm(t, h, "/add", contactForm("Second", "100", ""))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
	assert.Contains(t, rec.Body.String(), `value="First"`, "listing still rendered")
}

func TestEdit_UpdatesInPlace(t *testing.T) {
	h, tbl := setupHandler(t)
	ctx := context.Background()
	id, err := tbl.Set(ctx, 0, &types.Contact{FullName: "Olga", PhoneNumber: "1", Note: "school"})
	require.NoError(t, err)

	rec := postForm(t, h, "/edit/"+itoa(id), contactForm("Olga", "2", "school"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	got, err := tbl.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.Contact{ID: id, FullName: "Olga", PhoneNumber: "2", Note: "school"}, *got)
}

func TestEdit_Errors(t *testing.T) {
	h, _ := setupHandler(t)

	rec := postForm(t, h, "/edit/abc", contactForm("x", "1", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid contact id.")

	rec = postForm(t, h, "/edit/99", contactForm("x", "1", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Contact not found.")
}

func TestDelete_RemovesFromListing(t *testing.T) {
	h, tbl := setupHandler(t)
	ctx := context.Background()
	keep, err := tbl.Set(ctx, 0, &types.Contact{FullName: "Keep Me", PhoneNumber: "1"})
	require.NoError(t, err)
	drop, err := tbl.Set(ctx, 0, &types.Contact{FullName: "Drop Me", PhoneNumber: "2"})
	require.NoError(t, err)

	rec := get(t, h, "/delete/"+itoa(drop))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	body := get(t, h, "/").Body.String()
	assert.NotContains(t, body, "Drop Me")
	assert.Contains(t, body, "Keep Me")

	rec = postForm(t, h, "/delete/"+itoa(keep), nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = get(t, h, "/delete/"+itoa(keep))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_MethodAndPath(t *testing.T) {
	h, _ := setupHandler(t)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/missing").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, get(t, h, "/add").Code)
}

// failingTable reports err from every operation.
type failingTable struct {
	err error
}

func (f failingTable) Get(context.Context, int64) (*types.Contact, error) { return nil, f.err }
func (f failingTable) Set(context.Context, int64, *types.Contact) (int64, error) {
	return 0, f.err
}
func (f failingTable) Delete(context.Context, int64) error { return f.err }
func (f failingTable) Fetch(context.Context, types.Filter) ([]types.Contact, error) {
	return nil, f.err
}

func TestIndex_DatabaseErrorIsSurfaced(t *testing.T) {
	h := NewHandler(failingTable{err: errors.New("connection refused")})

	rec := get(t, h, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Database error: connection refused")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{types.ErrInvalidID, http.StatusBadRequest},
		{types.ErrNotFound, http.StatusNotFound},
		{types.ErrInvalidName, http.StatusUnprocessableEntity},
		{types.ErrInvalidPhone, http.StatusUnprocessableEntity},
		{types.ErrDuplicatePhone, http.StatusUnprocessableEntity},
		{types.ErrInvalidData, http.StatusUnprocessableEntity},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
