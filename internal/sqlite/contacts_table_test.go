package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

func TestContactsTable_AddThenListShowsOnce(t *testing.T) {
	ctx := context.Background()
	tbl := mustContacts(t, setupBackend(t))

	id := mustAdd(t, tbl, "Ivan Petrov", "+7 900 123-45-67", "colleague")

	all, err := tbl.Fetch(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, types.Contact{ID: id, FullName: "Ivan Petrov", PhoneNumber: "+7 900 123-45-67", Note: "colleague"}, all[0])
}

func TestContactsTable_SetTrimsAndValidates(t *testing.T) {
	ctx := context.Background()
	tbl := mustContacts(t, setupBackend(t))

	c := &types.Contact{FullName: "  Olga ", PhoneNumber: " 555 "}
	id, err := tbl.Set(ctx, 0, c)
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)

	got, err := tbl.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Olga", got.FullName)
	assert.Equal(t, "555", got.PhoneNumber)

	_, err = tbl.Set(ctx, 0, &types.Contact{PhoneNumber: "1"})
	assert.ErrorIs(t, err, types.ErrInvalidName)
	_, err = tbl.Set(ctx, 0, &types.Contact{FullName: "x"})
	assert.ErrorIs(t, err, types.ErrInvalidPhone)
	_, err = tbl.Set(ctx, 0, nil)
	assert.ErrorIs(t, err, types.ErrInvalidData)
	_, err = tbl.Set(ctx, -1, &types.Contact{FullName: "x", PhoneNumber: "1"})
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestContactsTable_DuplicatePhone(t *testing.T) {
	ctx := context.Background()
	tbl := mustContacts(t, setupBackend(t))
	mustAdd(t, tbl, "First", "100", "")
	second := mustAdd(t, tbl, "Second", "200", "")

	_, err := tbl.Set(ctx, 0, &types.Contact{FullName: "Copy", PhoneNumber: "100"})
	assert.ErrorIs(t, err, types.ErrDuplicatePhone)

	_, err = tbl.Set(ctx, second, &types.Contact{FullName: "Second", PhoneNumber: "100"})
	assert.ErrorIs(t, err, types.ErrDuplicatePhone)

	all, err := tbl.Fetch(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestContactsTable_UpdatePreservesID(t *testing.T) {
	ctx := context.Background()
	tbl := mustContacts(t, setupBackend(t))
	id := mustAdd(t, tbl, "Pavel", "300", "gym")

	got, err := tbl.Set(ctx, id, &types.Contact{FullName: "Pavel K.", PhoneNumber: "301", Note: "gym"})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	c, err := tbl.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.Contact{ID: id, FullName: "Pavel K.", PhoneNumber: "301", Note: "gym"}, *c)

	_, err = tbl.Set(ctx, id+100, &types.Contact{FullName: "Ghost", PhoneNumber: "999"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestContactsTable_Delete(t *testing.T) {
	ctx := context.Background()
	tbl := mustContacts(t, setupBackend(t))
	keep := mustAdd(t, tbl, "Keep", "1", "")
	drop := mustAdd(t, tbl, "Drop", "2", "")

	require.NoError(t, tbl.Delete(ctx, drop))

	all, err := tbl.Fetch(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep, all[0].ID)

	_, err = tbl.Get(ctx, drop)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, tbl.Delete(ctx, drop), types.ErrNotFound)
	assert.ErrorIs(t, tbl.Delete(ctx, 0), types.ErrInvalidID)
}

func TestContactsTable_IDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	tbl := mustContacts(t, setupBackend(t))
	first := mustAdd(t, tbl, "A", "1", "")
	require.NoError(t, tbl.Delete(ctx, first))

	second := mustAdd(t, tbl, "B", "2", "")
	assert.Greater(t, second, first)
}

func TestContactsTable_Fetch(t *testing.T) {
	ctx := context.Background()
	tbl := mustContacts(t, setupBackend(t))
	mustAdd(t, tbl, "Иван Иванов", "+7-911-000", "")
	mustAdd(t, tbl, "John Smith", "+1-202-555", "")
	mustAdd(t, tbl, "Jane 100%_Smith", "+44-20", "")

	tests := []struct {
		name   string
		filter types.Filter
		want   []string
	}{
		{"nil filter returns all", nil, []string{"Иван Иванов", "John Smith", "Jane 100%_Smith"}},
		{"query by name ignores case", types.Filter{types.FilterQuery: "smith"}, []string{"John Smith", "Jane 100%_Smith"}},
		{"query folds cyrillic", types.Filter{types.FilterQuery: "ИВАН"}, []string{"Иван Иванов"}},
		{"query by phone", types.Filter{types.FilterQuery: "202"}, []string{"John Smith"}},
		{"wildcards are literal", types.Filter{types.FilterQuery: "%_"}, []string{"Jane 100%_Smith"}},
		{"exact phone", types.Filter{types.FilterPhoneNumber: "+44-20"}, []string{"Jane 100%_Smith"}},
		{"exact name", types.Filter{types.FilterFullName: "John Smith"}, []string{"John Smith"}},
		{"no match", types.Filter{types.FilterQuery: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tbl.Fetch(ctx, tt.filter)
			require.NoError(t, err)
			names := []string{}
			for _, c := range got {
				names = append(names, c.FullName)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestContactsTable_FetchInvalidFilter(t *testing.T) {
	ctx := context.Background()
	tbl := mustContacts(t, setupBackend(t))

	_, err := tbl.Fetch(ctx, types.Filter{"age": "3"})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)

	_, err = tbl.Fetch(ctx, types.Filter{types.FilterQuery: 3})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}
