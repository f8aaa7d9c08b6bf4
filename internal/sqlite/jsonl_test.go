package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := setupBackend(t)
	tbl := mustContacts(t, src)
	mustAdd(t, tbl, "One", "1", "first")
	mustAdd(t, tbl, "Two", "2", "")

	path := filepath.Join(t.TempDir(), "contacts.jsonl")
	n, err := src.Export(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"contact_id":1`)

	dst := setupBackend(t)
	n, err = dst.Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want, err := tbl.Fetch(ctx, nil)
	require.NoError(t, err)
	got, err := mustContacts(t, dst).Fetch(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestImportUpsertsAndSkipsMalformedLines(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	tbl := mustContacts(t, b)
	id := mustAdd(t, tbl, "Before", "1", "")

	path := filepath.Join(t.TempDir(), "in.jsonl")
	content := `{"contact_id":1,"full_name":"After","phone_number":"1","note":"changed"}
not json at all

{"full_name":"Fresh","phone_number":"2","note":""}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	n, err := b.Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := tbl.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "After", got.FullName)
	assert.Equal(t, "changed", got.Note)

	all, err := tbl.Fetch(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportRejectsInvalidContactAtomically(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	path := filepath.Join(t.TempDir(), "bad.jsonl")
	content := `{"full_name":"Good","phone_number":"1"}
{"full_name":"","phone_number":"2"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := b.Import(ctx, path)
	assert.ErrorIs(t, err, types.ErrInvalidName)

	all, err := mustContacts(t, b).Fetch(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestWriteJSONLLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jsonl")
	require.NoError(t, writeJSONL(path, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.jsonl", entries[0].Name())
}
