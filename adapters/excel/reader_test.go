package excel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawatlas/domain/core"
	"lawatlas/internal/testkit"
)

func TestDirectorySource_ListSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	testkit.WriteXLSX(t, dir, "b.xlsx", []string{"State"}, []string{"Iowa"})
	testkit.WriteCSV(t, dir, "a.csv", []string{"State"}, []string{"Ohio"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "~$b.xlsx"), []byte("lock"), 0o644))

	source := NewDirectorySource(dir)
	names, err := source.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "b.xlsx"}, names)
}

func TestDirectorySource_ReadXLSX(t *testing.T) {
	dir := t.TempDir()
	testkit.PacificFixture(t, dir)

	source := NewDirectorySource(dir)
	wb, err := source.Read(context.Background(), "pacific.xlsx")
	require.NoError(t, err)

	assert.Equal(t, core.WorkbookID("pacific.xlsx"), wb.ID)
	assert.Equal(t, []string{"State", "Key Statutes/Codes", "Notable Provisions"}, wb.Headers)
	require.Len(t, wb.Rows, 3)
	assert.Equal(t, "California", wb.Rows[0]["State"])
	assert.Equal(t, "Gov. Code 8550", wb.Rows[0]["Key Statutes/Codes"])
}

func TestDirectorySource_ReadCSV(t *testing.T) {
	dir := t.TempDir()
	testkit.WriteCSV(t, dir, "states.csv",
		[]string{"State", "Key Statutes"},
		[]string{"Texas", "Tex. Gov't Code 418"},
		[]string{"Oklahoma", "63 O.S. 683"},
	)

	source := NewDirectorySource(dir)
	wb, err := source.Read(context.Background(), "states.csv")
	require.NoError(t, err)

	require.Len(t, wb.Rows, 2)
	assert.Equal(t, "Texas", wb.Rows[0]["State"])
}

func TestDirectorySource_ReadMissingFile(t *testing.T) {
	source := NewDirectorySource(t.TempDir())
	_, err := source.Read(context.Background(), "gone.xlsx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnreadable))
}

func TestDirectorySource_EmptyWorkbook(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.csv"), nil, 0o644))

	source := NewDirectorySource(dir)
	_, err := source.Read(context.Background(), "empty.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNoHeaderRow))
}
