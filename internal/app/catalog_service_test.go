package app

import (
	"context"
	"strings"
	"testing"

	"bookshelf/internal/adapter/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `isbn,title,author,year
0380795272,Krondor: The Betrayal,Raymond E. Feist,1998
1416949658,The Dark Is Rising,Susan Cooper,1973
`

func TestImportCSVInsertsRows(t *testing.T) {
	db := memory.New()
	svc := NewCatalogService(db)

	inserted, skipped, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Equal(t, 0, skipped)

	book, err := svc.GetBook(context.Background(), "0380795272")
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, "Krondor: The Betrayal", book.Title)
	assert.Equal(t, 1998, book.Year)
}

func TestImportCSVIsIdempotent(t *testing.T) {
	db := memory.New()
	svc := NewCatalogService(db)

	_, _, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)

	inserted, skipped, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 2, skipped)

	books, err := svc.Search(context.Background(), "e")
	require.NoError(t, err)
	assert.Len(t, books, 2, "exactly one row per isbn after re-import")
}

func TestImportCSVMalformedYearAbortsRun(t *testing.T) {
	db := memory.New()
	svc := NewCatalogService(db)

	bad := "isbn,title,author,year\n111,Ok,Author,1990\n222,Broken,Author,ninety\n"
	_, _, err := svc.ImportCSV(context.Background(), strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid year")
}

func TestImportCSVMissingColumn(t *testing.T) {
	svc := NewCatalogService(memory.New())

	_, _, err := svc.ImportCSV(context.Background(), strings.NewReader("isbn,title,author\n1,a,b\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing column "year"`)
}

func TestSearchTrimsQuery(t *testing.T) {
	db := memory.New()
	svc := NewCatalogService(db)
	_, _, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)

	books, err := svc.Search(context.Background(), "  krondor  ")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "0380795272", books[0].ISBN)
}
