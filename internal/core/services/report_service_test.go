package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"homework-desk/internal/testutil"
)

func TestExportWorkbook(t *testing.T) {
	ctx := context.Background()
	f := newTxFixture(t)
	tx := f.submit(t, "UTR123456")
	_, err := f.txs.Approve(ctx, tx.ID)
	require.NoError(t, err)

	data, err := NewReportService(f.store).Export(ctx)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{SheetRequests, SheetTransactions}, book.GetSheetList())

	rows, err := book.GetRows(SheetRequests)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Student", rows[0][1])
	assert.Equal(t, "Asha", rows[1][1])
	assert.Equal(t, "19.00", rows[1][6])
	assert.Equal(t, "Paid", rows[1][10])

	rows, err = book.GetRows(SheetTransactions)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "UTR123456", rows[1][3])
	assert.Equal(t, "Approved", rows[1][5])
}

func TestExportEmpty(t *testing.T) {
	svc := NewReportService(testutil.NewStore(t))
	data, err := svc.Export(context.Background())
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(SheetTransactions)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	assert.Equal(t, "homework_2026-10-14.xlsx", svc.Filename(time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)))
}
