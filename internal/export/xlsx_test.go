package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alanyoungcy/polyscan/internal/domain"
	"github.com/alanyoungcy/polyscan/internal/scanner"
)

var startedAt = time.Date(2025, 3, 10, 12, 0, 5, 0, time.UTC)

func TestWriteReportEmpty(t *testing.T) {
	dir := t.TempDir()

	path, res, err := WriteReport(Options{Dir: dir}, startedAt, nil)

	require.NoError(t, err)
	assert.Equal(t, ResultEmpty, res)
	assert.Empty(t, path)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	no := 0.03
	records := []domain.ReportRecord{
		{
			EventTitle: "Budget", Question: "Will the bill pass?", Outcome: "YES",
			YesPrice: 0.97, NoPrice: &no, CertaintySide: "YES", Category: "Politics",
			Volume: 1500, Liquidity: 200, ResolveTime: "2025-03-10 22:00:00 UTC",
			HoursRemaining: 10, URL: "https://polymarket.com/event/bill", LinkText: "open",
		},
		{
			Question: "Who wins?", Outcome: "Alice", YesPrice: 0.99, CertaintySide: "Alice",
			ResolveTime: "2025-03-11 09:00:00 UTC", HoursRemaining: 21.08,
		},
	}

	path, res, err := WriteReport(Options{Dir: dir, FilePrefix: "scan", SheetName: "Near Certain"}, startedAt, records)
	require.NoError(t, err)
	assert.Equal(t, ResultWritten, res)
	assert.Equal(t, filepath.Join(dir, "scan_20250310_120005.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Near Certain")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, scanner.Columns, rows[0])

	first := rows[1]
	assert.Equal(t, "Budget", first[0])
	assert.Equal(t, "0.97", first[3])
	assert.Equal(t, "0.03", first[4])
	assert.Equal(t, "2025-03-10 22:00:00 UTC", first[10])
	assert.Equal(t, "open", first[12])

	second := rows[2]
	assert.Empty(t, second[0])
	assert.Empty(t, second[4])
	assert.Equal(t, "21.08", second[11])

	ok, link, err := f.GetCellHyperLink("Near Certain", "M2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://polymarket.com/event/bill", link)

	ok, _, err = f.GetCellHyperLink("Near Certain", "M3")
	require.NoError(t, err)
	assert.False(t, ok)

	styleID, err := f.GetCellStyle("Near Certain", "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "near_certain_markets_20250310_120005.xlsx", FileName("", startedAt))
	assert.Equal(t, "x_20250310_120005.xlsx", FileName("x", startedAt.In(time.FixedZone("Y", 7200))))
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "written", ResultWritten.String())
	assert.Equal(t, "empty", ResultEmpty.String())
}
