package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fault-service/internal/model"
)

func sampleReports() []model.FaultReport {
	return []model.FaultReport{
		{
			ID:                2,
			ReporterName:      "张三",
			FaultTime:         time.Date(2025, 10, 29, 15, 53, 0, 0, time.UTC),
			VehicleID:         "AGV-07",
			Category:          model.FaultCategoryCharging,
			Status:            model.FaultStatusResolved,
			Description:       "充电桩对接失败, 重试",
			Solution:          "重启",
			ResolutionLog:     "已更换触点",
			ResponsiblePerson: "李四",
		},
		{
			ID:           1,
			ReporterName: "王五",
			FaultTime:    time.Date(2025, 10, 28, 8, 5, 0, 0, time.UTC),
			VehicleID:    "AGV-01",
			Category:     model.FaultCategoryOther,
			Status:       model.FaultStatusPending,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReports()))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, utf8BOM))

	records, err := csv.NewReader(bytes.NewReader(raw[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{
		"2", "张三", "2025-10-29 15:53:00", "AGV-07", "CHARGING_FAILURE", "RESOLVED",
		"充电桩对接失败, 重试", "重启", "已更换触点", "李四",
	}, records[1])
	assert.Equal(t, "1", records[2][0])
	assert.Len(t, records[2], len(Header))
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{Header}, records)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleReports()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "AGV-07", rows[1][3])
	assert.Equal(t, "王五", rows[2][1])
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("")
	assert.True(t, ok)
	assert.Equal(t, FormatCSV, f)

	f, ok = ParseFormat("xlsx")
	assert.True(t, ok)
	assert.Equal(t, "xlsx", f.Extension())

	_, ok = ParseFormat("pdf")
	assert.False(t, ok)
}
