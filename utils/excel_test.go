package utils

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type exportRow struct {
	Name string
}

func TestGenerateExcelWritesHeadersPastColumnZ(t *testing.T) {
	t.Cleanup(func() { os.RemoveAll("./public") })

	headers := []string{"Name"}
	for i := 1; i < 28; i++ {
		headers = append(headers, fmt.Sprintf("Extra%02d", i))
	}

	data := []exportRow{{Name: "Ada Obi"}}

	path, err := GenerateExcel(data, "wide_export", headers)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, "/public/files/"))

	f, err := excelize.OpenFile("." + path)
	require.NoError(t, err)
	defer f.Close()

	first, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Name", first)

	// Column 27 is AA; the old rune arithmetic produced garbage here.
	col27, err := f.GetCellValue("Sheet1", "AA1")
	require.NoError(t, err)
	assert.Equal(t, "Extra26", col27)

	col28, err := f.GetCellValue("Sheet1", "AB1")
	require.NoError(t, err)
	assert.Equal(t, "Extra27", col28)

	value, err := f.GetCellValue("Sheet1", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", value)
}

func TestGenerateExcelRejectsNonSlice(t *testing.T) {
	t.Cleanup(func() { os.RemoveAll("./public") })

	_, err := GenerateExcel(exportRow{Name: "x"}, "bad_export", []string{"Name"})
	assert.Error(t, err)
}
