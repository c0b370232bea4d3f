package importer

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// buildWorkbook writes rows to the first sheet of a new workbook.
func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName() error = %v", err)
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("SetSheetRow(%s) error = %v", cell, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error = %v", err)
	}
	return buf.Bytes()
}

var dietHeader = []interface{}{"Lp", "Nazwa", "Instrukcje", "Składniki", "Wartości odżywcze"}

func sampleWorkbook(t *testing.T) []byte {
	t.Helper()
	return buildWorkbook(t, [][]interface{}{
		dietHeader,
		{"1", "Owsianka z owocami", "Ugotować płatki na mleku, dodać owoce", "płatki owsiane, mleko, banan.", "350,15,7,60"},
		{"2", "", "", "jabłko, mleko", ""},
		{"3", "Kurczak z ryżem", "Upiec kurczaka", "kurczak, ryż., mleko", "500,40,12,55"},
		{"4", "Koktajl proteinowy"},
	})
}

func poolOf(n int) *ExtractResult {
	res := &ExtractResult{}
	for i := 0; i < n; i++ {
		res.Meals = append(res.Meals, mealNamed(fmt.Sprintf("meal-%d", i)))
	}
	res.TotalMeals = n
	return res
}
