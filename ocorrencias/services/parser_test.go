package services

import (
	"bytes"
	"os"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"epi-compliance-backend/config"
)

func TestMain(m *testing.M) {
	config.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func incidentWorkbook(t *testing.T, sheet string, header []string, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("renaming sheet: %v", err)
	}
	for col, h := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, r := range rows {
		for col, v := range r {
			if v == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("serializing workbook: %v", err)
	}
	return buf.Bytes()
}

func TestParseWorkbookMapsKnownHeaders(t *testing.T) {
	data := incidentWorkbook(t, "Base 2025",
		[]string{"Data", "Horário", "Nome", "Natureza da Lesão", "Turno Extra"},
		[][]string{
			{"05/03/2025", "0.5", "Ana Souza", "Corte", "sim"},
		})

	parsed, err := ParseWorkbook(data)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if parsed.Sheet != "Base 2025" {
		t.Fatalf("sheet = %q", parsed.Sheet)
	}
	if parsed.TotalRows != 1 || parsed.Failed != 0 || len(parsed.Records) != 1 {
		t.Fatalf("total=%d failed=%d records=%d", parsed.TotalRows, parsed.Failed, len(parsed.Records))
	}

	rec := parsed.Records[0]
	if rec.Data == nil || *rec.Data != "2025-03-05" {
		t.Fatalf("data = %v", rec.Data)
	}
	if rec.Horario == nil || *rec.Horario != "12:00:00" {
		t.Fatalf("horario = %v", rec.Horario)
	}
	if rec.Ts == nil || *rec.Ts != "2025-03-05T12:00:00-03:00" {
		t.Fatalf("ts = %v", rec.Ts)
	}
	if rec.Hash == "" {
		t.Fatal("identity hash missing")
	}
	if len(rec.ExtraJSON) == 0 {
		t.Fatal("unmapped column must land in extra payload")
	}
	if _, ok := parsed.Mapped["Natureza da Lesão"]; !ok {
		t.Fatalf("mapped = %v", parsed.Mapped)
	}
}

func TestParseWorkbookStableHash(t *testing.T) {
	header := []string{"Data", "Nome", "Descrição"}
	rows := [][]string{{"05/03/2025", "Ana", "Corte superficial"}}

	first, err := ParseWorkbook(incidentWorkbook(t, "base 2025", header, rows))
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	second, err := ParseWorkbook(incidentWorkbook(t, "base 2025", header, rows))
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if first.Records[0].Hash != second.Records[0].Hash {
		t.Fatal("same row must hash identically across imports")
	}
	if first.Records[0].ID == second.Records[0].ID {
		t.Fatal("fresh rows get fresh ids; identity lives in the hash")
	}
}

func TestParseWorkbookCountsUnidentifiableRows(t *testing.T) {
	data := incidentWorkbook(t, "base 2025",
		[]string{"Data", "Nome", "Área"},
		[][]string{
			{"", "", "Logística"},
			{"05/03/2025", "Ana", ""},
		})

	parsed, err := ParseWorkbook(data)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if parsed.TotalRows != 2 || parsed.Failed != 1 || len(parsed.Records) != 1 {
		t.Fatalf("total=%d failed=%d records=%d", parsed.TotalRows, parsed.Failed, len(parsed.Records))
	}
	if parsed.SampleError == "" {
		t.Fatal("sample error must describe the first failure")
	}
}

func TestParseWorkbookFallsBackToFirstSheet(t *testing.T) {
	data := incidentWorkbook(t, "Resumo",
		[]string{"Data", "Nome"},
		[][]string{{"05/03/2025", "Ana"}})
	parsed, err := ParseWorkbook(data)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if parsed.Sheet != "Resumo" {
		t.Fatalf("sheet = %q, want first-sheet fallback", parsed.Sheet)
	}
	if len(parsed.Records) != 1 {
		t.Fatalf("records = %d", len(parsed.Records))
	}
}

func TestParseWorkbookPrefersBaseSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.NewSheet("BASE 2025")
	_ = f.SetCellValue("BASE 2025", "A1", "Data")
	_ = f.SetCellValue("BASE 2025", "B1", "Nome")
	_ = f.SetCellValue("BASE 2025", "A2", "05/03/2025")
	_ = f.SetCellValue("BASE 2025", "B2", "Ana")
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("serializing workbook: %v", err)
	}

	parsed, err := ParseWorkbook(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if parsed.Sheet != "BASE 2025" {
		t.Fatalf("sheet = %q, want BASE 2025", parsed.Sheet)
	}
}

func TestParseTimeField(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0.5", "12:00:00"},
		{"0.333333333333333", "08:00:00"},
		{"08:30", "08:30:00"},
		{"23:59:59", "23:59:59"},
		{"manhã", ""},
	}
	for _, tc := range cases {
		got := parseTimeField(tc.in)
		if tc.want == "" {
			if got != nil {
				t.Fatalf("parseTimeField(%q) = %q, want nil", tc.in, *got)
			}
			continue
		}
		if got == nil || *got != tc.want {
			t.Fatalf("parseTimeField(%q) = %v, want %q", tc.in, got, tc.want)
		}
	}
}
