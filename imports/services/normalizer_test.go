package services

import "testing"

func row(n int, cells map[string]string) SpreadsheetRow {
	return SpreadsheetRow{Number: n, Cells: cells}
}

func TestNormalizeRowCompleteRow(t *testing.T) {
	fill := &ForwardFillState{}
	rec, rej := NormalizeRow(row(2, map[string]string{
		"Colaborador":             "  Ana   Souza ",
		"Sigla":                   "LJ01",
		"Consultor de Operações":  "Carlos",
		"Cargo":                   "Operadora",
		"Status Geral":            "Vencido",
		"EPI":                     "Luva Nitrílica",
		"Status EPI":              "Pendente",
		"Próximo Fornecimento":    "05/03/2025",
	}), fill)
	if rej != nil {
		t.Fatalf("unexpected rejection: %+v", rej)
	}
	if rec.Nome != "Ana Souza" {
		t.Fatalf("nome = %q", rec.Nome)
	}
	if rec.Epi != "Luva Nitrilica" {
		t.Fatalf("epi = %q", rec.Epi)
	}
	if rec.ProximoFornecimento == nil || *rec.ProximoFornecimento != "2025-03-05" {
		t.Fatalf("proximo = %v", rec.ProximoFornecimento)
	}
	if fill.Nome != "Ana   Souza" {
		t.Fatalf("fill nome = %q", fill.Nome)
	}
}

func TestNormalizeRowForwardFill(t *testing.T) {
	fill := &ForwardFillState{}
	if _, rej := NormalizeRow(row(2, map[string]string{
		"Colaborador":            "Bruno Lima",
		"Sigla":                  "LJ02",
		"Consultor de Operações": "Carlos",
		"EPI":                    "Capacete",
		"Status EPI":             "OK",
	}), fill); rej != nil {
		t.Fatalf("seed row rejected: %+v", rej)
	}

	rec, rej := NormalizeRow(row(3, map[string]string{
		"EPI":        "Bota",
		"Status EPI": "Vencido",
	}), fill)
	if rej != nil {
		t.Fatalf("inherited row rejected: %+v", rej)
	}
	if rec.Nome != "Bruno Lima" || rec.Loja != "LJ02" || rec.Consultor != "Carlos" {
		t.Fatalf("identity not inherited: %+v", rec)
	}
}

func TestNormalizeRowRejectionKeepsRawValues(t *testing.T) {
	fill := &ForwardFillState{Nome: "Bruno Lima", Loja: "LJ02", Consultor: "Carlos"}
	rec, rej := NormalizeRow(row(4, map[string]string{
		"Status EPI": "Pendente",
	}), fill)
	if rec != nil || rej == nil {
		t.Fatalf("expected rejection, got rec=%+v rej=%+v", rec, rej)
	}
	if rej.Nome != "" || rej.Epi != "" {
		t.Fatalf("rejection must keep pre-carry-down values: %+v", rej)
	}
	if rej.Reason == "" {
		t.Fatal("rejection without reason")
	}
}

func TestNormalizeRowMissingNameRejected(t *testing.T) {
	fill := &ForwardFillState{}
	_, rej := NormalizeRow(row(2, map[string]string{
		"EPI":        "Luva",
		"Status EPI": "OK",
	}), fill)
	if rej == nil {
		t.Fatal("expected rejection for missing collaborator name")
	}
}

func TestNormalizeRowMissingEpiStatusRejected(t *testing.T) {
	fill := &ForwardFillState{}
	rec, rej := NormalizeRow(row(2, map[string]string{
		"Colaborador": "Ana",
		"EPI":         "Luva",
	}), fill)
	if rec != nil || rej == nil {
		t.Fatalf("row without Status EPI must be rejected, got rec=%+v", rec)
	}
}

func TestNormalizeRowLojaConsultorOptional(t *testing.T) {
	fill := &ForwardFillState{}
	rec, rej := NormalizeRow(row(2, map[string]string{
		"Colaborador": "Ana",
		"EPI":         "Luva",
		"Status EPI":  "OK",
	}), fill)
	if rej != nil {
		t.Fatalf("unexpected rejection: %+v", rej)
	}
	if rec.Loja != "" || rec.Consultor != "" {
		t.Fatalf("loja/consultor must stay empty when never provided: %+v", rec)
	}
}

func TestNormalizeRowRejectedRowStillSeedsCarry(t *testing.T) {
	fill := &ForwardFillState{}
	if rec, _ := NormalizeRow(row(2, map[string]string{
		"Colaborador":  "Ana Souza",
		"Sigla":        "LJ01",
		"Status Geral": "Vencido",
	}), fill); rec != nil {
		t.Fatalf("group header row must be rejected, got %+v", rec)
	}

	rec, rej := NormalizeRow(row(3, map[string]string{
		"EPI":        "Bota",
		"Status EPI": "OK",
	}), fill)
	if rej != nil {
		t.Fatalf("row below group header rejected: %+v", rej)
	}
	if rec.Nome != "Ana Souza" || rec.Loja != "LJ01" {
		t.Fatalf("identity not seeded by the group header row: %+v", rec)
	}
}

func TestNormalizeRowStatusGeralForwardFill(t *testing.T) {
	fill := &ForwardFillState{}
	if _, rej := NormalizeRow(row(2, map[string]string{
		"Colaborador":  "Ana",
		"Status Geral": "Vencido",
		"EPI":          "Luva",
		"Status EPI":   "Vencido",
	}), fill); rej != nil {
		t.Fatalf("seed row rejected: %+v", rej)
	}

	rec, rej := NormalizeRow(row(3, map[string]string{
		"EPI":        "Bota",
		"Status EPI": "OK",
	}), fill)
	if rej != nil {
		t.Fatalf("inherited row rejected: %+v", rej)
	}
	if rec.StatusGeral != "Vencido" {
		t.Fatalf("status geral = %q, want carried-down Vencido", rec.StatusGeral)
	}
}

func TestNormalizeRowHeaderSynonyms(t *testing.T) {
	fill := &ForwardFillState{}
	rec, rej := NormalizeRow(row(2, map[string]string{
		"Nome":                   "Ana",
		"Loja":                   "LJ01",
		"Consultor de Operacoes": "Carlos",
		"EPI":                    "Luva",
		"Status EPI":             "Pendente",
		"Mês (Próximo Fornecimento)": "mar/2025",
	}), fill)
	if rej != nil {
		t.Fatalf("unexpected rejection: %+v", rej)
	}
	if rec.ProximoFornecimento == nil || *rec.ProximoFornecimento != "2025-03-01" {
		t.Fatalf("month fallback = %v", rec.ProximoFornecimento)
	}
}

func TestParseISODate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"05/03/2025", "2025-03-05"},
		{"5-3-25", "2025-03-05"},
		{"2025-03-05", "2025-03-05"},
		{"2025-03-05T00:00:00", "2025-03-05"},
		{"45657", "2024-12-31"},
		{"45657.75", "2024-12-31"},
		{"nunca", ""},
		{"", ""},
		{"32/01/2025", ""},
	}
	for _, tc := range cases {
		got := ParseISODate(tc.in)
		if tc.want == "" {
			if got != nil {
				t.Fatalf("ParseISODate(%q) = %q, want nil", tc.in, *got)
			}
			continue
		}
		if got == nil || *got != tc.want {
			t.Fatalf("ParseISODate(%q) = %v, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFirstDayFromMonthText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025-03", "2025-03-01"},
		{"3/2025", "2025-03-01"},
		{"03/2025", "2025-03-01"},
		{"mar/2025", "2025-03-01"},
		{"DEZ 2024", "2024-12-01"},
		{"13/2025", ""},
		{"2024-99", ""},
		{"março", ""},
	}
	for _, tc := range cases {
		got := FirstDayFromMonthText(tc.in)
		if tc.want == "" {
			if got != nil {
				t.Fatalf("FirstDayFromMonthText(%q) = %q, want nil", tc.in, *got)
			}
			continue
		}
		if got == nil || *got != tc.want {
			t.Fatalf("FirstDayFromMonthText(%q) = %v, want %q", tc.in, got, tc.want)
		}
	}
}
