package utils

import "testing"

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"Vencido", "VENCIDO"},
		{"  em  dia ", "EM_DIA"},
		{"Proteção Auditiva", "PROTECAO_AUDITIVA"},
		{"Consultor de Operações", "CONSULTOR_DE_OPERACOES"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeKey(tc.in); got != tc.expected {
			t.Fatalf("NormalizeKey(%q) expected %q, got %q", tc.in, tc.expected, got)
		}
	}
}

func TestNormHeader(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"Natureza da Lesão", "natureza_da_lesao"},
		{"Estação/Máquina", "estacao/maquina"},
		{"  DATA  ", "data"},
	}
	for _, tc := range cases {
		if got := NormHeader(tc.in); got != tc.expected {
			t.Fatalf("NormHeader(%q) expected %q, got %q", tc.in, tc.expected, got)
		}
	}
}
