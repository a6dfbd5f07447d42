package services

import "testing"

func TestClassifyStatusName(t *testing.T) {
	cases := []struct {
		name     string
		severity int
		color    string
		isApt    bool
	}{
		{"Vencido", 10, "#ef4444", false},
		{"VENCIDOS há 30 dias", 10, "#ef4444", false},
		{"Pendente", 50, "#facc15", false},
		{"pendências", 50, "#facc15", false},
		{"Futuro", 60, "#60a5fa", true},
		{"Em dia", 100, "#22c55e", true},
		{"OK", 100, "#22c55e", true},
	}
	for _, tc := range cases {
		got := ClassifyStatusName(tc.name)
		if got.Severity != tc.severity || got.ColorHex != tc.color || got.IsApt != tc.isApt {
			t.Fatalf("ClassifyStatusName(%q) = %+v", tc.name, got)
		}
	}
}

func TestEnsureStatusGeralKindsDedupes(t *testing.T) {
	store := newMemoryStore()
	resolver := NewCatalogResolver(store)
	if err := resolver.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	err := resolver.EnsureStatusGeralKinds([]string{"Vencido", "VENCIDO", "vencido ", "Em dia"})
	if err != nil {
		t.Fatalf("EnsureStatusGeralKinds: %v", err)
	}
	if len(store.statusGeral) != 2 {
		t.Fatalf("kinds = %d, want 2", len(store.statusGeral))
	}
	if _, ok := resolver.StatusGeralID("Vencido"); !ok {
		t.Fatal("inserted kind must resolve after reload")
	}

	// A second ensure with known names inserts nothing.
	if err := resolver.EnsureStatusGeralKinds([]string{"vencido"}); err != nil {
		t.Fatalf("EnsureStatusGeralKinds: %v", err)
	}
	if len(store.statusGeral) != 2 {
		t.Fatalf("kinds after repeat = %d, want 2", len(store.statusGeral))
	}
}

func TestEnsureColaboradoresCompositeIdentity(t *testing.T) {
	store := newMemoryStore()
	resolver := NewCatalogResolver(store)
	if err := resolver.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cargo := "Operadora"
	records := []*ParsedRecord{
		{Nome: "Ana Souza", Loja: "LJ01", Consultor: "Carlos", Cargo: &cargo},
		{Nome: "Ana Souza", Loja: "LJ01", Consultor: "Carlos"},
		{Nome: "Ana Souza", Loja: "LJ02", Consultor: "Carlos"},
	}
	if err := resolver.EnsureColaboradores(records); err != nil {
		t.Fatalf("EnsureColaboradores: %v", err)
	}
	if len(store.colaboradores) != 2 {
		t.Fatalf("colaboradores = %d, want 2 (same nome, different loja)", len(store.colaboradores))
	}
	if _, ok := resolver.ColaboradorID("ana souza", "lj01", "carlos"); !ok {
		t.Fatal("lookup must be case-insensitive")
	}
	// First occurrence wins the insert payload.
	for _, c := range store.colaboradores {
		if c.Loja == "LJ01" && (c.Cargo == nil || *c.Cargo != "Operadora") {
			t.Fatalf("cargo from first occurrence not kept: %+v", c)
		}
	}
}
