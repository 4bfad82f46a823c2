package validate_test

import (
	"testing"

	"plenapos/internal/repos"
	"plenapos/internal/validate"
)

func TestID(t *testing.T) {
	for _, ok := range []string{"101", "0195f3a2-7c1e-7d2b-9a3c-1b2c3d4e5f60", " abc_1 "} {
		if _, valid := validate.ID(ok); !valid {
			t.Fatalf("want %q valid", ok)
		}
	}
	for _, bad := range []string{"", "  ", "a/b", "<script>", "ação"} {
		if _, valid := validate.ID(bad); valid {
			t.Fatalf("want %q invalid", bad)
		}
	}
}

func TestQ(t *testing.T) {
	if got, ok := validate.Q("  Água Mineral "); !ok || got != "Água Mineral" {
		t.Fatalf("got %q %v", got, ok)
	}
	if got, ok := validate.Q("Guaraná 2L"); !ok || got != "Guaraná 2L" {
		t.Fatalf("got %q %v", got, ok)
	}
	if _, ok := validate.Q("<img src=x>"); ok {
		t.Fatal("markup should be rejected")
	}
	if _, ok := validate.Q(""); ok {
		t.Fatal("empty query should be rejected")
	}
	for _, q := range []string{"(Retornável)", "Carvão 3+1", "Gelo & Carvão", "1,5L"} {
		if _, ok := validate.Q(q); !ok {
			t.Fatalf("want %q valid", q)
		}
	}
}

func TestQ_AcceptsSeededNames(t *testing.T) {
	products, err := repos.DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range products {
		if _, ok := validate.Q(p.Name); !ok {
			t.Fatalf("seeded name %q is not searchable", p.Name)
		}
	}
}

func TestDay(t *testing.T) {
	if _, ok := validate.Day("2025-02-28"); !ok {
		t.Fatal("want valid")
	}
	for _, bad := range []string{"2025-02-30", "25-02-01", "2025-2-1", "today"} {
		if _, ok := validate.Day(bad); ok {
			t.Fatalf("want %q invalid", bad)
		}
	}
}

func TestLimit(t *testing.T) {
	cases := map[string]int{"": 50, "abc": 50, "0": 50, "10": 10, "100000": 500}
	for in, want := range cases {
		if got := validate.Limit(in, 50, 500); got != want {
			t.Fatalf("Limit(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestQtyAndName(t *testing.T) {
	if validate.Qty(0) || !validate.Qty(1) || validate.Qty(10000) {
		t.Fatal("qty window wrong")
	}
	if _, ok := validate.Name("   "); ok {
		t.Fatal("blank name accepted")
	}
}
