package transform

import (
	"testing"

	"github.com/leapstack-labs/refinery/internal/model"
)

func TestProductsCategoryCanonicalization(t *testing.T) {
	raw := []model.RawProduct{
		{ProductID: "1", Name: "Laptop", Category: "ELECTRONICS", Price: "999.99"},
		{ProductID: "2", Name: "Novel", Category: "books", Price: "12.50"},
		{ProductID: "3", Name: "Blender", Category: "Home", Price: "89.00"},
		{ProductID: "4", Name: "Widget", Category: "Gadgets", Price: "25.00"},
	}

	got := Products(raw)
	if len(got) != 4 {
		t.Fatalf("expected 4 products, got %d", len(got))
	}
	want := []string{"Electronics", "Books", "Home", "Gadgets"}
	for i, w := range want {
		if got[i].Category != w {
			t.Errorf("product %d: category %q, want %q", i, got[i].Category, w)
		}
	}
}

func TestProductsDedupByID(t *testing.T) {
	raw := []model.RawProduct{
		{ProductID: "10", Name: "First", Category: "books", Price: "5.00"},
		{ProductID: "10", Name: "Second", Category: "books", Price: "6.00"},
	}

	got := Products(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 product, got %d", len(got))
	}
	if got[0].Name != "First" {
		t.Errorf("id dedup should keep the first-seen row, got %+v", got[0])
	}
}

func TestProductsDedupByNameCategory(t *testing.T) {
	// Different ids but same (name, category) after canonicalization.
	raw := []model.RawProduct{
		{ProductID: "20", Name: "Lamp", Category: "home", Price: "30.00"},
		{ProductID: "21", Name: "Lamp", Category: "HOME", Price: "35.00"},
		{ProductID: "22", Name: "Lamp", Category: "Gadgets", Price: "40.00"},
	}

	got := Products(raw)
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d: %+v", len(got), got)
	}
	if got[0].ID != 20 || got[1].ID != 22 {
		t.Errorf("unexpected survivors: %+v", got)
	}
}

func TestProductsPriceRange(t *testing.T) {
	raw := []model.RawProduct{
		{ProductID: "1", Name: "Free", Category: "books", Price: "0"},
		{ProductID: "2", Name: "Negative", Category: "books", Price: "-1"},
		{ProductID: "3", Name: "Boundary", Category: "books", Price: "10000"},
		{ProductID: "4", Name: "TooMuch", Category: "books", Price: "10000.01"},
		{ProductID: "5", Name: "NotANumber", Category: "books", Price: "abc"},
		{ProductID: "6", Name: "Fine", Category: "books", Price: "9.99"},
	}

	got := Products(raw)
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d: %+v", len(got), got)
	}
	if got[0].ID != 3 || got[1].ID != 6 {
		t.Errorf("unexpected survivors: %+v", got)
	}
}

func TestProductsRejectNonIntegerIDs(t *testing.T) {
	raw := []model.RawProduct{
		{ProductID: "abc", Name: "BadID", Category: "books", Price: "5.00"},
		{ProductID: "7", Name: "GoodID", Category: "books", Price: "5.00"},
	}

	got := Products(raw)
	if len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("expected only the integer-id product, got %+v", got)
	}
}

func TestProductsDoNotMutateInput(t *testing.T) {
	raw := []model.RawProduct{
		{ProductID: "1", Name: "Laptop", Category: "ELECTRONICS", Price: "999.99"},
	}
	Products(raw)
	if raw[0].Category != "ELECTRONICS" {
		t.Errorf("input slice was mutated: %+v", raw[0])
	}
}
