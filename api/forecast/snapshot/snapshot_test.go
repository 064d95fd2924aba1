package snapshot

import "testing"

func TestDecodePricingItems(t *testing.T) {
	raw := []byte(`[
		{"amount": "1,500.50"},
		{"quantity": 3, "unit_price": 200},
		{"unit_price": "99.99"},
		{"amount": null, "unit_price": -5}
	]`)
	items := decodePricingItems(raw)
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	if items[0].Amount == nil || *items[0].Amount != 1500.50 {
		t.Fatalf("string amount not coerced: %+v", items[0])
	}
	if items[1].Quantity == nil || *items[1].Quantity != 3 || items[1].UnitPrice != 200 {
		t.Fatalf("quantity row mangled: %+v", items[1])
	}
	if items[2].Amount != nil || items[2].UnitPrice != 99.99 {
		t.Fatalf("unit-price-only row mangled: %+v", items[2])
	}
	if items[3].Amount != nil || items[3].UnitPrice != 0 {
		t.Fatalf("null/negative row must degrade to zero: %+v", items[3])
	}
}

func TestDecodePricingItemsGarbage(t *testing.T) {
	if got := decodePricingItems(nil); got != nil {
		t.Fatalf("nil raw should yield nil, got %v", got)
	}
	if got := decodePricingItems([]byte(`{"not":"an array"}`)); got != nil {
		t.Fatalf("non-array blob should yield nil, got %v", got)
	}
}
