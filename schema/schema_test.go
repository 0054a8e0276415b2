package schema

import (
	"testing"
)

func TestForReturnsSchemaPerType(t *testing.T) {
	for _, pt := range AllProductTypes() {
		s := For(pt)
		if s.Type != pt {
			t.Errorf("For(%s).Type = %s, want %s", pt, s.Type, pt)
		}
		if len(s.Attributes) == 0 {
			t.Errorf("For(%s) has no attributes", pt)
		}
	}
}

func TestForUnknownTypeFallsBackToCreditCard(t *testing.T) {
	s := For(ProductType("mortgage"))
	if s.Type != CreditCard {
		t.Errorf("For(unknown).Type = %s, want %s", s.Type, CreditCard)
	}
}

func TestFieldNamesIncludeBankFirst(t *testing.T) {
	for _, pt := range AllProductTypes() {
		names := For(pt).FieldNames()
		if names[0] != "bank" {
			t.Errorf("For(%s).FieldNames()[0] = %s, want bank", pt, names[0])
		}
		if len(names) != len(For(pt).Attributes)+1 {
			t.Errorf("For(%s).FieldNames() length mismatch", pt)
		}
	}
}

func TestEveryAttributeHasDisplayName(t *testing.T) {
	for _, pt := range AllProductTypes() {
		s := For(pt)
		for _, field := range s.FieldNames() {
			if _, ok := s.DisplayNames[field]; !ok {
				t.Errorf("%s: attribute %q has no display name", pt, field)
			}
		}
	}
}

func TestEveryAttributeHasAliases(t *testing.T) {
	// У каждого атрибута схемы должен быть хотя бы один известный алиас,
	// иначе резолвер никогда не найдет его значение
	for _, pt := range AllProductTypes() {
		for _, attr := range For(pt).Attributes {
			if len(Aliases(attr.Name)) == 0 {
				t.Errorf("%s: attribute %q has no aliases", pt, attr.Name)
			}
		}
	}
}

func TestKindOf(t *testing.T) {
	s := For(CreditCard)

	kind, ok := s.KindOf("interest_rate")
	if !ok || kind != KindRate {
		t.Errorf("KindOf(interest_rate) = %v, %v; want KindRate, true", kind, ok)
	}

	if _, ok := s.KindOf("no_such_field"); ok {
		t.Error("KindOf(no_such_field) reported ok for unknown attribute")
	}
}

func TestProductTypeIsValid(t *testing.T) {
	if !CreditCard.IsValid() {
		t.Error("CreditCard.IsValid() = false")
	}
	if ProductType("mortgage").IsValid() {
		t.Error("unknown product type reported as valid")
	}
}
